// Package config handles loading and validation of user configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

var (
	errConfigNotFound        = errors.New("config file not found")
	errEndpointRequired      = errors.New("gerrit requires an endpoint")
	errInvalidMergeStrategy  = errors.New("invalid merge strategy")
	errInvalidIgnoredAuthors = errors.New("ignored author entries must not be empty")
)

// Config represents the complete configuration for the update workflow.
// Tokens and passwords are never read from this file; the provider clients
// take them from the environment.
type Config struct {
	// Platform forces a provider kind. Empty enables detection from the
	// git remote URL.
	Platform string `yaml:"platform"`

	// Endpoint is the provider base URL for self-hosted instances.
	Endpoint string `yaml:"endpoint"`

	// Repository is the project to operate on, e.g. "owner/repo". Empty
	// enables detection from the git remote URL.
	Repository string `yaml:"repository"`

	// Labels are applied to every created pull request.
	Labels []string `yaml:"labels"`

	// Assignees and Reviewers are added to every created pull request.
	Assignees []string `yaml:"assignees"`
	Reviewers []string `yaml:"reviewers"`

	// MergeStrategy selects how pull requests are merged. Empty means
	// "auto".
	MergeStrategy string `yaml:"mergeStrategy"`

	// IgnoredAuthors lists users whose pull requests are never touched.
	IgnoredAuthors []string `yaml:"ignoredAuthors"`

	// Gerrit holds Gerrit-specific settings.
	Gerrit GerritConfig `yaml:"gerrit"`

	// LogLevel controls log verbosity: debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// GerritConfig contains Gerrit-specific configuration.
type GerritConfig struct {
	// VoteLabel is the review label branch statuses are published on.
	// Empty selects "Verified".
	VoteLabel string `yaml:"voteLabel"`
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "renovate", "platform.yml"), nil
}

// Load reads and parses the configuration file from the user's home
// directory. A missing file yields the zero configuration, which relies on
// detection and defaults.
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	// #nosec G304 - Reading config from user's home directory is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("%w: %s", errConfigNotFound, configPath)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Platform != "" {
		if _, err := platform.ParseKind(c.Platform); err != nil {
			return err
		}
	}

	if c.Platform == string(platform.KindGerrit) && c.Endpoint == "" {
		return errEndpointRequired
	}

	switch platform.MergeStrategy(c.MergeStrategy) {
	case "", platform.StrategyAuto, platform.StrategyRebase,
		platform.StrategySquash, platform.StrategyMergeCommit:
	default:
		return fmt.Errorf("%w: %q", errInvalidMergeStrategy, c.MergeStrategy)
	}

	for _, author := range c.IgnoredAuthors {
		if author == "" {
			return errInvalidIgnoredAuthors
		}
	}

	return nil
}

// Strategy returns the configured merge strategy, defaulting to auto.
func (c *Config) Strategy() platform.MergeStrategy {
	if c.MergeStrategy == "" {
		return platform.StrategyAuto
	}
	return platform.MergeStrategy(c.MergeStrategy)
}

// IsIgnoredAuthor reports whether pull requests authored by the given user
// are excluded from listings and the dashboard.
func (c *Config) IsIgnoredAuthor(author string) bool {
	for _, ignored := range c.IgnoredAuthors {
		if strings.EqualFold(ignored, author) {
			return true
		}
	}
	return false
}
