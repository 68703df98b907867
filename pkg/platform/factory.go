package platform

import (
	"errors"
	"fmt"

	"github.com/sgaunet/bullets"

	gerritclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gerrit"
	ghclient "github.com/Onesty-Tech-GmbH/renovate/pkg/github"
	glclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gitlab"
)

// ErrUnknownKind is returned for provider kinds this build does not
// support.
var ErrUnknownKind = errors.New("unknown platform kind")

// Config carries the provider settings the factory needs. Credentials are
// read from the environment by the provider clients themselves.
type Config struct {
	// Endpoint is the base URL of the provider instance. Empty selects
	// the hosted service (github.com or gitlab.com); Gerrit always
	// requires an endpoint.
	Endpoint string

	// GerritVoteLabel is the review label Gerrit branch statuses are
	// published on. Empty selects "Verified".
	GerritVoteLabel string
}

// ParseKind validates a provider name from configuration or detection.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindGitHub, KindGitLab, KindGerrit:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, name)
	}
}

// NewPlatform creates the adapter for a provider kind, wiring up its API
// client with credentials from the environment.
func NewPlatform(kind Kind, cfg Config, log *bullets.Logger) (Platform, error) {
	switch kind {
	case KindGitHub:
		client, err := ghclient.NewClient(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create github platform: %w", err)
		}
		client.SetLogger(log)
		return NewGitHubAdapter(client, log), nil

	case KindGitLab:
		client, err := glclient.NewClient(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create gitlab platform: %w", err)
		}
		client.SetLogger(log)
		return NewGitLabAdapter(client, log), nil

	case KindGerrit:
		client, err := gerritclient.NewClient(cfg.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create gerrit platform: %w", err)
		}
		client.SetLogger(log)
		return NewGerritAdapter(client, cfg.Endpoint, cfg.GerritVoteLabel, log), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
