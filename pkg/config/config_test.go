package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/config"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

// writeConfig places a config file where Load expects it, using a temporary
// home directory.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "renovate")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "platform.yml"), []byte(content), 0o600))
}

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		writeConfig(t, `
platform: gerrit
endpoint: https://gerrit.example.com
repository: tools/renovate
labels:
  - dependencies
assignees:
  - alice
mergeStrategy: squash
ignoredAuthors:
  - other-bot
gerrit:
  voteLabel: Build-Verified
logLevel: debug
`)

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, "gerrit", cfg.Platform)
		assert.Equal(t, "https://gerrit.example.com", cfg.Endpoint)
		assert.Equal(t, "tools/renovate", cfg.Repository)
		assert.Equal(t, []string{"dependencies"}, cfg.Labels)
		assert.Equal(t, []string{"alice"}, cfg.Assignees)
		assert.Equal(t, platform.StrategySquash, cfg.Strategy())
		assert.Equal(t, []string{"other-bot"}, cfg.IgnoredAuthors)
		assert.Equal(t, "Build-Verified", cfg.Gerrit.VoteLabel)
	})

	t.Run("missing file yields zero config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Empty(t, cfg.Platform)
		assert.Equal(t, platform.StrategyAuto, cfg.Strategy())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		writeConfig(t, "platform: [broken")

		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		writeConfig(t, "platform: bitbucket\n")

		_, err := config.Load()
		assert.ErrorIs(t, err, platform.ErrUnknownKind)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"zero config", config.Config{}, false},
		{"known platform", config.Config{Platform: "github"}, false},
		{"unknown platform", config.Config{Platform: "bitbucket"}, true},
		{"gerrit without endpoint", config.Config{Platform: "gerrit"}, true},
		{"gerrit with endpoint", config.Config{Platform: "gerrit", Endpoint: "https://gerrit.example.com"}, false},
		{"valid strategy", config.Config{MergeStrategy: "rebase"}, false},
		{"invalid strategy", config.Config{MergeStrategy: "fast-forward"}, true},
		{"empty ignored author", config.Config{IgnoredAuthors: []string{""}}, true},
		{"ignored authors", config.Config{IgnoredAuthors: []string{"other-bot"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStrategy(t *testing.T) {
	assert.Equal(t, platform.StrategyAuto, (&config.Config{}).Strategy())
	assert.Equal(t, platform.StrategyRebase, (&config.Config{MergeStrategy: "rebase"}).Strategy())
}

func TestIsIgnoredAuthor(t *testing.T) {
	cfg := &config.Config{IgnoredAuthors: []string{"other-bot", "Spam-User"}}

	assert.True(t, cfg.IsIgnoredAuthor("other-bot"))
	assert.True(t, cfg.IsIgnoredAuthor("spam-user"), "matching is case-insensitive")
	assert.False(t, cfg.IsIgnoredAuthor("alice"))
	assert.False(t, (&config.Config{}).IsIgnoredAuthor("alice"))
}
