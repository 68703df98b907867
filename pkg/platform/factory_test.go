package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Onesty-Tech-GmbH/renovate/internal/logger"
	gerritclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gerrit"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    platform.Kind
		wantErr bool
	}{
		{"github", "github", platform.KindGitHub, false},
		{"gitlab", "gitlab", platform.KindGitLab, false},
		{"gerrit", "gerrit", platform.KindGerrit, false},
		{"unknown", "bitbucket", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, err := platform.ParseKind(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, platform.ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestNewPlatform(t *testing.T) {
	t.Run("github", func(t *testing.T) {
		t.Setenv("GITHUB_TOKEN", "test-token")

		p, err := platform.NewPlatform(platform.KindGitHub, platform.Config{}, logger.NoLogger())
		require.NoError(t, err)
		assert.Equal(t, "github", p.Name())
	})

	t.Run("gitlab", func(t *testing.T) {
		t.Setenv("GITLAB_TOKEN", "test-token")

		p, err := platform.NewPlatform(platform.KindGitLab, platform.Config{}, logger.NoLogger())
		require.NoError(t, err)
		assert.Equal(t, "gitlab", p.Name())
	})

	t.Run("gerrit", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "bot")
		t.Setenv("GERRIT_PASSWORD", "secret")

		p, err := platform.NewPlatform(platform.KindGerrit, platform.Config{
			Endpoint: "https://gerrit.example.com",
		}, logger.NoLogger())
		require.NoError(t, err)
		assert.Equal(t, "gerrit", p.Name())
	})

	t.Run("gerrit requires an endpoint", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "bot")
		t.Setenv("GERRIT_PASSWORD", "secret")

		_, err := platform.NewPlatform(platform.KindGerrit, platform.Config{}, logger.NoLogger())
		assert.ErrorIs(t, err, gerritclient.ErrEndpointRequired)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := platform.NewPlatform("bitbucket", platform.Config{}, logger.NoLogger())
		assert.ErrorIs(t, err, platform.ErrUnknownKind)
	})
}
