package gerrit_test

import (
	"errors"
	"fmt"
	"testing"

	gerritclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gerrit"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", gerritclient.ErrNotFound, true},
		{"wrapped sentinel", fmt.Errorf("get change: %w", gerritclient.ErrNotFound), true},
		{"conflict sentinel", gerritclient.ErrConflict, false},
		{"plain error", errors.New("not found"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gerritclient.IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", gerritclient.ErrConflict, true},
		{"wrapped sentinel", fmt.Errorf("submit change: %w", gerritclient.ErrConflict), true},
		{"not found sentinel", gerritclient.ErrNotFound, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gerritclient.IsConflict(tt.err); got != tt.want {
				t.Errorf("IsConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Run("missing endpoint", func(t *testing.T) {
		_, err := gerritclient.NewClient("")
		if !errors.Is(err, gerritclient.ErrEndpointRequired) {
			t.Errorf("NewClient() error = %v, want ErrEndpointRequired", err)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "")
		t.Setenv("GERRIT_PASSWORD", "")

		_, err := gerritclient.NewClient("https://gerrit.example.com")
		if !errors.Is(err, gerritclient.ErrCredentialsRequired) {
			t.Errorf("NewClient() error = %v, want ErrCredentialsRequired", err)
		}
	})

	t.Run("password alone is not enough", func(t *testing.T) {
		t.Setenv("GERRIT_USERNAME", "")
		t.Setenv("GERRIT_PASSWORD", "secret")

		_, err := gerritclient.NewClient("https://gerrit.example.com")
		if !errors.Is(err, gerritclient.ErrCredentialsRequired) {
			t.Errorf("NewClient() error = %v, want ErrCredentialsRequired", err)
		}
	})
}
