// Package gerrit provides Gerrit REST API client operations.
package gerrit

import (
	"context"
	"fmt"
	"os"

	"github.com/andygrunwald/go-gerrit"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sgaunet/bullets"

	"github.com/Onesty-Tech-GmbH/renovate/internal/security"
)

// Client wraps the go-gerrit client for a single project.
type Client struct {
	client   *gerrit.Client
	project  string
	log      *bullets.Logger
	endpoint string
	username string
}

// NewClient creates a new Gerrit client for the given instance URL,
// authenticated from the GERRIT_USERNAME and GERRIT_PASSWORD environment
// variables (HTTP credentials, not the account password). Retries and
// backoff are delegated to the underlying retryablehttp transport.
func NewClient(endpoint string) (*Client, error) {
	if endpoint == "" {
		return nil, ErrEndpointRequired
	}

	username := os.Getenv("GERRIT_USERNAME")
	password := os.Getenv("GERRIT_PASSWORD")
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	retry := retryablehttp.NewClient()
	retry.Logger = nil

	client, err := gerrit.NewClient(context.Background(), endpoint, retry.StandardClient())
	if err != nil {
		return nil, fmt.Errorf("failed to create Gerrit client: %w", err)
	}
	client.Authentication.SetBasicAuth(username, password)

	return &Client{client: client, endpoint: endpoint, username: username}, nil
}

// SetLogger sets the logger for client operations.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
	security.DebugAuth(log, "Gerrit", map[string]string{
		"method":   "basic",
		"endpoint": c.endpoint,
		"username": c.username,
	})
}

// SetProject pins the client to a project.
func (c *Client) SetProject(project string) {
	c.project = project
}

// Project returns the pinned project path.
func (c *Client) Project() string {
	return c.project
}

// ctx returns the context for API calls.
func (c *Client) ctx() context.Context {
	return context.Background()
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}
