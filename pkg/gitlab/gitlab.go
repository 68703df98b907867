// Package gitlab provides GitLab API client operations.
package gitlab

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sgaunet/bullets"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Client wraps the client-go client for a single project.
type Client struct {
	client    *gitlab.Client
	projectID string
	self      string
	log       *bullets.Logger
}

// NewClient creates a new GitLab client authenticated from the GITLAB_TOKEN
// environment variable. endpoint selects a self-managed instance; empty
// targets gitlab.com. Retries and backoff are delegated to the underlying
// retryablehttp transport.
func NewClient(endpoint string) (*Client, error) {
	token := os.Getenv("GITLAB_TOKEN")
	if token == "" {
		return nil, ErrTokenRequired
	}

	retry := retryablehttp.NewClient()
	retry.Logger = nil

	opts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(retry.StandardClient()),
	}
	if endpoint != "" {
		opts = append(opts, gitlab.WithBaseURL(endpoint))
	}

	client, err := gitlab.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitLab client: %w", err)
	}

	return &Client{client: client}, nil
}

// SetLogger sets the logger for client operations.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// SetProject pins the client to a project by path or numeric ID.
func (c *Client) SetProject(project string) {
	c.projectID = project
	c.self = ""
}

// GetProject fetches the pinned project and narrows the client to its
// numeric ID for subsequent calls.
func (c *Client) GetProject() (*gitlab.Project, error) {
	project, resp, err := c.client.Projects.GetProject(c.projectID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", wrapResponse(resp, err))
	}

	c.projectID = strconv.Itoa(project.ID)
	c.debugf("GitLab project resolved, ID: %s", c.projectID)
	return project, nil
}

// Self returns the username of the authenticated user, cached after the
// first call.
func (c *Client) Self() (string, error) {
	if c.self != "" {
		return c.self, nil
	}

	user, resp, err := c.client.Users.CurrentUser()
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", wrapResponse(resp, err))
	}
	c.self = user.Username
	return c.self, nil
}

func (c *Client) debugf(format string, args ...any) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}
