// Package github provides GitHub API client operations over REST and GraphQL.
package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v69/github"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sgaunet/bullets"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Client wraps the go-github REST client and the githubv4 GraphQL client
// for a single repository.
type Client struct {
	rest    *github.Client
	graphql *githubv4.Client
	owner   string
	repo    string
	self    string // authenticated login, resolved lazily
	log     *bullets.Logger
}

// NewClient creates a new GitHub client authenticated from the GITHUB_TOKEN
// environment variable. An empty endpoint targets github.com; otherwise the
// endpoint is treated as a GitHub Enterprise base URL. Retries and backoff
// are delegated to the underlying retryablehttp transport.
func NewClient(endpoint string) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, ErrTokenRequired
	}

	retry := retryablehttp.NewClient()
	retry.Logger = nil

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, retry.StandardClient())
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)

	rest := github.NewClient(httpClient)
	graphql := githubv4.NewClient(httpClient)

	if endpoint != "" {
		var err error
		rest, err = rest.WithEnterpriseURLs(endpoint, endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise endpoint: %w", err)
		}
		graphql = githubv4.NewEnterpriseClient(strings.TrimSuffix(endpoint, "/")+"/api/graphql", httpClient)
	}

	return &Client{
		rest:    rest,
		graphql: graphql,
	}, nil
}

// SetLogger sets the logger for client operations.
func (c *Client) SetLogger(log *bullets.Logger) {
	c.log = log
}

// SetRepository pins the client to a repository.
func (c *Client) SetRepository(owner, repo string) {
	c.owner = owner
	c.repo = repo
}

// Self returns the login of the authenticated user, resolving it on first use.
func (c *Client) Self() (string, error) {
	if c.self != "" {
		return c.self, nil
	}

	user, _, err := c.rest.Users.Get(c.ctx(), "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}

	c.self = user.GetLogin()
	return c.self, nil
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
