package github

import (
	"fmt"

	"github.com/google/go-github/v69/github"
	"github.com/shurcooL/githubv4"
)

// prNode is the GraphQL shape of a pull request in the listing query.
type prNode struct {
	Number      githubv4.Int
	Title       githubv4.String
	Body        githubv4.String
	State       githubv4.String
	IsDraft     githubv4.Boolean
	URL         githubv4.URI
	CreatedAt   githubv4.DateTime
	HeadRefName githubv4.String
	BaseRefName githubv4.String
	HeadRefOid  githubv4.GitObjectID
	Labels      struct {
		Nodes []struct {
			Name githubv4.String
		}
	} `graphql:"labels(first: 20)"`
}

// ListPrs returns the repository's pull requests in every state through a
// single paginated GraphQL query, which is far cheaper than the REST
// listing plus per-PR fetches. Results are ordered newest-updated first.
func (c *Client) ListPrs() ([]*github.PullRequest, error) {
	var query struct {
		Repository struct {
			PullRequests struct {
				Nodes    []prNode
				PageInfo struct {
					EndCursor   githubv4.String
					HasNextPage githubv4.Boolean
				}
			} `graphql:"pullRequests(first: 100, after: $cursor, states: [OPEN, CLOSED, MERGED], orderBy: {field: UPDATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	variables := map[string]interface{}{
		"owner":  githubv4.String(c.owner),
		"name":   githubv4.String(c.repo),
		"cursor": (*githubv4.String)(nil),
	}

	var all []*github.PullRequest
	for {
		if err := c.graphql.Query(c.ctx(), &query, variables); err != nil {
			return nil, fmt.Errorf("failed to query pull requests: %w", err)
		}

		for i := range query.Repository.PullRequests.Nodes {
			all = append(all, convertPrNode(&query.Repository.PullRequests.Nodes[i]))
		}

		if !bool(query.Repository.PullRequests.PageInfo.HasNextPage) {
			break
		}
		cursor := query.Repository.PullRequests.PageInfo.EndCursor
		variables["cursor"] = githubv4.NewString(cursor)
	}

	c.debugf("Listed %d pull requests for %s/%s", len(all), c.owner, c.repo)
	return all, nil
}

// convertPrNode maps the GraphQL pull-request shape onto the go-github REST
// shape so callers deal with a single vocabulary.
func convertPrNode(node *prNode) *github.PullRequest {
	pr := &github.PullRequest{
		Number:    github.Ptr(int(node.Number)),
		Title:     github.Ptr(string(node.Title)),
		Body:      github.Ptr(string(node.Body)),
		Draft:     github.Ptr(bool(node.IsDraft)),
		CreatedAt: &github.Timestamp{Time: node.CreatedAt.Time},
		Head: &github.PullRequestBranch{
			Ref: github.Ptr(string(node.HeadRefName)),
			SHA: github.Ptr(string(node.HeadRefOid)),
		},
		Base: &github.PullRequestBranch{
			Ref: github.Ptr(string(node.BaseRefName)),
		},
	}

	// GraphQL states are upper case (OPEN, CLOSED, MERGED); REST uses
	// lower-case open/closed with a separate merged flag.
	switch string(node.State) {
	case "MERGED":
		pr.State = github.Ptr("closed")
		pr.Merged = github.Ptr(true)
	case "CLOSED":
		pr.State = github.Ptr("closed")
	default:
		pr.State = github.Ptr("open")
	}

	if node.URL.URL != nil {
		pr.HTMLURL = github.Ptr(node.URL.String())
	}

	for _, label := range node.Labels.Nodes {
		pr.Labels = append(pr.Labels, &github.Label{Name: github.Ptr(string(label.Name))})
	}

	return pr
}
