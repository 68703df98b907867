package github

import (
	"fmt"

	"github.com/google/go-github/v69/github"
)

const perPage = 100

// GetRepo fetches repository metadata.
func (c *Client) GetRepo() (*github.Repository, error) {
	repo, _, err := c.rest.Repositories.Get(c.ctx(), c.owner, c.repo)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return repo, nil
}

// GetPr fetches a pull request by number.
func (c *Client) GetPr(number int) (*github.PullRequest, error) {
	pr, _, err := c.rest.PullRequests.Get(c.ctx(), c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr, nil
}

// CreatePr creates a pull request.
func (c *Client) CreatePr(newPr *github.NewPullRequest) (*github.PullRequest, error) {
	pr, _, err := c.rest.PullRequests.Create(c.ctx(), c.owner, c.repo, newPr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}
	return pr, nil
}

// EditPr updates mutable pull-request fields (title, body, state, base).
func (c *Client) EditPr(number int, pr *github.PullRequest) error {
	_, _, err := c.rest.PullRequests.Edit(c.ctx(), c.owner, c.repo, number, pr)
	if err != nil {
		return fmt.Errorf("failed to edit pull request #%d: %w", number, err)
	}
	return nil
}

// MergePr merges a pull request with the given merge method
// ("rebase", "squash" or "merge").
func (c *Client) MergePr(number int, method string) error {
	opts := &github.PullRequestOptions{MergeMethod: method}
	_, _, err := c.rest.PullRequests.Merge(c.ctx(), c.owner, c.repo, number, "", opts)
	if err != nil {
		return fmt.Errorf("failed to merge pull request #%d: %w", number, err)
	}
	return nil
}

// ListStatuses returns the commit statuses for a ref.
func (c *Client) ListStatuses(ref string) ([]*github.RepoStatus, error) {
	var all []*github.RepoStatus
	opts := &github.ListOptions{PerPage: perPage}
	for {
		statuses, resp, err := c.rest.Repositories.ListStatuses(c.ctx(), c.owner, c.repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list commit statuses: %w", err)
		}
		all = append(all, statuses...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListCheckRuns returns the check runs for a ref.
func (c *Client) ListCheckRuns(ref string) ([]*github.CheckRun, error) {
	var all []*github.CheckRun
	opts := &github.ListCheckRunsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		result, resp, err := c.rest.Checks.ListCheckRunsForRef(c.ctx(), c.owner, c.repo, ref, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list check runs: %w", err)
		}
		all = append(all, result.CheckRuns...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateStatus attaches a commit status to a ref.
func (c *Client) CreateStatus(ref string, status *github.RepoStatus) error {
	_, _, err := c.rest.Repositories.CreateStatus(c.ctx(), c.owner, c.repo, ref, status)
	if err != nil {
		return fmt.Errorf("failed to create commit status: %w", err)
	}
	return nil
}

// ListComments returns the comments of a pull request or issue.
func (c *Client) ListComments(number int) ([]*github.IssueComment, error) {
	var all []*github.IssueComment
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		comments, resp, err := c.rest.Issues.ListComments(c.ctx(), c.owner, c.repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}
		all = append(all, comments...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateComment posts a comment on a pull request or issue.
func (c *Client) CreateComment(number int, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}
	_, _, err := c.rest.Issues.CreateComment(c.ctx(), c.owner, c.repo, number, comment)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return nil
}

// EditComment replaces a comment body.
func (c *Client) EditComment(commentID int64, body string) error {
	comment := &github.IssueComment{Body: github.Ptr(body)}
	_, _, err := c.rest.Issues.EditComment(c.ctx(), c.owner, c.repo, commentID, comment)
	if err != nil {
		return fmt.Errorf("failed to edit comment %d: %w", commentID, err)
	}
	return nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(commentID int64) error {
	_, err := c.rest.Issues.DeleteComment(c.ctx(), c.owner, c.repo, commentID)
	if err != nil {
		return fmt.Errorf("failed to delete comment %d: %w", commentID, err)
	}
	return nil
}

// ListIssues returns issues created by the authenticated user in the given
// state ("open", "closed" or "all").
func (c *Client) ListIssues(state string) ([]*github.Issue, error) {
	self, err := c.Self()
	if err != nil {
		return nil, err
	}

	var all []*github.Issue
	opts := &github.IssueListByRepoOptions{
		State:       state,
		Creator:     self,
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		issues, resp, err := c.rest.Issues.ListByRepo(c.ctx(), c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		for _, issue := range issues {
			// The issues API also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			all = append(all, issue)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(req *github.IssueRequest) (*github.Issue, error) {
	issue, _, err := c.rest.Issues.Create(c.ctx(), c.owner, c.repo, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}
	return issue, nil
}

// EditIssue updates an issue (body, state).
func (c *Client) EditIssue(number int, req *github.IssueRequest) error {
	_, _, err := c.rest.Issues.Edit(c.ctx(), c.owner, c.repo, number, req)
	if err != nil {
		return fmt.Errorf("failed to edit issue #%d: %w", number, err)
	}
	return nil
}

// AddLabels adds labels to a pull request or issue.
func (c *Client) AddLabels(number int, labels []string) error {
	_, _, err := c.rest.Issues.AddLabelsToIssue(c.ctx(), c.owner, c.repo, number, labels)
	if err != nil {
		return fmt.Errorf("failed to add labels: %w", err)
	}
	return nil
}

// RemoveLabel removes a single label from a pull request or issue.
func (c *Client) RemoveLabel(number int, label string) error {
	_, err := c.rest.Issues.RemoveLabelForIssue(c.ctx(), c.owner, c.repo, number, label)
	if err != nil {
		return fmt.Errorf("failed to remove label %q: %w", label, err)
	}
	return nil
}

// AddAssignees assigns users to a pull request or issue.
func (c *Client) AddAssignees(number int, assignees []string) error {
	_, _, err := c.rest.Issues.AddAssignees(c.ctx(), c.owner, c.repo, number, assignees)
	if err != nil {
		return fmt.Errorf("failed to add assignees: %w", err)
	}
	return nil
}

// RequestReviewers requests reviews from users on a pull request.
func (c *Client) RequestReviewers(number int, reviewers []string) error {
	req := github.ReviewersRequest{Reviewers: reviewers}
	_, _, err := c.rest.PullRequests.RequestReviewers(c.ctx(), c.owner, c.repo, number, req)
	if err != nil {
		return fmt.Errorf("failed to request reviewers: %w", err)
	}
	return nil
}
