package gitlab

import (
	"fmt"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

const perPage = 100

// ListMergeRequests returns the project merge requests in the given state
// ("opened", "closed", "merged" or "all"), newest first, across all pages.
func (c *Client) ListMergeRequests(state string) ([]*gitlab.BasicMergeRequest, error) {
	opts := &gitlab.ListProjectMergeRequestsOptions{
		State:       gitlab.Ptr(state),
		OrderBy:     gitlab.Ptr("updated_at"),
		ListOptions: gitlab.ListOptions{PerPage: perPage},
	}

	var all []*gitlab.BasicMergeRequest
	for {
		mrs, resp, err := c.client.MergeRequests.ListProjectMergeRequests(c.projectID, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list merge requests: %w", wrapResponse(resp, err))
		}
		all = append(all, mrs...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.debugf("Listed %d merge requests (state %s)", len(all), state)
	return all, nil
}

// GetMergeRequest fetches a single merge request with full details.
func (c *Client) GetMergeRequest(iid int) (*gitlab.MergeRequest, error) {
	mr, resp, err := c.client.MergeRequests.GetMergeRequest(c.projectID, iid, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get merge request %d: %w", iid, wrapResponse(resp, err))
	}
	return mr, nil
}

// CreateMergeRequest creates a new merge request.
func (c *Client) CreateMergeRequest(opts *gitlab.CreateMergeRequestOptions) (*gitlab.MergeRequest, error) {
	mr, resp, err := c.client.MergeRequests.CreateMergeRequest(c.projectID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create merge request: %w", wrapResponse(resp, err))
	}
	return mr, nil
}

// UpdateMergeRequest updates title, description, labels or state of a merge
// request.
func (c *Client) UpdateMergeRequest(iid int, opts *gitlab.UpdateMergeRequestOptions) (*gitlab.MergeRequest, error) {
	mr, resp, err := c.client.MergeRequests.UpdateMergeRequest(c.projectID, iid, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to update merge request %d: %w", iid, wrapResponse(resp, err))
	}
	return mr, nil
}

// AcceptMergeRequest merges a merge request.
func (c *Client) AcceptMergeRequest(iid int, opts *gitlab.AcceptMergeRequestOptions) error {
	_, resp, err := c.client.MergeRequests.AcceptMergeRequest(c.projectID, iid, opts)
	if err != nil {
		return fmt.Errorf("failed to merge merge request %d: %w", iid, wrapResponse(resp, err))
	}
	return nil
}

// GetCommitStatuses returns the statuses reported for a commit.
func (c *Client) GetCommitStatuses(sha string) ([]*gitlab.CommitStatus, error) {
	opts := &gitlab.GetCommitStatusesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage},
	}

	var all []*gitlab.CommitStatus
	for {
		statuses, resp, err := c.client.Commits.GetCommitStatuses(c.projectID, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit statuses for %s: %w", sha, wrapResponse(resp, err))
		}
		all = append(all, statuses...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// SetCommitStatus reports a status for a commit.
func (c *Client) SetCommitStatus(sha string, opts *gitlab.SetCommitStatusOptions) error {
	_, resp, err := c.client.Commits.SetCommitStatus(c.projectID, sha, opts)
	if err != nil {
		return fmt.Errorf("failed to set commit status on %s: %w", sha, wrapResponse(resp, err))
	}
	return nil
}

// ListMergeRequestNotes returns the non-system notes of a merge request.
func (c *Client) ListMergeRequestNotes(iid int) ([]*gitlab.Note, error) {
	opts := &gitlab.ListMergeRequestNotesOptions{
		ListOptions: gitlab.ListOptions{PerPage: perPage},
	}

	var all []*gitlab.Note
	for {
		notes, resp, err := c.client.Notes.ListMergeRequestNotes(c.projectID, iid, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list notes on merge request %d: %w", iid, wrapResponse(resp, err))
		}
		for _, note := range notes {
			if note.System {
				continue
			}
			all = append(all, note)
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateMergeRequestNote posts a note on a merge request.
func (c *Client) CreateMergeRequestNote(iid int, body string) error {
	opts := &gitlab.CreateMergeRequestNoteOptions{Body: gitlab.Ptr(body)}
	_, resp, err := c.client.Notes.CreateMergeRequestNote(c.projectID, iid, opts)
	if err != nil {
		return fmt.Errorf("failed to create note on merge request %d: %w", iid, wrapResponse(resp, err))
	}
	return nil
}

// UpdateMergeRequestNote replaces the body of a note.
func (c *Client) UpdateMergeRequestNote(iid, noteID int, body string) error {
	opts := &gitlab.UpdateMergeRequestNoteOptions{Body: gitlab.Ptr(body)}
	_, resp, err := c.client.Notes.UpdateMergeRequestNote(c.projectID, iid, noteID, opts)
	if err != nil {
		return fmt.Errorf("failed to update note %d on merge request %d: %w", noteID, iid, wrapResponse(resp, err))
	}
	return nil
}

// DeleteMergeRequestNote deletes a note.
func (c *Client) DeleteMergeRequestNote(iid, noteID int) error {
	resp, err := c.client.Notes.DeleteMergeRequestNote(c.projectID, iid, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note %d on merge request %d: %w", noteID, iid, wrapResponse(resp, err))
	}
	return nil
}

// ListIssues returns the project issues created by the authenticated user
// in the given state ("opened", "closed" or "all").
func (c *Client) ListIssues(state string) ([]*gitlab.Issue, error) {
	opts := &gitlab.ListProjectIssuesOptions{
		Scope:       gitlab.Ptr("created_by_me"),
		ListOptions: gitlab.ListOptions{PerPage: perPage},
	}
	if state != "all" {
		opts.State = gitlab.Ptr(state)
	}

	var all []*gitlab.Issue
	for {
		issues, resp, err := c.client.Issues.ListProjectIssues(c.projectID, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", wrapResponse(resp, err))
		}
		all = append(all, issues...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// CreateIssue opens a new issue.
func (c *Client) CreateIssue(opts *gitlab.CreateIssueOptions) (*gitlab.Issue, error) {
	issue, resp, err := c.client.Issues.CreateIssue(c.projectID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", wrapResponse(resp, err))
	}
	return issue, nil
}

// UpdateIssue updates title, description or state of an issue.
func (c *Client) UpdateIssue(iid int, opts *gitlab.UpdateIssueOptions) (*gitlab.Issue, error) {
	issue, resp, err := c.client.Issues.UpdateIssue(c.projectID, iid, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to update issue %d: %w", iid, wrapResponse(resp, err))
	}
	return issue, nil
}

// LookupUser resolves a username to its numeric ID.
func (c *Client) LookupUser(username string) (int, error) {
	users, resp, err := c.client.Users.ListUsers(&gitlab.ListUsersOptions{Username: &username})
	if err != nil {
		return 0, fmt.Errorf("failed to look up user %q: %w", username, wrapResponse(resp, err))
	}
	if len(users) == 0 {
		return 0, fmt.Errorf("%w: user %q", ErrNotFound, username)
	}
	return users[0].ID, nil
}
