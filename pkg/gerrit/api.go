package gerrit

import (
	"fmt"

	"github.com/andygrunwald/go-gerrit"
)

// changeFields are the optional pieces requested with every change so the
// adapter can map state, votes and messages without follow-up calls.
var changeFields = []string{
	"CURRENT_REVISION",
	"CURRENT_COMMIT",
	"LABELS",
	"MESSAGES",
	"DETAILED_ACCOUNTS",
}

// GetProject fetches project metadata.
func (c *Client) GetProject() (*gerrit.ProjectInfo, error) {
	project, resp, err := c.client.Projects.GetProject(c.ctx(), c.project)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", wrapResponse(resp, err))
	}
	return project, nil
}

// GetBranch fetches a branch of the project. "HEAD" resolves the default
// branch.
func (c *Client) GetBranch(branch string) (*gerrit.BranchInfo, error) {
	info, resp, err := c.client.Projects.GetBranch(c.ctx(), c.project, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to get branch %q: %w", branch, wrapResponse(resp, err))
	}
	return info, nil
}

// QueryChanges runs a change query scoped to the project. The terms are
// ANDed together by Gerrit.
func (c *Client) QueryChanges(terms []string) ([]gerrit.ChangeInfo, error) {
	query := append([]string{"project:" + c.project}, terms...)

	opts := &gerrit.QueryChangeOptions{}
	opts.Query = query
	opts.AdditionalFields = changeFields

	changes, resp, err := c.client.Changes.QueryChanges(c.ctx(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query changes: %w", wrapResponse(resp, err))
	}
	if changes == nil {
		return nil, nil
	}

	c.debugf("Change query %v returned %d changes", query, len(*changes))
	return *changes, nil
}

// GetChange fetches a single change with the standard field set.
func (c *Client) GetChange(changeID string) (*gerrit.ChangeInfo, error) {
	opts := &gerrit.ChangeOptions{AdditionalFields: changeFields}
	change, resp, err := c.client.Changes.GetChange(c.ctx(), changeID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get change %s: %w", changeID, wrapResponse(resp, err))
	}
	return change, nil
}

// AbandonChange abandons a change.
func (c *Client) AbandonChange(changeID string) error {
	_, resp, err := c.client.Changes.AbandonChange(c.ctx(), changeID, &gerrit.AbandonInput{})
	if err != nil {
		return fmt.Errorf("failed to abandon change %s: %w", changeID, wrapResponse(resp, err))
	}
	return nil
}

// SubmitChange submits (merges) a change. The merge strategy is decided by
// the project's server-side submit configuration.
func (c *Client) SubmitChange(changeID string) error {
	_, resp, err := c.client.Changes.SubmitChange(c.ctx(), changeID, &gerrit.SubmitInput{})
	if err != nil {
		return fmt.Errorf("failed to submit change %s: %w", changeID, wrapResponse(resp, err))
	}
	return nil
}

// SetReview posts a review (message and/or label votes) on the current
// revision of a change.
func (c *Client) SetReview(changeID string, input *gerrit.ReviewInput) error {
	_, resp, err := c.client.Changes.SetReview(c.ctx(), changeID, "current", input)
	if err != nil {
		return fmt.Errorf("failed to set review on change %s: %w", changeID, wrapResponse(resp, err))
	}
	return nil
}

// SetCommitMessage replaces the commit message of the current revision.
// The message must retain the Change-Id footer.
func (c *Client) SetCommitMessage(changeID, message string) error {
	input := &gerrit.CommitMessageInput{Message: message}
	resp, err := c.client.Changes.SetCommitMessage(c.ctx(), changeID, input)
	if err != nil {
		return fmt.Errorf("failed to set commit message on change %s: %w", changeID, wrapResponse(resp, err))
	}
	return nil
}

// AddReviewer adds a reviewer to a change.
func (c *Client) AddReviewer(changeID, reviewer string) error {
	input := &gerrit.ReviewerInput{Reviewer: reviewer}
	_, resp, err := c.client.Changes.AddReviewer(c.ctx(), changeID, input)
	if err != nil {
		return fmt.Errorf("failed to add reviewer %q to change %s: %w", reviewer, changeID, wrapResponse(resp, err))
	}
	return nil
}

// SetHashtags adds and removes hashtags on a change. Hashtags stand in for
// labels, which Gerrit does not have.
func (c *Client) SetHashtags(changeID string, add, remove []string) ([]string, error) {
	input := &gerrit.HashtagsInput{Add: add, Remove: remove}
	tags, resp, err := c.client.Changes.SetHashtags(c.ctx(), changeID, input)
	if err != nil {
		return nil, fmt.Errorf("failed to set hashtags on change %s: %w", changeID, wrapResponse(resp, err))
	}
	return tags, nil
}
