package gitlab

import gitlab "gitlab.com/gitlab-org/api/client-go"

// API defines the GitLab operations the platform adapter depends on.
// The interface enables dependency injection so the adapter's mapping logic
// can be exercised against mock implementations without real API calls.
type API interface {
	// SetProject pins the client to a project by path or numeric ID.
	SetProject(project string)

	// GetProject fetches the pinned project.
	GetProject() (*gitlab.Project, error)

	// Self returns the username of the authenticated user.
	Self() (string, error)

	// ListMergeRequests returns the project merge requests in a state.
	ListMergeRequests(state string) ([]*gitlab.BasicMergeRequest, error)

	// GetMergeRequest fetches a single merge request.
	GetMergeRequest(iid int) (*gitlab.MergeRequest, error)

	// CreateMergeRequest creates a new merge request.
	CreateMergeRequest(opts *gitlab.CreateMergeRequestOptions) (*gitlab.MergeRequest, error)

	// UpdateMergeRequest updates a merge request.
	UpdateMergeRequest(iid int, opts *gitlab.UpdateMergeRequestOptions) (*gitlab.MergeRequest, error)

	// AcceptMergeRequest merges a merge request.
	AcceptMergeRequest(iid int, opts *gitlab.AcceptMergeRequestOptions) error

	// GetCommitStatuses returns the statuses reported for a commit.
	GetCommitStatuses(sha string) ([]*gitlab.CommitStatus, error)

	// SetCommitStatus reports a status for a commit.
	SetCommitStatus(sha string, opts *gitlab.SetCommitStatusOptions) error

	// ListMergeRequestNotes returns the non-system notes of a merge request.
	ListMergeRequestNotes(iid int) ([]*gitlab.Note, error)

	// CreateMergeRequestNote posts a note on a merge request.
	CreateMergeRequestNote(iid int, body string) error

	// UpdateMergeRequestNote replaces the body of a note.
	UpdateMergeRequestNote(iid, noteID int, body string) error

	// DeleteMergeRequestNote deletes a note.
	DeleteMergeRequestNote(iid, noteID int) error

	// ListIssues returns issues created by the authenticated user.
	ListIssues(state string) ([]*gitlab.Issue, error)

	// CreateIssue opens a new issue.
	CreateIssue(opts *gitlab.CreateIssueOptions) (*gitlab.Issue, error)

	// UpdateIssue updates an issue.
	UpdateIssue(iid int, opts *gitlab.UpdateIssueOptions) (*gitlab.Issue, error)

	// LookupUser resolves a username to its numeric ID.
	LookupUser(username string) (int, error)
}

// Ensure Client implements the API interface at compile time.
var _ API = (*Client)(nil)
