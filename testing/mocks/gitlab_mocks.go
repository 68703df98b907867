package mocks

import (
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// GitLabAPI is a mock implementation of the GitLab API interface with call
// tracking.
type GitLabAPI struct {
	callTracker

	// Configurable responses
	GetProjectResponse         *gitlab.Project
	GetProjectError            error
	SelfUsername               string
	SelfError                  error
	ListMergeRequestsResponse  []*gitlab.BasicMergeRequest
	ListMergeRequestsError     error
	GetMergeRequestResponse    *gitlab.MergeRequest
	GetMergeRequestError       error
	CreateMergeRequestResponse *gitlab.MergeRequest
	CreateMergeRequestError    error
	UpdateMergeRequestResponse *gitlab.MergeRequest
	UpdateMergeRequestError    error
	AcceptMergeRequestErrors   []error
	GetCommitStatusesResponse  []*gitlab.CommitStatus
	GetCommitStatusesError     error
	SetCommitStatusError       error
	ListNotesResponse          []*gitlab.Note
	ListNotesError             error
	CreateNoteError            error
	UpdateNoteError            error
	DeleteNoteError            error
	ListIssuesResponse         []*gitlab.Issue
	ListIssuesError            error
	CreateIssueResponse        *gitlab.Issue
	CreateIssueError           error
	UpdateIssueResponse        *gitlab.Issue
	UpdateIssueError           error
	LookupUserIDs              map[string]int
	LookupUserError            error
}

// NewGitLabAPI creates a new mock GitLab API client.
func NewGitLabAPI() *GitLabAPI {
	return &GitLabAPI{SelfUsername: "renovate-bot"}
}

// SetProject implements the API interface.
func (m *GitLabAPI) SetProject(project string) {
	m.trackCall("SetProject", map[string]any{"project": project})
}

// GetProject implements the API interface.
func (m *GitLabAPI) GetProject() (*gitlab.Project, error) {
	m.trackCall("GetProject", map[string]any{})
	return m.GetProjectResponse, m.GetProjectError
}

// Self implements the API interface.
func (m *GitLabAPI) Self() (string, error) {
	m.trackCall("Self", map[string]any{})
	return m.SelfUsername, m.SelfError
}

// ListMergeRequests implements the API interface.
func (m *GitLabAPI) ListMergeRequests(state string) ([]*gitlab.BasicMergeRequest, error) {
	m.trackCall("ListMergeRequests", map[string]any{"state": state})
	return m.ListMergeRequestsResponse, m.ListMergeRequestsError
}

// GetMergeRequest implements the API interface.
func (m *GitLabAPI) GetMergeRequest(iid int) (*gitlab.MergeRequest, error) {
	m.trackCall("GetMergeRequest", map[string]any{"iid": iid})
	return m.GetMergeRequestResponse, m.GetMergeRequestError
}

// CreateMergeRequest implements the API interface.
func (m *GitLabAPI) CreateMergeRequest(opts *gitlab.CreateMergeRequestOptions) (*gitlab.MergeRequest, error) {
	m.trackCall("CreateMergeRequest", map[string]any{"opts": opts})
	return m.CreateMergeRequestResponse, m.CreateMergeRequestError
}

// UpdateMergeRequest implements the API interface.
func (m *GitLabAPI) UpdateMergeRequest(iid int, opts *gitlab.UpdateMergeRequestOptions) (*gitlab.MergeRequest, error) {
	m.trackCall("UpdateMergeRequest", map[string]any{"iid": iid, "opts": opts})
	return m.UpdateMergeRequestResponse, m.UpdateMergeRequestError
}

// AcceptMergeRequest implements the API interface. Each call consumes the
// next entry of AcceptMergeRequestErrors, so tests can simulate strategy
// fallbacks.
func (m *GitLabAPI) AcceptMergeRequest(iid int, opts *gitlab.AcceptMergeRequestOptions) error {
	m.trackCall("AcceptMergeRequest", map[string]any{"iid": iid, "opts": opts})
	if len(m.AcceptMergeRequestErrors) == 0 {
		return nil
	}
	err := m.AcceptMergeRequestErrors[0]
	m.AcceptMergeRequestErrors = m.AcceptMergeRequestErrors[1:]
	return err
}

// GetCommitStatuses implements the API interface.
func (m *GitLabAPI) GetCommitStatuses(sha string) ([]*gitlab.CommitStatus, error) {
	m.trackCall("GetCommitStatuses", map[string]any{"sha": sha})
	return m.GetCommitStatusesResponse, m.GetCommitStatusesError
}

// SetCommitStatus implements the API interface.
func (m *GitLabAPI) SetCommitStatus(sha string, opts *gitlab.SetCommitStatusOptions) error {
	m.trackCall("SetCommitStatus", map[string]any{"sha": sha, "opts": opts})
	return m.SetCommitStatusError
}

// ListMergeRequestNotes implements the API interface.
func (m *GitLabAPI) ListMergeRequestNotes(iid int) ([]*gitlab.Note, error) {
	m.trackCall("ListMergeRequestNotes", map[string]any{"iid": iid})
	return m.ListNotesResponse, m.ListNotesError
}

// CreateMergeRequestNote implements the API interface.
func (m *GitLabAPI) CreateMergeRequestNote(iid int, body string) error {
	m.trackCall("CreateMergeRequestNote", map[string]any{"iid": iid, "body": body})
	return m.CreateNoteError
}

// UpdateMergeRequestNote implements the API interface.
func (m *GitLabAPI) UpdateMergeRequestNote(iid, noteID int, body string) error {
	m.trackCall("UpdateMergeRequestNote", map[string]any{"iid": iid, "noteID": noteID, "body": body})
	return m.UpdateNoteError
}

// DeleteMergeRequestNote implements the API interface.
func (m *GitLabAPI) DeleteMergeRequestNote(iid, noteID int) error {
	m.trackCall("DeleteMergeRequestNote", map[string]any{"iid": iid, "noteID": noteID})
	return m.DeleteNoteError
}

// ListIssues implements the API interface.
func (m *GitLabAPI) ListIssues(state string) ([]*gitlab.Issue, error) {
	m.trackCall("ListIssues", map[string]any{"state": state})
	return m.ListIssuesResponse, m.ListIssuesError
}

// CreateIssue implements the API interface.
func (m *GitLabAPI) CreateIssue(opts *gitlab.CreateIssueOptions) (*gitlab.Issue, error) {
	m.trackCall("CreateIssue", map[string]any{"opts": opts})
	return m.CreateIssueResponse, m.CreateIssueError
}

// UpdateIssue implements the API interface.
func (m *GitLabAPI) UpdateIssue(iid int, opts *gitlab.UpdateIssueOptions) (*gitlab.Issue, error) {
	m.trackCall("UpdateIssue", map[string]any{"iid": iid, "opts": opts})
	return m.UpdateIssueResponse, m.UpdateIssueError
}

// LookupUser implements the API interface.
func (m *GitLabAPI) LookupUser(username string) (int, error) {
	m.trackCall("LookupUser", map[string]any{"username": username})
	if m.LookupUserError != nil {
		return 0, m.LookupUserError
	}
	if id, ok := m.LookupUserIDs[username]; ok {
		return id, nil
	}
	return 1, nil
}
