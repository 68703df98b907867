package mocks

import (
	"github.com/andygrunwald/go-gerrit"
)

// GerritAPI is a mock implementation of the Gerrit API interface with call
// tracking.
type GerritAPI struct {
	callTracker

	// Configurable responses
	GetProjectResponse    *gerrit.ProjectInfo
	GetProjectError       error
	GetBranchResponse     *gerrit.BranchInfo
	GetBranchError        error
	QueryChangesResponse  []gerrit.ChangeInfo
	QueryChangesError     error
	GetChangeResponse     *gerrit.ChangeInfo
	GetChangeError        error
	AbandonChangeError    error
	SubmitChangeError     error
	SetReviewError        error
	SetCommitMessageError error
	AddReviewerError      error
	SetHashtagsResponse   []string
	SetHashtagsError      error
}

// NewGerritAPI creates a new mock Gerrit API client.
func NewGerritAPI() *GerritAPI {
	return &GerritAPI{}
}

// SetProject implements the API interface.
func (m *GerritAPI) SetProject(project string) {
	m.trackCall("SetProject", map[string]any{"project": project})
}

// GetProject implements the API interface.
func (m *GerritAPI) GetProject() (*gerrit.ProjectInfo, error) {
	m.trackCall("GetProject", map[string]any{})
	return m.GetProjectResponse, m.GetProjectError
}

// GetBranch implements the API interface.
func (m *GerritAPI) GetBranch(branch string) (*gerrit.BranchInfo, error) {
	m.trackCall("GetBranch", map[string]any{"branch": branch})
	return m.GetBranchResponse, m.GetBranchError
}

// QueryChanges implements the API interface.
func (m *GerritAPI) QueryChanges(terms []string) ([]gerrit.ChangeInfo, error) {
	m.trackCall("QueryChanges", map[string]any{"terms": terms})
	return m.QueryChangesResponse, m.QueryChangesError
}

// GetChange implements the API interface.
func (m *GerritAPI) GetChange(changeID string) (*gerrit.ChangeInfo, error) {
	m.trackCall("GetChange", map[string]any{"changeID": changeID})
	return m.GetChangeResponse, m.GetChangeError
}

// AbandonChange implements the API interface.
func (m *GerritAPI) AbandonChange(changeID string) error {
	m.trackCall("AbandonChange", map[string]any{"changeID": changeID})
	return m.AbandonChangeError
}

// SubmitChange implements the API interface.
func (m *GerritAPI) SubmitChange(changeID string) error {
	m.trackCall("SubmitChange", map[string]any{"changeID": changeID})
	return m.SubmitChangeError
}

// SetReview implements the API interface.
func (m *GerritAPI) SetReview(changeID string, input *gerrit.ReviewInput) error {
	m.trackCall("SetReview", map[string]any{"changeID": changeID, "input": input})
	return m.SetReviewError
}

// SetCommitMessage implements the API interface.
func (m *GerritAPI) SetCommitMessage(changeID, message string) error {
	m.trackCall("SetCommitMessage", map[string]any{"changeID": changeID, "message": message})
	return m.SetCommitMessageError
}

// AddReviewer implements the API interface.
func (m *GerritAPI) AddReviewer(changeID, reviewer string) error {
	m.trackCall("AddReviewer", map[string]any{"changeID": changeID, "reviewer": reviewer})
	return m.AddReviewerError
}

// SetHashtags implements the API interface.
func (m *GerritAPI) SetHashtags(changeID string, add, remove []string) ([]string, error) {
	m.trackCall("SetHashtags", map[string]any{"changeID": changeID, "add": add, "remove": remove})
	return m.SetHashtagsResponse, m.SetHashtagsError
}
