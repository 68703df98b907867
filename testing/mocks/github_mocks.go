// Package mocks provides call-tracking mock implementations of the provider
// API interfaces for testing.
package mocks

import (
	"sync"

	"github.com/google/go-github/v69/github"
)

// MethodCall represents a tracked method call with its parameters.
type MethodCall struct {
	Method string
	Args   map[string]any
}

// callTracker records method calls for assertions. Safe for concurrent use.
type callTracker struct {
	mu    sync.Mutex
	calls []MethodCall
}

func (t *callTracker) trackCall(method string, args map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, MethodCall{Method: method, Args: args})
}

// GetCalls returns all tracked method calls.
func (t *callTracker) GetCalls() []MethodCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]MethodCall{}, t.calls...)
}

// GetCallCount returns the number of times a method was called.
func (t *callTracker) GetCallCount(method string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	count := 0
	for _, call := range t.calls {
		if call.Method == method {
			count++
		}
	}
	return count
}

// GetLastCall returns the last call to the specified method, or nil if not
// called.
func (t *callTracker) GetLastCall(method string) *MethodCall {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := len(t.calls) - 1; i >= 0; i-- {
		if t.calls[i].Method == method {
			return &t.calls[i]
		}
	}
	return nil
}

// Reset clears all tracked calls.
func (t *callTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}

// GitHubAPI is a mock implementation of the GitHub API interface with call
// tracking.
type GitHubAPI struct {
	callTracker

	// Configurable responses
	SelfLogin              string
	SelfError              error
	GetRepoResponse        *github.Repository
	GetRepoError           error
	ListPrsResponse        []*github.PullRequest
	ListPrsError           error
	GetPrResponse          *github.PullRequest
	GetPrError             error
	CreatePrResponse       *github.PullRequest
	CreatePrError          error
	EditPrError            error
	MergePrErrors          []error
	ListStatusesResponse   []*github.RepoStatus
	ListStatusesError      error
	ListCheckRunsResponse  []*github.CheckRun
	ListCheckRunsError     error
	CreateStatusError      error
	ListCommentsResponse   []*github.IssueComment
	ListCommentsError      error
	CreateCommentError     error
	EditCommentError       error
	DeleteCommentError     error
	ListIssuesResponse     []*github.Issue
	ListIssuesError        error
	CreateIssueResponse    *github.Issue
	CreateIssueError       error
	EditIssueError         error
	AddLabelsError         error
	RemoveLabelError       error
	AddAssigneesError      error
	RequestReviewersError  error
}

// NewGitHubAPI creates a new mock GitHub API client.
func NewGitHubAPI() *GitHubAPI {
	return &GitHubAPI{SelfLogin: "renovate-bot"}
}

// SetRepository implements the API interface.
func (m *GitHubAPI) SetRepository(owner, repo string) {
	m.trackCall("SetRepository", map[string]any{"owner": owner, "repo": repo})
}

// Self implements the API interface.
func (m *GitHubAPI) Self() (string, error) {
	m.trackCall("Self", map[string]any{})
	return m.SelfLogin, m.SelfError
}

// GetRepo implements the API interface.
func (m *GitHubAPI) GetRepo() (*github.Repository, error) {
	m.trackCall("GetRepo", map[string]any{})
	return m.GetRepoResponse, m.GetRepoError
}

// ListPrs implements the API interface.
func (m *GitHubAPI) ListPrs() ([]*github.PullRequest, error) {
	m.trackCall("ListPrs", map[string]any{})
	return m.ListPrsResponse, m.ListPrsError
}

// GetPr implements the API interface.
func (m *GitHubAPI) GetPr(number int) (*github.PullRequest, error) {
	m.trackCall("GetPr", map[string]any{"number": number})
	return m.GetPrResponse, m.GetPrError
}

// CreatePr implements the API interface.
func (m *GitHubAPI) CreatePr(newPr *github.NewPullRequest) (*github.PullRequest, error) {
	m.trackCall("CreatePr", map[string]any{"newPr": newPr})
	return m.CreatePrResponse, m.CreatePrError
}

// EditPr implements the API interface.
func (m *GitHubAPI) EditPr(number int, pr *github.PullRequest) error {
	m.trackCall("EditPr", map[string]any{"number": number, "pr": pr})
	return m.EditPrError
}

// MergePr implements the API interface. Each call consumes the next entry
// of MergePrErrors, so tests can simulate strategy fallbacks.
func (m *GitHubAPI) MergePr(number int, method string) error {
	m.trackCall("MergePr", map[string]any{"number": number, "method": method})
	if len(m.MergePrErrors) == 0 {
		return nil
	}
	err := m.MergePrErrors[0]
	m.MergePrErrors = m.MergePrErrors[1:]
	return err
}

// ListStatuses implements the API interface.
func (m *GitHubAPI) ListStatuses(ref string) ([]*github.RepoStatus, error) {
	m.trackCall("ListStatuses", map[string]any{"ref": ref})
	return m.ListStatusesResponse, m.ListStatusesError
}

// ListCheckRuns implements the API interface.
func (m *GitHubAPI) ListCheckRuns(ref string) ([]*github.CheckRun, error) {
	m.trackCall("ListCheckRuns", map[string]any{"ref": ref})
	return m.ListCheckRunsResponse, m.ListCheckRunsError
}

// CreateStatus implements the API interface.
func (m *GitHubAPI) CreateStatus(ref string, status *github.RepoStatus) error {
	m.trackCall("CreateStatus", map[string]any{"ref": ref, "status": status})
	return m.CreateStatusError
}

// ListComments implements the API interface.
func (m *GitHubAPI) ListComments(number int) ([]*github.IssueComment, error) {
	m.trackCall("ListComments", map[string]any{"number": number})
	return m.ListCommentsResponse, m.ListCommentsError
}

// CreateComment implements the API interface.
func (m *GitHubAPI) CreateComment(number int, body string) error {
	m.trackCall("CreateComment", map[string]any{"number": number, "body": body})
	return m.CreateCommentError
}

// EditComment implements the API interface.
func (m *GitHubAPI) EditComment(commentID int64, body string) error {
	m.trackCall("EditComment", map[string]any{"commentID": commentID, "body": body})
	return m.EditCommentError
}

// DeleteComment implements the API interface.
func (m *GitHubAPI) DeleteComment(commentID int64) error {
	m.trackCall("DeleteComment", map[string]any{"commentID": commentID})
	return m.DeleteCommentError
}

// ListIssues implements the API interface.
func (m *GitHubAPI) ListIssues(state string) ([]*github.Issue, error) {
	m.trackCall("ListIssues", map[string]any{"state": state})
	return m.ListIssuesResponse, m.ListIssuesError
}

// CreateIssue implements the API interface.
func (m *GitHubAPI) CreateIssue(req *github.IssueRequest) (*github.Issue, error) {
	m.trackCall("CreateIssue", map[string]any{"req": req})
	return m.CreateIssueResponse, m.CreateIssueError
}

// EditIssue implements the API interface.
func (m *GitHubAPI) EditIssue(number int, req *github.IssueRequest) error {
	m.trackCall("EditIssue", map[string]any{"number": number, "req": req})
	return m.EditIssueError
}

// AddLabels implements the API interface.
func (m *GitHubAPI) AddLabels(number int, labels []string) error {
	m.trackCall("AddLabels", map[string]any{"number": number, "labels": labels})
	return m.AddLabelsError
}

// RemoveLabel implements the API interface.
func (m *GitHubAPI) RemoveLabel(number int, label string) error {
	m.trackCall("RemoveLabel", map[string]any{"number": number, "label": label})
	return m.RemoveLabelError
}

// AddAssignees implements the API interface.
func (m *GitHubAPI) AddAssignees(number int, assignees []string) error {
	m.trackCall("AddAssignees", map[string]any{"number": number, "assignees": assignees})
	return m.AddAssigneesError
}

// RequestReviewers implements the API interface.
func (m *GitHubAPI) RequestReviewers(number int, reviewers []string) error {
	m.trackCall("RequestReviewers", map[string]any{"number": number, "reviewers": reviewers})
	return m.RequestReviewersError
}
