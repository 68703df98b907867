package mocks

import (
	gerritclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gerrit"
	ghclient "github.com/Onesty-Tech-GmbH/renovate/pkg/github"
	glclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gitlab"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

// Compile-time checks that the mocks satisfy the provider interfaces.
var (
	_ ghclient.API     = (*GitHubAPI)(nil)
	_ gerritclient.API = (*GerritAPI)(nil)
	_ glclient.API     = (*GitLabAPI)(nil)
)

// Platform is a mock implementation of platform.Platform with call
// tracking, for testing code that drives the update workflow.
type Platform struct {
	callTracker

	// Configurable responses
	NameValue             string
	InitRepoResponse      *platform.RepoConfig
	InitRepoError         error
	FindPrResponse        *platform.Pr
	FindPrError           error
	GetPrResponse         *platform.Pr
	GetPrError            error
	GetPrListResponse     []*platform.Pr
	GetPrListError        error
	CreatePrResponse      *platform.Pr
	CreatePrError         error
	UpdatePrError         error
	MergePrError          error
	BranchStatusResponse  platform.BranchStatus
	BranchStatusError     error
	StatusCheckResponse   *platform.StatusCheck
	StatusCheckError      error
	SetBranchStatusError  error
	EnsureCommentError    error
	CommentRemovalError   error
	FindIssueResponse     *platform.Issue
	FindIssueError        error
	EnsureIssueError      error
	IssueClosingError     error
	GetIssueListResponse  []*platform.Issue
	GetIssueListError     error
	AddAssigneesError     error
	AddReviewersError     error
	DeleteLabelError      error
	MaxBodyLengthValue    int
}

// NewPlatform creates a new mock platform.
func NewPlatform() *Platform {
	return &Platform{
		NameValue:          "mock",
		MaxBodyLengthValue: 60000,
	}
}

// Name implements platform.Platform.
func (m *Platform) Name() string {
	return m.NameValue
}

// InitRepo implements platform.Platform.
func (m *Platform) InitRepo(repository string) (*platform.RepoConfig, error) {
	m.trackCall("InitRepo", map[string]any{"repository": repository})
	return m.InitRepoResponse, m.InitRepoError
}

// FindPr implements platform.Platform.
func (m *Platform) FindPr(cfg platform.FindPrConfig) (*platform.Pr, error) {
	m.trackCall("FindPr", map[string]any{"cfg": cfg})
	return m.FindPrResponse, m.FindPrError
}

// GetPr implements platform.Platform.
func (m *Platform) GetPr(number int) (*platform.Pr, error) {
	m.trackCall("GetPr", map[string]any{"number": number})
	return m.GetPrResponse, m.GetPrError
}

// GetBranchPr implements platform.Platform.
func (m *Platform) GetBranchPr(branchName string) (*platform.Pr, error) {
	m.trackCall("GetBranchPr", map[string]any{"branchName": branchName})
	return m.FindPrResponse, m.FindPrError
}

// GetPrList implements platform.Platform.
func (m *Platform) GetPrList() ([]*platform.Pr, error) {
	m.trackCall("GetPrList", map[string]any{})
	return m.GetPrListResponse, m.GetPrListError
}

// CreatePr implements platform.Platform.
func (m *Platform) CreatePr(cfg platform.CreatePrConfig) (*platform.Pr, error) {
	m.trackCall("CreatePr", map[string]any{"cfg": cfg})
	return m.CreatePrResponse, m.CreatePrError
}

// UpdatePr implements platform.Platform.
func (m *Platform) UpdatePr(cfg platform.UpdatePrConfig) error {
	m.trackCall("UpdatePr", map[string]any{"cfg": cfg})
	return m.UpdatePrError
}

// MergePr implements platform.Platform.
func (m *Platform) MergePr(cfg platform.MergePrConfig) error {
	m.trackCall("MergePr", map[string]any{"cfg": cfg})
	return m.MergePrError
}

// GetBranchStatus implements platform.Platform.
func (m *Platform) GetBranchStatus(branchName string) (platform.BranchStatus, error) {
	m.trackCall("GetBranchStatus", map[string]any{"branchName": branchName})
	return m.BranchStatusResponse, m.BranchStatusError
}

// GetBranchStatusCheck implements platform.Platform.
func (m *Platform) GetBranchStatusCheck(branchName, statusContext string) (*platform.StatusCheck, error) {
	m.trackCall("GetBranchStatusCheck", map[string]any{"branchName": branchName, "context": statusContext})
	return m.StatusCheckResponse, m.StatusCheckError
}

// SetBranchStatus implements platform.Platform.
func (m *Platform) SetBranchStatus(branchName string, check platform.StatusCheck) error {
	m.trackCall("SetBranchStatus", map[string]any{"branchName": branchName, "check": check})
	return m.SetBranchStatusError
}

// EnsureComment implements platform.Platform.
func (m *Platform) EnsureComment(cfg platform.EnsureCommentConfig) error {
	m.trackCall("EnsureComment", map[string]any{"cfg": cfg})
	return m.EnsureCommentError
}

// EnsureCommentRemoval implements platform.Platform.
func (m *Platform) EnsureCommentRemoval(number int, topic string) error {
	m.trackCall("EnsureCommentRemoval", map[string]any{"number": number, "topic": topic})
	return m.CommentRemovalError
}

// FindIssue implements platform.Platform.
func (m *Platform) FindIssue(title string) (*platform.Issue, error) {
	m.trackCall("FindIssue", map[string]any{"title": title})
	return m.FindIssueResponse, m.FindIssueError
}

// EnsureIssue implements platform.Platform.
func (m *Platform) EnsureIssue(cfg platform.EnsureIssueConfig) error {
	m.trackCall("EnsureIssue", map[string]any{"cfg": cfg})
	return m.EnsureIssueError
}

// EnsureIssueClosing implements platform.Platform.
func (m *Platform) EnsureIssueClosing(title string) error {
	m.trackCall("EnsureIssueClosing", map[string]any{"title": title})
	return m.IssueClosingError
}

// GetIssueList implements platform.Platform.
func (m *Platform) GetIssueList() ([]*platform.Issue, error) {
	m.trackCall("GetIssueList", map[string]any{})
	return m.GetIssueListResponse, m.GetIssueListError
}

// AddAssignees implements platform.Platform.
func (m *Platform) AddAssignees(number int, assignees []string) error {
	m.trackCall("AddAssignees", map[string]any{"number": number, "assignees": assignees})
	return m.AddAssigneesError
}

// AddReviewers implements platform.Platform.
func (m *Platform) AddReviewers(number int, reviewers []string) error {
	m.trackCall("AddReviewers", map[string]any{"number": number, "reviewers": reviewers})
	return m.AddReviewersError
}

// DeleteLabel implements platform.Platform.
func (m *Platform) DeleteLabel(number int, label string) error {
	m.trackCall("DeleteLabel", map[string]any{"number": number, "label": label})
	return m.DeleteLabelError
}

// MassageMarkdown implements platform.Platform.
func (m *Platform) MassageMarkdown(body string) string {
	return body
}

// MaxBodyLength implements platform.Platform.
func (m *Platform) MaxBodyLength() int {
	return m.MaxBodyLengthValue
}

// Compile-time check that the mock satisfies the interface.
var _ platform.Platform = (*Platform)(nil)
