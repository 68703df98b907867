package github

import "github.com/google/go-github/v69/github"

// API defines the GitHub operations the platform adapter depends on.
// The interface enables dependency injection so the adapter's mapping logic
// can be exercised against mock implementations without real API calls.
type API interface {
	// SetRepository pins the client to a repository.
	SetRepository(owner, repo string)

	// Self returns the login of the authenticated user.
	Self() (string, error)

	// GetRepo fetches repository metadata.
	GetRepo() (*github.Repository, error)

	// ListPrs returns the repository's pull requests in every state
	// (GraphQL, paginated).
	ListPrs() ([]*github.PullRequest, error)

	// GetPr fetches a pull request by number.
	GetPr(number int) (*github.PullRequest, error)

	// CreatePr creates a pull request.
	CreatePr(newPr *github.NewPullRequest) (*github.PullRequest, error)

	// EditPr updates mutable pull-request fields (title, body, state, base).
	EditPr(number int, pr *github.PullRequest) error

	// MergePr merges a pull request with "rebase", "squash" or "merge".
	MergePr(number int, method string) error

	// ListStatuses returns the commit statuses for a ref.
	ListStatuses(ref string) ([]*github.RepoStatus, error)

	// ListCheckRuns returns the check runs for a ref.
	ListCheckRuns(ref string) ([]*github.CheckRun, error)

	// CreateStatus attaches a commit status to a ref.
	CreateStatus(ref string, status *github.RepoStatus) error

	// ListComments returns the comments of a pull request or issue.
	ListComments(number int) ([]*github.IssueComment, error)

	// CreateComment posts a comment.
	CreateComment(number int, body string) error

	// EditComment replaces a comment body.
	EditComment(commentID int64, body string) error

	// DeleteComment removes a comment.
	DeleteComment(commentID int64) error

	// ListIssues returns issues created by the authenticated user.
	ListIssues(state string) ([]*github.Issue, error)

	// CreateIssue opens a new issue.
	CreateIssue(req *github.IssueRequest) (*github.Issue, error)

	// EditIssue updates an issue (body, state).
	EditIssue(number int, req *github.IssueRequest) error

	// AddLabels adds labels to a pull request or issue.
	AddLabels(number int, labels []string) error

	// RemoveLabel removes a single label.
	RemoveLabel(number int, label string) error

	// AddAssignees assigns users.
	AddAssignees(number int, assignees []string) error

	// RequestReviewers requests reviews from users.
	RequestReviewers(number int, reviewers []string) error
}

// Ensure Client implements the API interface at compile time.
var _ API = (*Client)(nil)
