package platform

// Platform defines the unified interface for code-hosting provider
// operations. Adapters hold no durable state of their own beyond the
// per-repository configuration cache established by InitRepo.
type Platform interface {
	// Name returns the provider kind ("github", "gitlab" or "gerrit").
	Name() string

	// InitRepo establishes the per-repository configuration cache.
	// It fails with ErrRepoNotFound, ErrRepoArchived or ErrRepoRenamed
	// when the repository is unusable.
	InitRepo(repository string) (*RepoConfig, error)

	// FindPr searches the open pull requests for one matching the config.
	// Returns (nil, nil) when no pull request matches.
	FindPr(cfg FindPrConfig) (*Pr, error)

	// GetPr fetches a pull request by number.
	// Returns (nil, nil) when the number does not exist.
	GetPr(number int) (*Pr, error)

	// GetBranchPr returns the single open pull request for a source
	// branch, or (nil, nil) when the branch has none.
	GetBranchPr(branchName string) (*Pr, error)

	// GetPrList returns the open pull requests, served from the
	// per-repository cache when warm.
	GetPrList() ([]*Pr, error)

	// CreatePr creates a new pull request. Fails with ErrPrAlreadyExists
	// when the source branch already has one.
	CreatePr(cfg CreatePrConfig) (*Pr, error)

	// UpdatePr updates title, body, state or target branch.
	UpdatePr(cfg UpdatePrConfig) error

	// MergePr merges a pull request, applying the strategy fallback
	// order for StrategyAuto. Fails with ErrNotMergeable when every
	// strategy is rejected.
	MergePr(cfg MergePrConfig) error

	// GetBranchStatus returns the aggregate CI signal for a branch head.
	GetBranchStatus(branchName string) (BranchStatus, error)

	// GetBranchStatusCheck returns a single named status for a branch
	// head, or (nil, nil) when no status with that context exists.
	GetBranchStatusCheck(branchName, statusContext string) (*StatusCheck, error)

	// SetBranchStatus attaches a named status to the branch head.
	SetBranchStatus(branchName string, check StatusCheck) error

	// EnsureComment idempotently creates or updates a comment identified
	// by its topic marker.
	EnsureComment(cfg EnsureCommentConfig) error

	// EnsureCommentRemoval removes the comment matching the topic, when
	// the provider supports deletion. Absent comments are a no-op.
	EnsureCommentRemoval(number int, topic string) error

	// FindIssue returns the open issue with the given title, or
	// (nil, nil) when none exists or the provider has no issues.
	FindIssue(title string) (*Issue, error)

	// EnsureIssue idempotently creates or updates an issue identified by
	// title, closing duplicates. A no-op when issues are disabled.
	EnsureIssue(cfg EnsureIssueConfig) error

	// EnsureIssueClosing closes every open issue with the given title.
	EnsureIssueClosing(title string) error

	// GetIssueList returns the open issues created by this tool.
	GetIssueList() ([]*Issue, error)

	// AddAssignees assigns users to a pull request.
	AddAssignees(number int, assignees []string) error

	// AddReviewers requests reviews on a pull request.
	AddReviewers(number int, reviewers []string) error

	// DeleteLabel removes a label from a pull request.
	DeleteLabel(number int, label string) error

	// MassageMarkdown rewrites markdown into the provider's dialect and
	// truncates it to MaxBodyLength.
	MassageMarkdown(body string) string

	// MaxBodyLength returns the provider's body size limit.
	MaxBodyLength() int
}
