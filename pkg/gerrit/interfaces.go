package gerrit

import "github.com/andygrunwald/go-gerrit"

// API defines the Gerrit operations the platform adapter depends on.
// The interface enables dependency injection so the adapter's mapping logic
// can be exercised against mock implementations without real API calls.
type API interface {
	// SetProject pins the client to a project.
	SetProject(project string)

	// GetProject fetches project metadata.
	GetProject() (*gerrit.ProjectInfo, error)

	// GetBranch fetches a branch; "HEAD" resolves the default branch.
	GetBranch(branch string) (*gerrit.BranchInfo, error)

	// QueryChanges runs a change query scoped to the project.
	QueryChanges(terms []string) ([]gerrit.ChangeInfo, error)

	// GetChange fetches a single change.
	GetChange(changeID string) (*gerrit.ChangeInfo, error)

	// AbandonChange abandons a change.
	AbandonChange(changeID string) error

	// SubmitChange submits (merges) a change.
	SubmitChange(changeID string) error

	// SetReview posts a review message and/or label votes.
	SetReview(changeID string, input *gerrit.ReviewInput) error

	// SetCommitMessage replaces the commit message of the current revision.
	SetCommitMessage(changeID, message string) error

	// AddReviewer adds a reviewer to a change.
	AddReviewer(changeID, reviewer string) error

	// SetHashtags adds and removes hashtags on a change.
	SetHashtags(changeID string, add, remove []string) ([]string, error)
}

// Ensure Client implements the API interface at compile time.
var _ API = (*Client)(nil)
