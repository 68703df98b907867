// Package fixtures provides common test data structures for testing.
package fixtures

import (
	"fmt"
	"time"

	"github.com/google/go-github/v69/github"
)

// Test constants for GitHub fixtures.
const (
	DefaultPrNumber = 123
	DefaultHeadSHA  = "abc123def456"
)

// GitHub fixtures for common test scenarios

// ActiveRepository returns repository metadata with every merge strategy
// enabled.
func ActiveRepository(fullName string) *github.Repository {
	return &github.Repository{
		FullName:         github.Ptr(fullName),
		DefaultBranch:    github.Ptr("main"),
		Archived:         github.Ptr(false),
		Fork:             github.Ptr(false),
		AllowRebaseMerge: github.Ptr(true),
		AllowSquashMerge: github.Ptr(true),
		AllowMergeCommit: github.Ptr(true),
		HasIssues:        github.Ptr(true),
	}
}

// ArchivedRepository returns repository metadata for an archived repository.
func ArchivedRepository(fullName string) *github.Repository {
	repo := ActiveRepository(fullName)
	repo.Archived = github.Ptr(true)
	return repo
}

// OpenPullRequest returns an open pull request for an update branch.
func OpenPullRequest(number int, sourceBranch string) *github.PullRequest {
	return &github.PullRequest{
		Number:    github.Ptr(number),
		Title:     github.Ptr("chore(deps): update dependency example to v2.0.0"),
		Body:      github.Ptr("This PR contains the following updates."),
		State:     github.Ptr("open"),
		Merged:    github.Ptr(false),
		Draft:     github.Ptr(false),
		User:      &github.User{Login: github.Ptr("renovate-bot")},
		Head:      &github.PullRequestBranch{Ref: github.Ptr(sourceBranch), SHA: github.Ptr(DefaultHeadSHA)},
		Base:      &github.PullRequestBranch{Ref: github.Ptr("main")},
		HTMLURL:   github.Ptr(fmt.Sprintf("https://github.com/owner/repo/pull/%d", number)),
		CreatedAt: &github.Timestamp{Time: time.Now()},
	}
}

// MergedPullRequest returns a merged pull request for an update branch.
func MergedPullRequest(number int, sourceBranch string) *github.PullRequest {
	pr := OpenPullRequest(number, sourceBranch)
	pr.State = github.Ptr("closed")
	pr.Merged = github.Ptr(true)
	return pr
}

// ClosedPullRequest returns a closed, unmerged pull request.
func ClosedPullRequest(number int, sourceBranch string) *github.PullRequest {
	pr := OpenPullRequest(number, sourceBranch)
	pr.State = github.Ptr("closed")
	return pr
}

// CommitStatus returns a commit status report for the given context.
func CommitStatus(statusContext, state string) *github.RepoStatus {
	return &github.RepoStatus{
		Context:     github.Ptr(statusContext),
		State:       github.Ptr(state),
		Description: github.Ptr("Status for " + statusContext),
		TargetURL:   github.Ptr("https://ci.example.com/builds/1"),
		CreatedAt:   &github.Timestamp{Time: time.Now()},
	}
}

// SuccessfulCheckRun returns a successful GitHub check run.
func SuccessfulCheckRun(id int64, name string) *github.CheckRun {
	return &github.CheckRun{
		ID:         github.Ptr(id),
		Name:       github.Ptr(name),
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr("success"),
		HTMLURL:    github.Ptr("https://github.com/owner/repo/runs/123"),
	}
}

// FailedCheckRun returns a failed GitHub check run.
func FailedCheckRun(id int64, name string) *github.CheckRun {
	return &github.CheckRun{
		ID:         github.Ptr(id),
		Name:       github.Ptr(name),
		Status:     github.Ptr("completed"),
		Conclusion: github.Ptr("failure"),
		HTMLURL:    github.Ptr("https://github.com/owner/repo/runs/456"),
	}
}

// RunningCheckRun returns a check run that is still in progress.
func RunningCheckRun(id int64, name string) *github.CheckRun {
	return &github.CheckRun{
		ID:      github.Ptr(id),
		Name:    github.Ptr(name),
		Status:  github.Ptr("in_progress"),
		HTMLURL: github.Ptr("https://github.com/owner/repo/runs/789"),
	}
}

// IssueComment returns a pull request comment with the given body.
func IssueComment(id int64, body string) *github.IssueComment {
	return &github.IssueComment{
		ID:   github.Ptr(id),
		Body: github.Ptr(body),
	}
}

// OpenIssue returns an open GitHub issue.
func OpenIssue(number int, title, body string) *github.Issue {
	return &github.Issue{
		Number: github.Ptr(number),
		Title:  github.Ptr(title),
		Body:   github.Ptr(body),
		State:  github.Ptr("open"),
	}
}

// ClosedIssue returns a closed GitHub issue.
func ClosedIssue(number int, title, body string) *github.Issue {
	issue := OpenIssue(number, title, body)
	issue.State = github.Ptr("closed")
	return issue
}
