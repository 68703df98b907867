package fixtures

import (
	"fmt"
	"time"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Test constants for GitLab fixtures.
const (
	DefaultMrIID     = 42
	DefaultProjectID = 1337
)

// GitLab fixtures for common test scenarios

// ActiveGitLabProject returns project metadata permitting merge commits,
// rebases and squashes.
func ActiveGitLabProject(pathWithNamespace string) *gitlab.Project {
	return &gitlab.Project{
		ID:                DefaultProjectID,
		Path:              "project",
		PathWithNamespace: pathWithNamespace,
		DefaultBranch:     "main",
		Archived:          false,
		MergeMethod:       gitlab.NoFastForwardMerge,
		SquashOption:      gitlab.SquashOptionDefaultOff,
		IssuesEnabled:     true,
	}
}

// FastForwardGitLabProject returns project metadata requiring a linear
// history without squashing.
func FastForwardGitLabProject(pathWithNamespace string) *gitlab.Project {
	project := ActiveGitLabProject(pathWithNamespace)
	project.MergeMethod = gitlab.FastForwardMerge
	project.SquashOption = gitlab.SquashOptionNever
	return project
}

// OpenMergeRequest returns an open merge request for an update branch.
func OpenMergeRequest(iid int, sourceBranch string) *gitlab.BasicMergeRequest {
	now := time.Now()
	return &gitlab.BasicMergeRequest{
		IID:          iid,
		Title:        "chore(deps): update dependency example to v2.0.0",
		Description:  "This MR contains the following updates.",
		State:        "opened",
		Author:       &gitlab.BasicUser{Username: "renovate-bot"},
		SourceBranch: sourceBranch,
		TargetBranch: "main",
		SHA:          DefaultHeadSHA,
		WebURL:       fmt.Sprintf("https://gitlab.com/owner/project/-/merge_requests/%d", iid),
		CreatedAt:    &now,
	}
}

// MergedMergeRequest returns a merged merge request.
func MergedMergeRequest(iid int, sourceBranch string) *gitlab.BasicMergeRequest {
	mr := OpenMergeRequest(iid, sourceBranch)
	mr.State = "merged"
	return mr
}

// DetailedMergeRequest returns the detail view of an open merge request.
func DetailedMergeRequest(iid int, sourceBranch string) *gitlab.MergeRequest {
	return &gitlab.MergeRequest{
		BasicMergeRequest: *OpenMergeRequest(iid, sourceBranch),
	}
}

// GitLabCommitStatus returns a commit status report with the given name.
func GitLabCommitStatus(name, status string) *gitlab.CommitStatus {
	return &gitlab.CommitStatus{
		Name:        name,
		Status:      status,
		Description: "Status for " + name,
		TargetURL:   "https://ci.example.com/builds/1",
	}
}

// MergeRequestNote returns a user note with the given body.
func MergeRequestNote(id int, body string) *gitlab.Note {
	return &gitlab.Note{
		ID:   id,
		Body: body,
	}
}

// GitLabIssue returns an issue in the given state ("opened" or "closed").
func GitLabIssue(iid int, title, state string) *gitlab.Issue {
	return &gitlab.Issue{
		IID:         iid,
		Title:       title,
		Description: "Issue body for " + title,
		State:       state,
	}
}
