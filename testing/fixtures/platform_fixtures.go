package fixtures

import (
	"time"

	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

// Platform fixtures for common test scenarios

// FullRepoConfig returns a repository configuration permitting every merge
// strategy.
func FullRepoConfig(repository string) *platform.RepoConfig {
	return &platform.RepoConfig{
		Repository:       repository,
		Owner:            "owner",
		Name:             "repo",
		DefaultBranch:    "main",
		AllowRebase:      true,
		AllowSquash:      true,
		AllowMergeCommit: true,
		HasIssues:        true,
	}
}

// UpdatePr returns an open pull request on an update branch.
func UpdatePr(number int, sourceBranch string) *platform.Pr {
	return &platform.Pr{
		Number:       number,
		Title:        "chore(deps): update dependency example to v2.0.0",
		Body:         "This PR contains the following updates.",
		SourceBranch: sourceBranch,
		TargetBranch: "main",
		State:        platform.StateOpen,
		SHA:          DefaultHeadSHA,
		URL:          "https://example.com/pr/1",
		CreatedAt:    time.Now(),
	}
}
