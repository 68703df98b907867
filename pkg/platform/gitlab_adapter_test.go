package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/Onesty-Tech-GmbH/renovate/internal/logger"
	glclient "github.com/Onesty-Tech-GmbH/renovate/pkg/gitlab"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
	"github.com/Onesty-Tech-GmbH/renovate/testing/fixtures"
	"github.com/Onesty-Tech-GmbH/renovate/testing/mocks"
)

// newGitLabAdapter returns an initialized adapter with a fresh mock client.
func newGitLabAdapter(t *testing.T) (*platform.GitLabAdapter, *mocks.GitLabAPI) {
	t.Helper()
	mock := mocks.NewGitLabAPI()
	mock.GetProjectResponse = fixtures.ActiveGitLabProject("owner/project")
	adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())
	_, err := adapter.InitRepo("owner/project")
	require.NoError(t, err)
	mock.Reset()
	return adapter, mock
}

func TestGitLabAdapterInitRepo(t *testing.T) {
	t.Run("merge-commit project", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		mock.GetProjectResponse = fixtures.ActiveGitLabProject("owner/project")
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())

		repo, err := adapter.InitRepo("owner/project")
		require.NoError(t, err)
		assert.Equal(t, "main", repo.DefaultBranch)
		assert.True(t, repo.AllowMergeCommit)
		assert.False(t, repo.AllowRebase)
		assert.True(t, repo.AllowSquash)
		assert.True(t, repo.HasIssues)
	})

	t.Run("fast-forward project forbids merge commits and squashes", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		mock.GetProjectResponse = fixtures.FastForwardGitLabProject("owner/project")
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())

		repo, err := adapter.InitRepo("owner/project")
		require.NoError(t, err)
		assert.False(t, repo.AllowMergeCommit)
		assert.True(t, repo.AllowRebase)
		assert.False(t, repo.AllowSquash)
	})

	t.Run("archived project", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		project := fixtures.ActiveGitLabProject("owner/project")
		project.Archived = true
		mock.GetProjectResponse = project
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())

		_, err := adapter.InitRepo("owner/project")
		assert.ErrorIs(t, err, platform.ErrRepoArchived)
	})

	t.Run("renamed project", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		mock.GetProjectResponse = fixtures.ActiveGitLabProject("owner/renamed")
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())

		_, err := adapter.InitRepo("owner/project")
		assert.ErrorIs(t, err, platform.ErrRepoRenamed)
	})

	t.Run("missing project", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		mock.GetProjectError = glclient.ErrNotFound
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())

		_, err := adapter.InitRepo("owner/project")
		assert.ErrorIs(t, err, platform.ErrRepoNotFound)
	})
}

func TestGitLabAdapterFindPr(t *testing.T) {
	adapter, mock := newGitLabAdapter(t)
	draft := fixtures.OpenMergeRequest(2, "renovate/bar-1.x")
	draft.Title = "Draft: chore(deps): update dependency bar to v1"
	draft.Draft = true
	mock.ListMergeRequestsResponse = []*gitlab.BasicMergeRequest{
		fixtures.OpenMergeRequest(1, "renovate/foo-2.x"),
		draft,
		fixtures.MergedMergeRequest(3, "renovate/baz-3.x"),
	}

	t.Run("open merge request by branch", func(t *testing.T) {
		pr, err := adapter.FindPr(platform.FindPrConfig{BranchName: "renovate/foo-2.x"})
		require.NoError(t, err)
		require.NotNil(t, pr)
		assert.Equal(t, 1, pr.Number)
		assert.Equal(t, fixtures.DefaultHeadSHA, pr.SHA)
		assert.Equal(t, "renovate-bot", pr.Author)
	})

	t.Run("draft prefix is stripped from the title", func(t *testing.T) {
		pr, err := adapter.FindPr(platform.FindPrConfig{BranchName: "renovate/bar-1.x"})
		require.NoError(t, err)
		require.NotNil(t, pr)
		assert.Equal(t, "chore(deps): update dependency bar to v1", pr.Title)
		assert.True(t, pr.IsDraft)
	})

	t.Run("merged state filter", func(t *testing.T) {
		pr, err := adapter.FindPr(platform.FindPrConfig{
			BranchName: "renovate/baz-3.x",
			State:      platform.StateMerged,
		})
		require.NoError(t, err)
		require.NotNil(t, pr)
		assert.Equal(t, platform.StateMerged, pr.State)
	})

	t.Run("list is fetched once", func(t *testing.T) {
		assert.Equal(t, 1, mock.GetCallCount("ListMergeRequests"))
		assert.Equal(t, "all", mock.GetLastCall("ListMergeRequests").Args["state"])
	})
}

func TestGitLabAdapterGetPr(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.GetMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")

		pr, err := adapter.GetPr(42)
		require.NoError(t, err)
		require.NotNil(t, pr)
		assert.Equal(t, 42, pr.Number)
		assert.Equal(t, 42, mock.GetLastCall("GetMergeRequest").Args["iid"])
	})

	t.Run("missing maps 404 to absent", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.GetMergeRequestError = glclient.ErrNotFound

		pr, err := adapter.GetPr(42)
		require.NoError(t, err)
		assert.Nil(t, pr)
	})
}

func TestGitLabAdapterCreatePr(t *testing.T) {
	t.Run("creates a merge request", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.CreateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")

		pr, err := adapter.CreatePr(platform.CreatePrConfig{
			SourceBranch: "renovate/foo-2.x",
			TargetBranch: "main",
			Title:        "chore(deps): update dependency foo to v2",
			Body:         "update body",
			Labels:       []string{"dependencies"},
		})
		require.NoError(t, err)
		assert.Equal(t, 42, pr.Number)

		call := mock.GetLastCall("CreateMergeRequest")
		require.NotNil(t, call)
		opts := call.Args["opts"].(*gitlab.CreateMergeRequestOptions)
		assert.Equal(t, "chore(deps): update dependency foo to v2", *opts.Title)
		assert.Equal(t, "renovate/foo-2.x", *opts.SourceBranch)
		assert.True(t, *opts.RemoveSourceBranch)
		require.NotNil(t, opts.Labels)
		assert.Equal(t, gitlab.LabelOptions{"dependencies"}, *opts.Labels)
	})

	t.Run("draft gets the title prefix", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.CreateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")

		_, err := adapter.CreatePr(platform.CreatePrConfig{
			SourceBranch: "renovate/foo-2.x",
			TargetBranch: "main",
			Title:        "chore(deps): update dependency foo to v2",
			Draft:        true,
		})
		require.NoError(t, err)

		opts := mock.GetLastCall("CreateMergeRequest").Args["opts"].(*gitlab.CreateMergeRequestOptions)
		assert.Equal(t, "Draft: chore(deps): update dependency foo to v2", *opts.Title)
	})

	t.Run("conflict maps to ErrPrAlreadyExists", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.CreateMergeRequestError = glclient.ErrNotAcceptable

		_, err := adapter.CreatePr(platform.CreatePrConfig{
			SourceBranch: "renovate/foo-2.x",
			TargetBranch: "main",
			Title:        "chore(deps): update dependency foo to v2",
		})
		assert.ErrorIs(t, err, platform.ErrPrAlreadyExists)
	})
}

func TestGitLabAdapterUpdatePr(t *testing.T) {
	adapter, mock := newGitLabAdapter(t)
	mock.UpdateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")

	err := adapter.UpdatePr(platform.UpdatePrConfig{
		Number: 42,
		Title:  "new title",
		Body:   "new body",
		State:  platform.StateClosed,
	})
	require.NoError(t, err)

	call := mock.GetLastCall("UpdateMergeRequest")
	require.NotNil(t, call)
	opts := call.Args["opts"].(*gitlab.UpdateMergeRequestOptions)
	assert.Equal(t, "new title", *opts.Title)
	assert.Equal(t, "new body", *opts.Description)
	assert.Equal(t, "close", *opts.StateEvent)
}

func TestGitLabAdapterMergePr(t *testing.T) {
	t.Run("auto varies only the squash flag", func(t *testing.T) {
		// The merge-commit project allows squash and merge-commit, so
		// auto tries squash first and falls back to a plain accept.
		adapter, mock := newGitLabAdapter(t)
		mock.AcceptMergeRequestErrors = []error{glclient.ErrNotAcceptable}

		err := adapter.MergePr(platform.MergePrConfig{Number: 42, Strategy: platform.StrategyAuto})
		require.NoError(t, err)

		var squashes []bool
		for _, call := range mock.GetCalls() {
			if call.Method == "AcceptMergeRequest" {
				opts := call.Args["opts"].(*gitlab.AcceptMergeRequestOptions)
				squashes = append(squashes, *opts.Squash)
			}
		}
		assert.Equal(t, []bool{true, false}, squashes)
	})

	t.Run("every strategy rejected maps to ErrNotMergeable", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.AcceptMergeRequestErrors = []error{glclient.ErrNotAcceptable, glclient.ErrNotAcceptable}

		err := adapter.MergePr(platform.MergePrConfig{Number: 42})
		assert.ErrorIs(t, err, platform.ErrNotMergeable)
		assert.Equal(t, 2, mock.GetCallCount("AcceptMergeRequest"))
	})

	t.Run("explicit strategy is tried alone", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)

		err := adapter.MergePr(platform.MergePrConfig{Number: 42, Strategy: platform.StrategySquash})
		require.NoError(t, err)
		assert.Equal(t, 1, mock.GetCallCount("AcceptMergeRequest"))
		opts := mock.GetLastCall("AcceptMergeRequest").Args["opts"].(*gitlab.AcceptMergeRequestOptions)
		assert.True(t, *opts.Squash)
	})
}

func TestGitLabAdapterGetBranchStatus(t *testing.T) {
	withOpenMr := func(t *testing.T) (*platform.GitLabAdapter, *mocks.GitLabAPI) {
		t.Helper()
		adapter, mock := newGitLabAdapter(t)
		mock.ListMergeRequestsResponse = []*gitlab.BasicMergeRequest{
			fixtures.OpenMergeRequest(42, "renovate/foo-2.x"),
		}
		return adapter, mock
	}

	t.Run("aggregates statuses of the MR head", func(t *testing.T) {
		adapter, mock := withOpenMr(t)
		mock.GetCommitStatusesResponse = []*gitlab.CommitStatus{
			fixtures.GitLabCommitStatus("build", "success"),
			fixtures.GitLabCommitStatus("test", "failed"),
		}

		status, err := adapter.GetBranchStatus("renovate/foo-2.x")
		require.NoError(t, err)
		assert.Equal(t, platform.StatusRed, status)
		assert.Equal(t, fixtures.DefaultHeadSHA, mock.GetLastCall("GetCommitStatuses").Args["sha"])
	})

	t.Run("running status is yellow", func(t *testing.T) {
		adapter, mock := withOpenMr(t)
		mock.GetCommitStatusesResponse = []*gitlab.CommitStatus{
			fixtures.GitLabCommitStatus("build", "success"),
			fixtures.GitLabCommitStatus("test", "running"),
		}

		status, err := adapter.GetBranchStatus("renovate/foo-2.x")
		require.NoError(t, err)
		assert.Equal(t, platform.StatusYellow, status)
	})

	t.Run("newest status per name wins", func(t *testing.T) {
		adapter, mock := withOpenMr(t)
		mock.GetCommitStatusesResponse = []*gitlab.CommitStatus{
			fixtures.GitLabCommitStatus("build", "success"),
			fixtures.GitLabCommitStatus("build", "failed"),
		}

		status, err := adapter.GetBranchStatus("renovate/foo-2.x")
		require.NoError(t, err)
		assert.Equal(t, platform.StatusGreen, status)
	})

	t.Run("no statuses yet is yellow", func(t *testing.T) {
		adapter, _ := withOpenMr(t)

		status, err := adapter.GetBranchStatus("renovate/foo-2.x")
		require.NoError(t, err)
		assert.Equal(t, platform.StatusYellow, status)
	})

	t.Run("no open merge request fails", func(t *testing.T) {
		adapter, _ := newGitLabAdapter(t)

		_, err := adapter.GetBranchStatus("renovate/foo-2.x")
		require.Error(t, err)
	})
}

func TestGitLabAdapterSetBranchStatus(t *testing.T) {
	adapter, mock := newGitLabAdapter(t)
	mock.ListMergeRequestsResponse = []*gitlab.BasicMergeRequest{
		fixtures.OpenMergeRequest(42, "renovate/foo-2.x"),
	}

	err := adapter.SetBranchStatus("renovate/foo-2.x", platform.StatusCheck{
		Context:     "renovate/stability-days",
		Description: "stable",
		State:       platform.StatusGreen,
	})
	require.NoError(t, err)

	call := mock.GetLastCall("SetCommitStatus")
	require.NotNil(t, call)
	assert.Equal(t, fixtures.DefaultHeadSHA, call.Args["sha"])
	opts := call.Args["opts"].(*gitlab.SetCommitStatusOptions)
	assert.Equal(t, gitlab.Success, opts.State)
	assert.Equal(t, "renovate/stability-days", *opts.Context)
}

func TestGitLabAdapterEnsureComment(t *testing.T) {
	cfg := platform.EnsureCommentConfig{
		Number:  42,
		Topic:   "Merge Conflicts",
		Content: "Please rebase this branch.",
	}
	desired := platform.CommentBody(cfg.Topic, cfg.Content)

	t.Run("creates when absent", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)

		require.NoError(t, adapter.EnsureComment(cfg))
		call := mock.GetLastCall("CreateMergeRequestNote")
		require.NotNil(t, call)
		assert.Equal(t, desired, call.Args["body"])
	})

	t.Run("updates stale content", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.ListNotesResponse = []*gitlab.Note{
			fixtures.MergeRequestNote(7, platform.CommentBody(cfg.Topic, "old content")),
		}

		require.NoError(t, adapter.EnsureComment(cfg))
		call := mock.GetLastCall("UpdateMergeRequestNote")
		require.NotNil(t, call)
		assert.Equal(t, 7, call.Args["noteID"])
	})

	t.Run("matching content is a no-op", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.ListNotesResponse = []*gitlab.Note{
			fixtures.MergeRequestNote(7, desired),
		}

		require.NoError(t, adapter.EnsureComment(cfg))
		assert.Equal(t, 0, mock.GetCallCount("CreateMergeRequestNote"))
		assert.Equal(t, 0, mock.GetCallCount("UpdateMergeRequestNote"))
	})
}

func TestGitLabAdapterEnsureCommentRemoval(t *testing.T) {
	adapter, mock := newGitLabAdapter(t)
	mock.ListNotesResponse = []*gitlab.Note{
		fixtures.MergeRequestNote(6, "unrelated"),
		fixtures.MergeRequestNote(7, platform.CommentBody("Merge Conflicts", "Please rebase.")),
	}

	require.NoError(t, adapter.EnsureCommentRemoval(42, "Merge Conflicts"))
	call := mock.GetLastCall("DeleteMergeRequestNote")
	require.NotNil(t, call)
	assert.Equal(t, 7, call.Args["noteID"])
}

func TestGitLabAdapterEnsureIssue(t *testing.T) {
	cfg := platform.EnsureIssueConfig{
		Title: "Dependency Dashboard",
		Body:  "issue body",
	}

	t.Run("creates when absent", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)

		require.NoError(t, adapter.EnsureIssue(cfg))
		call := mock.GetLastCall("CreateIssue")
		require.NotNil(t, call)
		opts := call.Args["opts"].(*gitlab.CreateIssueOptions)
		assert.Equal(t, "Dependency Dashboard", *opts.Title)
	})

	t.Run("matching open issue is a no-op", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		issue := fixtures.GitLabIssue(8, "Dependency Dashboard", "opened")
		issue.Description = "issue body"
		mock.ListIssuesResponse = []*gitlab.Issue{issue}

		require.NoError(t, adapter.EnsureIssue(cfg))
		assert.Equal(t, 0, mock.GetCallCount("CreateIssue"))
		assert.Equal(t, 0, mock.GetCallCount("UpdateIssue"))
	})

	t.Run("duplicate open issues are closed", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		first := fixtures.GitLabIssue(8, "Dependency Dashboard", "opened")
		first.Description = "issue body"
		second := fixtures.GitLabIssue(9, "Dependency Dashboard", "opened")
		mock.ListIssuesResponse = []*gitlab.Issue{first, second}

		require.NoError(t, adapter.EnsureIssue(cfg))
		call := mock.GetLastCall("UpdateIssue")
		require.NotNil(t, call)
		assert.Equal(t, 9, call.Args["iid"])
		opts := call.Args["opts"].(*gitlab.UpdateIssueOptions)
		assert.Equal(t, "close", *opts.StateEvent)
	})

	t.Run("closed issue blocks re-creation without reopen", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.ListIssuesResponse = []*gitlab.Issue{
			fixtures.GitLabIssue(8, "Dependency Dashboard", "closed"),
		}

		require.NoError(t, adapter.EnsureIssue(cfg))
		assert.Equal(t, "all", mock.GetLastCall("ListIssues").Args["state"])
		assert.Equal(t, 0, mock.GetCallCount("CreateIssue"))
		assert.Equal(t, 0, mock.GetCallCount("UpdateIssue"))
	})

	t.Run("reopens a closed issue when requested", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.ListIssuesResponse = []*gitlab.Issue{
			fixtures.GitLabIssue(8, "Dependency Dashboard", "closed"),
		}

		reopen := cfg
		reopen.Reopen = true
		require.NoError(t, adapter.EnsureIssue(reopen))

		call := mock.GetLastCall("UpdateIssue")
		require.NotNil(t, call)
		opts := call.Args["opts"].(*gitlab.UpdateIssueOptions)
		assert.Equal(t, "reopen", *opts.StateEvent)
	})

	t.Run("issues disabled is a no-op", func(t *testing.T) {
		mock := mocks.NewGitLabAPI()
		project := fixtures.ActiveGitLabProject("owner/project")
		project.IssuesEnabled = false
		mock.GetProjectResponse = project
		adapter := platform.NewGitLabAdapter(mock, logger.NoLogger())
		_, err := adapter.InitRepo("owner/project")
		require.NoError(t, err)

		require.NoError(t, adapter.EnsureIssue(cfg))
		assert.Equal(t, 0, mock.GetCallCount("ListIssues"))
		assert.Equal(t, 0, mock.GetCallCount("CreateIssue"))
	})
}

func TestGitLabAdapterAssigneesAndReviewers(t *testing.T) {
	t.Run("assignees resolve usernames to IDs", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.UpdateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")
		mock.LookupUserIDs = map[string]int{"alice": 11, "bob": 12}

		require.NoError(t, adapter.AddAssignees(42, []string{"alice", "bob"}))

		call := mock.GetLastCall("UpdateMergeRequest")
		require.NotNil(t, call)
		opts := call.Args["opts"].(*gitlab.UpdateMergeRequestOptions)
		require.NotNil(t, opts.AssigneeIDs)
		assert.Equal(t, []int{11, 12}, *opts.AssigneeIDs)
	})

	t.Run("reviewers resolve usernames to IDs", func(t *testing.T) {
		adapter, mock := newGitLabAdapter(t)
		mock.UpdateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")
		mock.LookupUserIDs = map[string]int{"carol": 13}

		require.NoError(t, adapter.AddReviewers(42, []string{"carol"}))

		opts := mock.GetLastCall("UpdateMergeRequest").Args["opts"].(*gitlab.UpdateMergeRequestOptions)
		require.NotNil(t, opts.ReviewerIDs)
		assert.Equal(t, []int{13}, *opts.ReviewerIDs)
	})
}

func TestGitLabAdapterDeleteLabel(t *testing.T) {
	adapter, mock := newGitLabAdapter(t)
	mock.UpdateMergeRequestResponse = fixtures.DetailedMergeRequest(42, "renovate/foo-2.x")

	require.NoError(t, adapter.DeleteLabel(42, "dependencies"))

	opts := mock.GetLastCall("UpdateMergeRequest").Args["opts"].(*gitlab.UpdateMergeRequestOptions)
	require.NotNil(t, opts.RemoveLabels)
	assert.Equal(t, gitlab.LabelOptions{"dependencies"}, *opts.RemoveLabels)
}

func TestGitLabAdapterMassageMarkdown(t *testing.T) {
	adapter, _ := newGitLabAdapter(t)
	assert.Equal(t, "short body", adapter.MassageMarkdown("short body"))
	assert.Equal(t, 25000, adapter.MaxBodyLength())
}
