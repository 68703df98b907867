// Package git provides local repository operations for the update workflow.
package git

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sgaunet/bullets"

	"github.com/Onesty-Tech-GmbH/renovate/internal/urlutil"
	"github.com/Onesty-Tech-GmbH/renovate/pkg/platform"
)

var (
	errNoRemoteURL       = errors.New("no URLs found for remote")
	errUnknownPlatform   = errors.New("could not detect platform from remote URL")
	errHeadNotBranch     = errors.New("HEAD is not pointing to a branch")
	errNoMainBranch      = errors.New("could not determine main branch")
	errStopIteration     = errors.New("stop iteration")
	errInvalidRemotePath = errors.New("could not extract project path from remote URL")
)

// Repository wraps a local git repository.
type Repository struct {
	repo *git.Repository
	log  *bullets.Logger
}

// OpenRepository opens the repository at path.
func OpenRepository(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &Repository{repo: repo}, nil
}

// SetLogger sets the logger for repository operations.
func (r *Repository) SetLogger(log *bullets.Logger) {
	r.log = log
}

// GetCurrentBranch returns the branch HEAD points to.
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", errHeadNotBranch
	}
	return head.Name().Short(), nil
}

// GetMainBranch resolves the default branch of the origin remote, falling
// back to main or master when the remote HEAD is unavailable.
func (r *Repository) GetMainBranch() (string, error) {
	remote, err := r.repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to get origin remote: %w", err)
	}

	refs, err := remote.List(&git.ListOptions{})
	if err == nil {
		for _, ref := range refs {
			if ref.Name() != plumbing.HEAD {
				continue
			}
			if target := ref.Target(); target.IsBranch() {
				return target.Short(), nil
			}
		}
	}

	for _, defaultBranch := range []string{"main", "master"} {
		if r.branchExists(defaultBranch) {
			return defaultBranch, nil
		}
	}

	return "", errNoMainBranch
}

func (r *Repository) branchExists(branchName string) bool {
	_, err := r.repo.Reference(plumbing.NewBranchReferenceName(branchName), true)
	return err == nil
}

// GetRemoteURL returns the first URL of a remote.
func (r *Repository) GetRemoteURL(remoteName string) (string, error) {
	remote, err := r.repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("%w: %s", errNoRemoteURL, remoteName)
	}
	return urls[0], nil
}

// DetectPlatform infers the provider kind from the origin remote URL.
// Gerrit instances are recognized by their conventional markers: a
// "gerrit." or "review." host prefix, the SSH port 29418 or the "/a/"
// authenticated path prefix.
func (r *Repository) DetectPlatform() (platform.Kind, error) {
	url, err := r.GetRemoteURL("origin")
	if err != nil {
		return "", err
	}

	switch {
	case strings.Contains(url, "github.com"):
		return platform.KindGitHub, nil
	case strings.Contains(url, "gitlab.com"):
		return platform.KindGitLab, nil
	case strings.Contains(url, "gerrit.") ||
		strings.Contains(url, "review.") ||
		strings.Contains(url, ":29418") ||
		strings.Contains(url, "/a/"):
		return platform.KindGerrit, nil
	default:
		return "", fmt.Errorf("%w: %s", errUnknownPlatform, url)
	}
}

// ProjectPath extracts the project path from a remote URL. Both HTTPS and
// SSH remote formats are supported, including Gerrit's authenticated /a/
// prefix. GitHub paths are always owner/repo, so any extra leading
// components a mirror or proxy adds to the URL are dropped; GitLab
// subgroup paths and Gerrit project paths keep their full depth.
func ProjectPath(url string, kind platform.Kind) (string, error) {
	var path string
	if kind == platform.KindGitHub {
		path = urlutil.ExtractPathComponents(url, 2)
	} else {
		path = urlutil.ExtractProjectPath(url)
	}
	if path == "" {
		return "", fmt.Errorf("%w: %s", errInvalidRemotePath, url)
	}
	return path, nil
}

// PushBranch pushes a local branch to the matching remote branch.
func (r *Repository) PushBranch(branchName string) error {
	return r.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs: []config.RefSpec{
			config.RefSpec("refs/heads/" + branchName + ":refs/heads/" + branchName),
		},
	})
}

// PushForReview pushes a local branch to Gerrit's magic review ref for a
// target branch, carrying the branch name as the change topic.
func (r *Repository) PushForReview(branchName, targetBranch string) error {
	refSpec := fmt.Sprintf("refs/heads/%s:refs/for/%s%%topic=%s", branchName, targetBranch, branchName)
	return r.repo.Push(&git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []config.RefSpec{config.RefSpec(refSpec)},
	})
}

// SwitchBranch checks out a local branch.
func (r *Repository) SwitchBranch(branchName string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	return worktree.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branchName),
	})
}

// Pull updates the current branch from origin.
func (r *Repository) Pull() error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Pull(&git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// DeleteBranch removes a local branch reference.
func (r *Repository) DeleteBranch(branchName string) error {
	return r.repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(branchName))
}

// FetchAndPrune fetches from origin and prunes stale remote references.
func (r *Repository) FetchAndPrune() error {
	err := r.repo.Fetch(&git.FetchOptions{
		RemoteName: "origin",
		Prune:      true,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}

// GetLatestCommitMessage returns the full message of the HEAD commit.
func (r *Repository) GetLatestCommitMessage() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD reference: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("failed to get commit object: %w", err)
	}
	return commit.Message, nil
}

// GetCommitsSince returns the commits on the current branch that are not
// yet on baseBranch, newest first.
func (r *Repository) GetCommitsSince(baseBranch string) ([]*object.Commit, error) {
	currentHead, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get current HEAD: %w", err)
	}

	baseRef, err := r.repo.Reference(plumbing.NewBranchReferenceName(baseBranch), true)
	if err != nil {
		return nil, fmt.Errorf("failed to get base branch reference: %w", err)
	}

	commitIter, err := r.repo.Log(&git.LogOptions{From: currentHead.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer commitIter.Close()

	var commits []*object.Commit
	err = commitIter.ForEach(func(commit *object.Commit) error {
		if commit.Hash == baseRef.Hash() {
			return errStopIteration
		}
		commits = append(commits, commit)
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	return commits, nil
}
