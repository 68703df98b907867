package platform

import "errors"

// Sentinel errors for platform operations.
var (
	// ErrRepoNotFound is returned by InitRepo when the repository does
	// not exist or the token cannot see it.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRepoArchived is returned by InitRepo for archived or read-only
	// repositories. Fatal: no operation can proceed.
	ErrRepoArchived = errors.New("repository is archived")

	// ErrRepoRenamed is returned by InitRepo when the provider reports a
	// different canonical name than the one configured.
	ErrRepoRenamed = errors.New("repository has been renamed")

	// ErrPrAlreadyExists is returned by CreatePr when the source branch
	// already has an open pull request.
	ErrPrAlreadyExists = errors.New("pull request already exists for this branch")

	// ErrNotMergeable is returned by MergePr when every permitted merge
	// strategy was rejected by the provider.
	ErrNotMergeable = errors.New("pull request cannot be merged")

	// ErrUninitialized is returned when an operation runs before InitRepo.
	ErrUninitialized = errors.New("repository not initialized")
)
