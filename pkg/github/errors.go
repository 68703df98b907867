package github

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v69/github"
)

// Error definitions for GitHub API operations.
var (
	// ErrTokenRequired is returned when the GITHUB_TOKEN environment
	// variable is missing.
	ErrTokenRequired = errors.New("GITHUB_TOKEN environment variable is required")
)

// IsNotFound reports whether the error is a 404 from the GitHub API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict reports whether the error is a 405 or 409, which GitHub uses
// for merge conflicts and disallowed merge methods.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusMethodNotAllowed) || hasStatus(err, http.StatusConflict)
}

// IsUnprocessable reports whether the error is a 422 validation failure.
func IsUnprocessable(err error) bool {
	return hasStatus(err, http.StatusUnprocessableEntity)
}

// IsAlreadyExists reports whether a pull-request creation failed because an
// open pull request already exists for the head branch.
func IsAlreadyExists(err error) bool {
	if !IsUnprocessable(err) {
		return false
	}
	return strings.Contains(err.Error(), "already exists")
}

func hasStatus(err error, status int) bool {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode == status
	}
	return false
}
