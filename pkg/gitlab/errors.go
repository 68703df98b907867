package gitlab

import (
	"errors"
	"fmt"
	"net/http"

	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Error definitions for GitLab API operations.
var (
	// ErrTokenRequired is returned when the GITLAB_TOKEN environment
	// variable is missing.
	ErrTokenRequired = errors.New("GITLAB_TOKEN environment variable is required")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("gitlab resource not found")

	// ErrNotAcceptable is returned when GitLab refuses to accept a merge
	// request (405 or 406), which covers conflicts and failed checks.
	ErrNotAcceptable = errors.New("gitlab refused to accept the merge request")
)

// IsNotFound reports whether the error is a 404 from the GitLab API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNotAcceptable reports whether GitLab refused a merge.
func IsNotAcceptable(err error) bool {
	return errors.Is(err, ErrNotAcceptable)
}

// wrapResponse maps well-known HTTP status codes onto sentinel errors so
// callers can branch without parsing response bodies.
func wrapResponse(resp *gitlab.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil && resp.Response != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusMethodNotAllowed, http.StatusNotAcceptable, http.StatusConflict:
			return fmt.Errorf("%w: %v", ErrNotAcceptable, err)
		}
	}
	return err
}
