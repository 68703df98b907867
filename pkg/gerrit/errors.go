package gerrit

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/andygrunwald/go-gerrit"
)

// Error definitions for Gerrit API operations.
var (
	// ErrEndpointRequired is returned when no Gerrit instance URL is
	// configured.
	ErrEndpointRequired = errors.New("gerrit endpoint is required")

	// ErrCredentialsRequired is returned when the GERRIT_USERNAME or
	// GERRIT_PASSWORD environment variables are missing.
	ErrCredentialsRequired = errors.New("GERRIT_USERNAME and GERRIT_PASSWORD environment variables are required")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("gerrit resource not found")

	// ErrConflict is returned for 409 responses, which Gerrit uses for
	// unmergeable or already-closed changes.
	ErrConflict = errors.New("gerrit rejected the operation")
)

// IsNotFound reports whether the error is a 404 from the Gerrit API.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether the error is a 409 from the Gerrit API.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

// wrapResponse maps well-known HTTP status codes onto sentinel errors so
// callers can branch without parsing response bodies.
func wrapResponse(resp *gerrit.Response, err error) error {
	if err == nil {
		return nil
	}
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusConflict:
			return fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}
	return err
}
