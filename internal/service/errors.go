package service

import (
	"errors"
	"fmt"
	"net/http"
)

// FetchError reports a failed page download: network error, timeout or a
// non-2xx status.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ErrOptimizationUnavailable means no generated post text is available and the
// templated fallback should be used.
var ErrOptimizationUnavailable = errors.New("optimization unavailable")

// ErrMissingCredentials is returned when a publish is attempted without an
// access token or external user id.
var ErrMissingCredentials = &PublishError{Err: errors.New("linkedin credentials missing")}

// PublishError is a failed post creation. Transient errors may be retried.
type PublishError struct {
	StatusCode int
	Transient  bool
	Err        error
}

func (e *PublishError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("publish failed (%s, status %d): %v", kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("publish failed (%s): %v", kind, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a retryable publish failure.
func IsTransient(err error) bool {
	var pe *PublishError
	return errors.As(err, &pe) && pe.Transient
}

// IsPermanent reports whether err is a publish failure that must not be
// retried. Errors that are not a PublishError are neither transient nor
// permanent.
func IsPermanent(err error) bool {
	var pe *PublishError
	return errors.As(err, &pe) && !pe.Transient
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
