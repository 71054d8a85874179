package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedPayload marks a response body that could not be decoded as the
// expected JSON shape. Treated as permanent: retrying won't fix a board that
// serves HTML or garbage.
var ErrMalformedPayload = errors.New("malformed payload")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
