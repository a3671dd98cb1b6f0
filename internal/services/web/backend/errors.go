package backend

import (
	"errors"
	"fmt"
	"strings"
)

// Error describes a failed backend call. StatusCode is zero when the request
// never produced an HTTP response.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return e.Op + ": request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Message returns the backend-supplied message carried by err, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(apiErr.Message)
	}
	return ""
}

// StatusCode returns the HTTP status carried by err, or zero.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
