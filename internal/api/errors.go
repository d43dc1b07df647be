package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrLoginUserMismatch means the auth endpoint accepted the credentials but
// the user listing has no record with that username.
var ErrLoginUserMismatch = errors.New("login succeeded but no matching user record was found")

// RequestError is a non-2xx response.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TransportError means no response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var rerr *RequestError
	if errors.As(err, &rerr) {
		return rerr.Status
	}
	return 0
}

// IsNotFound reports a 404 response.
func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// IsUnauthorized reports a 401 response, usually an expired token.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}
