package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrSessionExpired indicates the refresh credential itself was rejected.
// The stored token and profile have already been cleared; the user must log
// in again.
var ErrSessionExpired = errors.New("session expired, log in again")

// ErrNotLoggedIn indicates an operation needs a stored profile and none
// exists.
var ErrNotLoggedIn = errors.New("not logged in")

// APIError is an HTTP error response from the backend. Network failures are
// not APIErrors; they surface as transport errors unchanged.
type APIError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Message is the server-provided message, when the body carried one.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("backend error: %s", http.StatusText(e.StatusCode))
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, statusCode int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == statusCode
	}
	return false
}

// IsAuthError reports whether err is a 401 response.
func IsAuthError(err error) bool {
	return IsStatus(err, http.StatusUnauthorized)
}

// IsPermissionDenied reports whether err is a 403 response.
func IsPermissionDenied(err error) bool {
	return IsStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}
