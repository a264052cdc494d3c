package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/FACorreiaa/fraudguard-console/internal/app/models"
)

// APIError is a non-2xx answer from a backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets callers match status classes against the sentinels in models.
func (e *APIError) Is(target error) bool {
	switch target {
	case models.ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	case models.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case models.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case models.ErrBadRequest:
		return e.StatusCode == http.StatusBadRequest
	}
	return false
}

// NetworkError wraps a transport failure. Unwrap returns the original error
// untouched so callers can still inspect context.Canceled, *url.Error, etc.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, models.ErrNetwork, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == models.ErrNetwork }

// StatusCode reports the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// errorBody is the backend's error envelope.
type errorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}
