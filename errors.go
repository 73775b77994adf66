package granola

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrCSRFTokensNotFound indicates the double-submit header/cookie
	// pair was not fully present on a protected request.
	ErrCSRFTokensNotFound = errors.New("csrf tokens not found")

	// ErrCSRFTokenMismatch indicates both tokens were present but did
	// not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")

	// ErrRequestFailed indicates an outbound request completed with a
	// non-success status.
	ErrRequestFailed = errors.New("request failed")
)

// StatusError is a tagged error carrying an HTTP status and structured
// context. It keeps transport concerns out of the core: producers return a
// StatusError, and WriteError translates it to a response at the boundary.
type StatusError struct {
	Status  int    // HTTP status code the error maps to
	Message string // Human-readable context for the response body
	Err     error  // Underlying sentinel error (ErrRequestFailed, etc.)
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("status %d", e.Status)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the status code the error maps to.
func (e *StatusError) HTTPStatus() int {
	return e.Status
}

// statusCoder is implemented by errors that know their HTTP status.
type statusCoder interface {
	HTTPStatus() int
}

// errorBody is the wire form of a rendered error.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError translates an error into an HTTP response. Errors carrying a
// status (StatusError, CSRFTokensNotFoundError) render that status;
// anything else is a 500. The body goes through the shared Mapper.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var sc statusCoder
	if errors.As(err, &sc) {
		status = sc.HTTPStatus()
	}

	m := Default()
	body, mErr := m.Marshal(errorBody{Error: err.Error()})

	w.Header().Set("Content-Type", m.ContentType())
	w.WriteHeader(status)
	if mErr == nil {
		_, _ = w.Write(body)
	}
}
