package upstream

import (
	"errors"
	"fmt"
	"net/http"
)

// AuthError means the session token is missing, expired or rejected. The
// caller must clear the stored session and send the user to /login.
type AuthError struct {
	Status int
	Reason string
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("authentication required: upstream returned %d", e.Status)
	}
	if e.Reason != "" {
		return "authentication required: " + e.Reason
	}
	return "authentication required"
}

// NetworkError wraps any non-2xx response other than 401/403, and transport
// failures (Status 0).
type NetworkError struct {
	Status     int
	StatusText string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.Status == 0 {
		if e.Err != nil {
			return "upstream unreachable: " + e.Err.Error()
		}
		return "upstream unreachable"
	}
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("upstream error %d: %s", e.Status, text)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingToken = &AuthError{Reason: "missing session token"}
	ErrNoBaseURL    = errors.New("upstream base url is not configured")
)

func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
