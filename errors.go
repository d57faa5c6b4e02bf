package secureauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is an exported constant or variable used by the session client.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTwoFactorRequired is an exported constant or variable used by the session client.
	ErrTwoFactorRequired = errors.New("two-factor verification required")
	// ErrTwoFactorInvalid is an exported constant or variable used by the session client.
	ErrTwoFactorInvalid = errors.New("invalid two-factor code")
	// ErrSessionExpired is an exported constant or variable used by the session client.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is an exported constant or variable used by the session client.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrRefreshInvalid is an exported constant or variable used by the session client.
	ErrRefreshInvalid = errors.New("refresh token missing or rejected")
	// ErrNoProfile is an exported constant or variable used by the session client.
	ErrNoProfile = errors.New("no cached profile")
	// ErrProfileMalformed is an exported constant or variable used by the session client.
	ErrProfileMalformed = errors.New("cached profile malformed")
	// ErrResponseMalformed is an exported constant or variable used by the session client.
	ErrResponseMalformed = errors.New("malformed server response")
	// ErrClientClosed is an exported constant or variable used by the session client.
	ErrClientClosed = errors.New("client closed")
)

// APIError defines a public type used by secureauth APIs.
//
// APIError instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
//
// It carries any non-2xx outcome that is not recovered by the refresh pipeline,
// with the server's envelope message when one was present.
type APIError struct {
	StatusCode int
	Message    string
	Method     string
	Path       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

func newAPIError(status int, method, path string, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Method:     method,
		Path:       path,
	}
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err == nil {
		e.Message = env.Message
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}
