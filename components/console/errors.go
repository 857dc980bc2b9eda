package console

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when the backend rejects an
	// email/password pair or a provider assertion.
	ErrInvalidCredentials = errors.New("console: invalid credentials")

	// ErrNotAuthorized is returned when a login succeeds but the identity
	// does not carry the admin role. It is distinct from bad credentials.
	ErrNotAuthorized = errors.New("console: admin privileges required")

	// ErrSessionInvalid marks a session the backend no longer accepts.
	ErrSessionInvalid = errors.New("console: session invalid")

	errMissingAuthClient = errors.New("console: auth client is required")
	errMissingFetch      = errors.New("console: list fetch function is required")
)

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("console: %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response with the backend-provided message. The
// Message is decoded from a JSON {message} body, falling back to the raw
// response text.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("console: %s: backend returned %d: %s", e.Op, e.Status, e.Message)
}

// SessionInvalid reports whether the response status means the current
// session is dead. Both 401 and 403 are treated uniformly.
func (e *ServerError) SessionInvalid() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// MalformedResponseError is a 2xx response whose body could not be decoded
// into the expected shape.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("console: %s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IsSessionInvalid reports whether err means the backend no longer accepts
// the session token, regardless of which call surfaced it.
func IsSessionInvalid(err error) bool {
	if errors.Is(err, ErrSessionInvalid) {
		return true
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.SessionInvalid()
	}
	return false
}
