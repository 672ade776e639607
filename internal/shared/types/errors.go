package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotAuthenticated   = errors.New("you must sign in to access this feature")
	ErrMissingToken       = errors.New("backend response did not include an access token")
	ErrUnsupportedStorage = errors.New("unsupported storage backend")
	ErrUnknownPolicy      = errors.New("unknown session policy")
)

// APIError é retornado quando o backend responde com status diferente de 2xx.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.StatusCode, e.Message)
}

// ConnectionError wraps transport-level failures (DNS, refused connection, timeout).
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("Connection error: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err was caused by the transport.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
