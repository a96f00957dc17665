package errors

import (
	"errors"
	"fmt"
)

// Common error types for the booking sync service
var (
	// Credential errors
	ErrMissingCode         = errors.New("authorization code is required")
	ErrMissingRefreshToken = errors.New("refresh token is not defined")
	ErrNoCredential        = errors.New("crm is not authorised")
	ErrInvalidState        = errors.New("invalid oauth state")

	// Payload errors
	ErrInvalidPayload = errors.New("invalid payload")

	// General errors
	ErrNotFound = errors.New("not found")
)

// AuthError is returned by the token store when the CRM credential cannot be
// obtained or renewed.
type AuthError struct {
	Msg    string
	Status int    // HTTP status from the token endpoint, 0 if no response
	Body   string // raw response body from the token endpoint
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("crm auth: %s: %d %s", e.Msg, e.Status, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("crm auth: %s: %v", e.Msg, e.Err)
	}
	return "crm auth: " + e.Msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// CrmRequestError carries the status and body of a CRM call that returned an
// unexpected status.
type CrmRequestError struct {
	Op     string
	Status int
	Body   string
}

func (e *CrmRequestError) Error() string {
	return fmt.Sprintf("crm %s: %d: %s", e.Op, e.Status, e.Body)
}

// TransportError wraps network level failures (dial, TLS, timeout) so callers
// can tell them apart from a response with a bad status.
type TransportError struct {
	Op      string
	Timeout bool
	Err     error
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%s: timeout: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError builds a TransportError, flagging timeouts reported by the
// net/http stack.
func NewTransportError(op string, err error) *TransportError {
	var timeout interface{ Timeout() bool }
	isTimeout := errors.As(err, &timeout) && timeout.Timeout()
	return &TransportError{Op: op, Timeout: isTimeout, Err: err}
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
