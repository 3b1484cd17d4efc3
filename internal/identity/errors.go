package identity

import (
	"errors"
	"fmt"
)

var (
	ErrNoSession = errors.New("no active session")
	// ErrNoPendingSignUp is returned when auto sign-in has no remembered credentials.
	ErrNoPendingSignUp = errors.New("no pending sign up")
)

// Error is an error reported by the identity provider. Message is meant
// for the user.
type Error struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("identity provider: status %d", e.StatusCode)
}

// IsCode reports whether err is a provider error with the given code.
func IsCode(err error, code string) bool {
	var providerErr *Error
	return errors.As(err, &providerErr) && providerErr.Code == code
}
