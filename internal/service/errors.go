// Package service implements the identity flows: code-based
// registration, login, and self-service password reset.  Each service
// gets its collaborators injected (stores, notifier, clock-free token
// helpers) so there is no hidden process-wide state and tests can swap
// in fakes.
package service

import "errors"

// Validation failures: user-correctable, surfaced as field-level messages.
var (
	ErrInvalidEmail = errors.New("invalid email")
	ErrInvalidName  = errors.New("invalid name")
	ErrWeakPassword = errors.New("password too short")
)

// Conflict: the email already belongs to an account.  Handlers surface
// this generically; the flow itself still leaks existence (known
// enumeration gap, kept deliberately).
var ErrEmailTaken = errors.New("email already taken")

// Unknown or mismatched code/token.  Handlers must map all three to one
// identical response so a caller cannot tell which part was wrong.
var (
	ErrNoSuchRegistration = errors.New("no registration for email")
	ErrCodeMismatch       = errors.New("code mismatch")
	ErrNotVerified        = errors.New("registration not verified")
	ErrTokenInvalid       = errors.New("invalid reset token")
)

// ErrBadCredentials covers unknown email and wrong password alike at login.
var ErrBadCredentials = errors.New("invalid credentials")
