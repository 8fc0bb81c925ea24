package service

import "errors" // Sentinel error kinds

// Error kinds. Every error returned by the services that is not an internal
// failure unwraps to exactly one of these.
var (
	ErrConflict     = errors.New("conflict")     // Maps to 409
	ErrUnauthorized = errors.New("unauthorized") // Maps to 401
	ErrNotFound     = errors.New("not found")    // Maps to 404
	ErrBadRequest   = errors.New("bad request")  // Maps to 400
)

// Error is a client-facing failure with a readable message
type Error struct {
	kind error  // One of the kinds above
	msg  string // Message shown to the client
}

func newError(kind error, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Unwrap returns the error kind so errors.Is(err, ErrNotFound) works
func (e *Error) Unwrap() error { return e.kind }

// Client-facing errors
var (
	ErrUsernameTaken       = newError(ErrConflict, "Username already taken")
	ErrInvalidCredentials  = newError(ErrUnauthorized, "Invalid credentials")
	ErrInvalidAuthToken    = newError(ErrUnauthorized, "Invalid authentication credentials")
	ErrTransactionNotFound = newError(ErrNotFound, "Transaction not found")
	ErrInvalidResetToken   = newError(ErrBadRequest, "Invalid token")
	ErrResetTokenExpired   = newError(ErrBadRequest, "Reset token has expired")
	ErrInvalidMonth        = newError(ErrBadRequest, "Month must be between 1 and 12")
	ErrPasswordTooLong     = newError(ErrBadRequest, "Password must be at most 72 bytes")
	ErrInvalidAmount       = newError(ErrBadRequest, "Amount must have at most 10 decimal places and fewer than 28 integer digits")
)
