// Package apperr defines the error kinds returned across the service
// boundary. Callers classify failures with errors.Is and map each kind to a
// transport-level response; internal store errors are translated to
// ErrStoreUnavailable before they reach a caller.
package apperr

import "errors"

var (
	// ErrValidation indicates a field value that violates a domain rule.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a missing entity or one not owned by the
	// caller. The two cases are deliberately indistinguishable so that
	// existence is not leaked to non-owners.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateUsername indicates the username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed login. It does not reveal
	// whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidRequest indicates a request that failed CSRF verification.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStoreUnavailable indicates an underlying persistence failure.
	// The original error is logged, never surfaced.
	ErrStoreUnavailable = errors.New("storage unavailable")
)
