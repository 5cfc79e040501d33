package errs

import "errors"

// Sentinel errors shared by the service layer. Callers are expected to
// classify with errors.Is; the concrete wrapped message carries the detail.
var (
	// ErrValidation marks malformed input: item name, quantity, unit price,
	// email shape.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing entity. For orders the service layer masks
	// both "does not exist" and "not owned by the caller" into an absent
	// result instead, so this mostly surfaces for users.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a duplicate, e.g. registering an email twice.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidState marks an illegal status transition or an item mutation
	// on a non-draft order.
	ErrInvalidState = errors.New("invalid order state")

	// ErrAuthenticationFailed covers both unknown email and wrong password,
	// so responses cannot be used to enumerate accounts.
	ErrAuthenticationFailed = errors.New("invalid credentials")

	// ErrAuditAppend reports a failed audit append after the primary
	// mutation already committed. The mutation is not rolled back.
	ErrAuditAppend = errors.New("audit append failed")
)
