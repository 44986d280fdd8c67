package domain

import "errors"

// Sentinel errors shared across services and mapped to HTTP status codes
// by the delivery layer.
var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEventNotFound is returned when an invitation references an event
	// that no longer exists.
	ErrEventNotFound = errors.New("event not found")

	// ErrNotWaitlisted is returned by waitlist operations when the target
	// invitation is not currently waitlisted.
	ErrNotWaitlisted = errors.New("invitation is not waitlisted")

	// ErrCapacityFull is returned when an explicit promotion is attempted
	// against an event with no seats left.
	ErrCapacityFull = errors.New("event is at capacity")

	// ErrDuplicateRSVP is returned by public intake when the guest already
	// holds an active reservation for the event.
	ErrDuplicateRSVP = errors.New("an active RSVP already exists for this email")

	// ErrConflict is returned when a transaction could not be committed
	// after retrying on write conflicts. The operation is safe to retry.
	ErrConflict = errors.New("concurrent update conflict, retry the request")

	// ErrInvalidInput is returned when the request is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden is returned when the caller does not own the resource.
	ErrForbidden = errors.New("forbidden")
)
