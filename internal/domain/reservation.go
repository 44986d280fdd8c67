package domain

import "context"

// ReservationTx exposes the reads and writes available inside one
// reservation transaction. Implementations must guarantee that reads
// observe a consistent snapshot and that GetEventForUpdate serializes
// concurrent transactions touching the same event.
type ReservationTx interface {
	GetInvitationByToken(ctx context.Context, token string) (*Invitation, error)
	GetInvitationByID(ctx context.Context, id string) (*Invitation, error)
	// GetEventForUpdate loads the event row with a write lock so the
	// confirmed counter cannot be read-then-written by two transactions.
	GetEventForUpdate(ctx context.Context, eventID string) (*Event, error)
	// FindActivePublicInvitation returns the public-origin invitation for
	// (eventID, normalized email) whose status is confirmed or waitlisted,
	// or ErrNotFound when none exists.
	FindActivePublicInvitation(ctx context.Context, eventID, email string) (*Invitation, error)
	CreateInvitation(ctx context.Context, inv *Invitation) error
	UpdateInvitation(ctx context.Context, inv *Invitation) error
	SetEventConfirmedCount(ctx context.Context, eventID string, count int) error
	// MarkVisited sets visited=true on the invitation. Idempotent.
	MarkVisited(ctx context.Context, invitationID string) error
}

// ReservationStore runs reservation transactions. InTx executes fn inside
// one transaction: either every write in fn is visible or none is. On a
// write conflict with a concurrent transaction the store retries fn from a
// fresh snapshot a bounded number of times, then fails with ErrConflict.
// fn must therefore be safe to re-run.
type ReservationStore interface {
	InTx(ctx context.Context, fn func(tx ReservationTx) error) error
}

// ReservationService is the guest-facing reservation engine.
type ReservationService interface {
	// ResolveByToken loads an invitation by its opaque token and marks it
	// visited on first resolution.
	ResolveByToken(ctx context.Context, token string) (*Invitation, error)
	// SubmitRSVP records a guest response. requested must be confirmed or
	// declining. A confirmation against a full event results in a
	// waitlisted invitation, not an error. Guest name and email always
	// overwrite the stored values.
	SubmitRSVP(ctx context.Context, token, guestName, guestEmail string, requested Status) (*Invitation, error)
	// GetEventStats returns RSVP totals for an event.
	GetEventStats(ctx context.Context, eventID string) (*EventStats, error)
}

// PublicIntakeService creates reservations for guests without a
// pre-issued invitation.
type PublicIntakeService interface {
	// SubmitPublicIntake creates a new public-origin invitation unless the
	// guest already holds an active one for the event, in which case it
	// fails with ErrDuplicateRSVP. Initial status follows the capacity
	// rule: confirmed when a seat is left, waitlisted otherwise.
	SubmitPublicIntake(ctx context.Context, eventID, guestName, guestEmail string) (*Invitation, error)
}

// WaitlistService covers host-initiated disposition of waitlisted guests.
type WaitlistService interface {
	// Promote confirms a waitlisted invitation. Unlike guest submissions,
	// a full event is an explicit ErrCapacityFull so the host sees it.
	Promote(ctx context.Context, invitationID, eventID, hostID string) (*Invitation, error)
	// Decline moves a waitlisted invitation to declining.
	Decline(ctx context.Context, invitationID, hostID string) (*Invitation, error)
}
