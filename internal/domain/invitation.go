package domain

import (
	"context"
	"strings"
	"time"
)

// Status is the RSVP lifecycle state of an invitation.
type Status string

// Invitation lifecycle states. Pending is the initial state for
// host-issued invitations; public sign-ups start directly in Confirmed or
// Waitlisted. Declining is terminal but may re-enter Confirmed on a later
// submission, subject to capacity at that moment.
const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusDeclining  Status = "declining"
	StatusWaitlisted Status = "waitlisted"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclining, StatusWaitlisted:
		return true
	}
	return false
}

// Invitation represents one guest's relationship to one event.
// Token is the opaque lookup key handed to the guest; it is generated once
// and never reused. PublicOrigin distinguishes self-service sign-ups from
// host-issued invitations and is immutable.
// swagger:model Invitation
type Invitation struct {
	ID           string     `json:"id"`
	EventID      string     `json:"event_id"`
	Token        string     `json:"token"`
	GuestName    string     `json:"guest_name"`
	GuestEmail   string     `json:"guest_email"`
	Status       Status     `json:"status"`
	PublicOrigin bool       `json:"public_origin"`
	Visited      bool       `json:"visited"`
	RSVPAt       *time.Time `json:"rsvp_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewInvitation returns a host-issued pending invitation. ID is set by the
// repository on create.
func NewInvitation(eventID, token, guestName, guestEmail string, createdAt time.Time) *Invitation {
	return &Invitation{
		EventID:    eventID,
		Token:      token,
		GuestName:  strings.TrimSpace(guestName),
		GuestEmail: NormalizeEmail(guestEmail),
		Status:     StatusPending,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// NormalizeEmail lower-cases and trims an email address. All comparisons
// and storage use the normalized form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NextStatus applies the reservation state machine to one invitation.
// It returns the resulting status and the delta to apply to the event's
// confirmed counter. seatLeft must reflect capacity at the moment of the
// transition, read in the same transaction that writes the result.
//
// A confirmation request against a full event degrades to waitlisted
// rather than failing; explicit promotion is the only path that turns a
// full event into an error, and that check lives with the caller.
func NextStatus(current, requested Status, seatLeft bool) (Status, int, error) {
	switch requested {
	case StatusConfirmed:
		if current == StatusConfirmed {
			// Idempotent re-submit; the caller still refreshes guest fields.
			return StatusConfirmed, 0, nil
		}
		if !seatLeft {
			return StatusWaitlisted, 0, nil
		}
		return StatusConfirmed, 1, nil
	case StatusDeclining:
		if current == StatusConfirmed {
			return StatusDeclining, -1, nil
		}
		return StatusDeclining, 0, nil
	default:
		return current, 0, ErrInvalidInput
	}
}

// InvitationRepository defines non-transactional invitation reads and the
// bulk create used at event creation. Status-changing writes go through
// ReservationStore.
type InvitationRepository interface {
	CreateBatch(ctx context.Context, invs []*Invitation) error
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	GetByID(ctx context.Context, id string) (*Invitation, error)
	ListByEventID(ctx context.Context, eventID, search string, params PaginationParams) ([]*Invitation, int, error)
	CountByStatus(ctx context.Context, eventID string) (map[Status]int, error)
}
