package domain

import (
	"context"
	"time"
)

// Event represents a hosted event with a guest list.
// SeatLimit <= 0 means unlimited capacity. ConfirmedCount is a denormalized
// count of invitations currently in StatusConfirmed; it is mutated only
// inside reservation transactions.
// swagger:model Event
type Event struct {
	ID             string     `json:"id"`
	HostID         string     `json:"host_id"`
	Name           string     `json:"name"`
	SeatLimit      int        `json:"seat_limit"`
	ConfirmedCount int        `json:"confirmed_count"`
	Date           *time.Time `json:"date,omitempty"`
	Description    *string    `json:"description,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create.
func NewEvent(hostID, name string, seatLimit int, createdAt, updatedAt time.Time) *Event {
	return &Event{
		HostID:    hostID,
		Name:      name,
		SeatLimit: seatLimit,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// HasSeatLeft reports whether the event can take one more confirmed guest.
// Capacity is unlimited when SeatLimit <= 0.
func (e *Event) HasSeatLeft() bool {
	return e.SeatLimit <= 0 || e.ConfirmedCount < e.SeatLimit
}

// EventStats summarizes the RSVP state of an event.
// AvailableSeats is -1 when the event has unlimited capacity.
// swagger:model EventStats
type EventStats struct {
	Confirmed      int `json:"confirmed"`
	Pending        int `json:"pending"`
	Declining      int `json:"declining"`
	Waitlisted     int `json:"waitlisted"`
	TotalSeats     int `json:"total_seats"`
	AvailableSeats int `json:"available_seats"`
}

// EventRepository defines the interface for event storage.
// ConfirmedCount is never written through this interface; only the
// ReservationStore transaction methods may change it.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByHostID(ctx context.Context, hostID string) ([]*Event, error)
	Update(ctx context.Context, eventID string, date *time.Time, description *string, seatLimit *int) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines host-facing event operations.
type EventService interface {
	// CreateEvent creates the event and bulk-issues pending invitations for
	// the given guests, sending an invitation email to each.
	CreateEvent(ctx context.Context, event *Event, guests []GuestInput) (*Event, []*Invitation, error)
	GetEvent(ctx context.Context, eventID, hostID string) (*Event, error)
	ListEventsByHost(ctx context.Context, hostID string) ([]*Event, error)
	UpdateEvent(ctx context.Context, eventID, hostID string, date *time.Time, description *string, seatLimit *int) (*Event, error)
	DeleteEvent(ctx context.Context, eventID, hostID string) error
	// AddGuests issues pending invitations for additional guests on an
	// existing event. Returns the created invitations and the emails that
	// could not be processed.
	AddGuests(ctx context.Context, eventID, hostID string, guests []GuestInput) ([]*Invitation, []string, error)
	ListInvitations(ctx context.Context, eventID, hostID, search string, params PaginationParams) ([]*Invitation, int, error)
}

// GuestInput identifies one guest to invite.
type GuestInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
