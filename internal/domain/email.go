package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// Notification kinds, one per lifecycle transition a guest should hear
// about. The kind selects the email template.
const (
	NotifyInvited    = "invited"
	NotifyConfirmed  = "confirmed"
	NotifyWaitlisted = "waitlisted"
	NotifyPromoted   = "promoted"
	NotifyDeclined   = "declined"
)

// RSVPNotification carries everything the dispatcher needs to produce a
// guest-facing message without re-querying the store.
type RSVPNotification struct {
	Kind         string
	InvitationID string
	EventID      string
	EventName    string
	GuestName    string
	GuestEmail   string
	Status       Status
	Token        string
}

// NotificationDispatcher sends lifecycle messages to guests. Dispatch must
// not block the caller on delivery; failures are recorded, not returned.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, n RSVPNotification)
}

// EmailLog records one notification attempt for an invitation.
// swagger:model EmailLog
type EmailLog struct {
	ID           string    `json:"id"`
	InvitationID string    `json:"invitation_id"`
	EventID      string    `json:"event_id"`
	Recipient    string    `json:"recipient"`
	Kind         string    `json:"kind"`
	Delivered    bool      `json:"delivered"`
	Error        *string   `json:"error,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

// EmailLogRepository defines storage for notification attempts. The
// reservation engine never writes these; only the dispatcher does.
type EmailLogRepository interface {
	Create(ctx context.Context, log *EmailLog) error
	ListByEventID(ctx context.Context, eventID string) ([]*EmailLog, error)
}
