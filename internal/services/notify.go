package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"guestlist/internal/domain"
)

// Dispatcher sends guest-facing lifecycle emails. Delivery runs on its own
// goroutine with a fresh timeout so reservation transactions never block
// on the mail provider; every attempt is recorded as an EmailLog row.
type Dispatcher struct {
	mailer      domain.Mailer
	renderer    domain.EmailTemplateRenderer
	emailLogs   domain.EmailLogRepository
	logger      *slog.Logger
	rsvpBaseURL string
	sendTimeout time.Duration

	wg sync.WaitGroup
}

// NewDispatcher returns a NotificationDispatcher. rsvpBaseURL is the
// public base URL of the service; RSVP links are built as
// rsvpBaseURL/rsvp/{token}.
func NewDispatcher(
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	emailLogs domain.EmailLogRepository,
	logger *slog.Logger,
	rsvpBaseURL string,
	sendTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		renderer:    renderer,
		emailLogs:   emailLogs,
		logger:      logger,
		rsvpBaseURL: rsvpBaseURL,
		sendTimeout: sendTimeout,
	}
}

// notificationEmailData is the template payload for every lifecycle email.
type notificationEmailData struct {
	GuestName string
	EventName string
	Status    string
	RSVPLink  string
}

// Dispatch sends the notification asynchronously. It never returns an
// error to the caller; failures are logged and recorded.
func (d *Dispatcher) Dispatch(_ context.Context, n domain.RSVPNotification) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		// Detached from the request context: the reservation already
		// committed, so delivery proceeds even if the caller went away.
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		defer cancel()
		d.deliver(ctx, n)
	}()
}

// Wait blocks until all dispatched notifications have been processed.
// Used by tests and graceful shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.RSVPNotification) {
	data := notificationEmailData{
		GuestName: n.GuestName,
		EventName: n.EventName,
		Status:    string(n.Status),
		RSVPLink:  fmt.Sprintf("%s/rsvp/%s", d.rsvpBaseURL, n.Token),
	}

	var sendErr error
	subject, htmlBody, textBody, err := d.renderer.Render(n.Kind, data)
	if err != nil {
		sendErr = fmt.Errorf("render %s template: %w", n.Kind, err)
	} else {
		sendErr = d.mailer.Send(n.GuestEmail, subject, htmlBody, textBody)
	}

	log := &domain.EmailLog{
		InvitationID: n.InvitationID,
		EventID:      n.EventID,
		Recipient:    n.GuestEmail,
		Kind:         n.Kind,
		Delivered:    sendErr == nil,
		SentAt:       time.Now(),
	}
	if sendErr != nil {
		msg := sendErr.Error()
		log.Error = &msg
		d.logger.Error("notification delivery failed",
			"kind", n.Kind,
			"invitation_id", n.InvitationID,
			"err", sendErr,
		)
	}
	if err := d.emailLogs.Create(ctx, log); err != nil {
		d.logger.Error("record email log failed",
			"kind", n.Kind,
			"invitation_id", n.InvitationID,
			"err", err,
		)
	}
}
