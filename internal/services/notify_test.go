package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlist/internal/domain"
)

type sentMail struct {
	to      string
	subject string
	html    string
	text    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, html: html, text: text})
	return nil
}

type fakeRenderer struct {
	err error
}

func (r *fakeRenderer) Render(templateName string, data any) (string, string, string, error) {
	if r.err != nil {
		return "", "", "", r.err
	}
	return "subject:" + templateName, "<p>" + templateName + "</p>", templateName, nil
}

type fakeEmailLogRepo struct {
	mu   sync.Mutex
	logs []*domain.EmailLog
}

func (r *fakeEmailLogRepo) Create(ctx context.Context, log *domain.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *log
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *fakeEmailLogRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EmailLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logs, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_Dispatch(t *testing.T) {
	mailer := &fakeMailer{}
	logs := &fakeEmailLogRepo{}
	d := NewDispatcher(mailer, &fakeRenderer{}, logs, discardLogger(), "https://rsvp.example.com", time.Second)

	d.Dispatch(context.Background(), domain.RSVPNotification{
		Kind:         domain.NotifyConfirmed,
		InvitationID: "i1",
		EventID:      "e1",
		EventName:    "Launch",
		GuestName:    "Ada",
		GuestEmail:   "ada@example.com",
		Status:       domain.StatusConfirmed,
		Token:        "tok1",
	})
	d.Wait()

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].to)
	assert.Equal(t, "subject:confirmed", mailer.sent[0].subject)

	require.Len(t, logs.logs, 1)
	entry := logs.logs[0]
	assert.Equal(t, "i1", entry.InvitationID)
	assert.Equal(t, domain.NotifyConfirmed, entry.Kind)
	assert.True(t, entry.Delivered)
	assert.Nil(t, entry.Error)
}

func TestDispatcher_Dispatch_SendFailureIsRecorded(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	logs := &fakeEmailLogRepo{}
	d := NewDispatcher(mailer, &fakeRenderer{}, logs, discardLogger(), "https://rsvp.example.com", time.Second)

	d.Dispatch(context.Background(), domain.RSVPNotification{
		Kind:       domain.NotifyWaitlisted,
		GuestEmail: "ada@example.com",
	})
	d.Wait()

	require.Len(t, logs.logs, 1)
	assert.False(t, logs.logs[0].Delivered)
	require.NotNil(t, logs.logs[0].Error)
	assert.Contains(t, *logs.logs[0].Error, "smtp down")
}

func TestDispatcher_Dispatch_RenderFailureIsRecorded(t *testing.T) {
	mailer := &fakeMailer{}
	logs := &fakeEmailLogRepo{}
	d := NewDispatcher(mailer, &fakeRenderer{err: errors.New("missing template")}, logs, discardLogger(), "https://rsvp.example.com", time.Second)

	d.Dispatch(context.Background(), domain.RSVPNotification{
		Kind:       domain.NotifyInvited,
		GuestEmail: "ada@example.com",
	})
	d.Wait()

	assert.Empty(t, mailer.sent)
	require.Len(t, logs.logs, 1)
	assert.False(t, logs.logs[0].Delivered)
}
