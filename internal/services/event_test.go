package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlist/internal/domain"
)

func newTestEventService(eventRepo *fakeEventRepo, invRepo *fakeInvitationRepo, dispatcher *fakeDispatcher) domain.EventService {
	return NewEventService(eventRepo, invRepo, dispatcher, 5*time.Second)
}

func TestEventService_CreateEvent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	invRepo := newFakeInvitationRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestEventService(eventRepo, invRepo, dispatcher)

	guests := []domain.GuestInput{
		{Name: "Ada", Email: "ada@example.com"},
		{Name: "Grace", Email: "GRACE@Example.com"},
		{Name: "No Email", Email: "   "},
	}
	event, invs, err := svc.CreateEvent(context.Background(), domain.NewEvent("h1", " Launch ", 10, time.Time{}, time.Time{}), guests)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "Launch", event.Name)
	assert.Equal(t, 0, event.ConfirmedCount)
	assert.False(t, event.CreatedAt.IsZero())

	// The guest without an email is skipped, not an error.
	require.Len(t, invs, 2)
	tokens := map[string]bool{}
	for _, inv := range invs {
		assert.Equal(t, domain.StatusPending, inv.Status)
		assert.False(t, inv.PublicOrigin)
		assert.NotEmpty(t, inv.ID)
		require.NotEmpty(t, inv.Token)
		tokens[inv.Token] = true
	}
	assert.Len(t, tokens, 2)
	assert.Equal(t, "grace@example.com", invs[1].GuestEmail)
	assert.Equal(t, []string{domain.NotifyInvited, domain.NotifyInvited}, dispatcher.kinds())
}

func TestEventService_CreateEvent_Validation(t *testing.T) {
	svc := newTestEventService(newFakeEventRepo(), newFakeInvitationRepo(), &fakeDispatcher{})

	_, _, err := svc.CreateEvent(context.Background(), domain.NewEvent("h1", "   ", 10, time.Time{}, time.Time{}), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = svc.CreateEvent(context.Background(), domain.NewEvent("", "Launch", 10, time.Time{}, time.Time{}), nil)
	assert.Error(t, err)
}

func TestEventService_GetEvent_Ownership(t *testing.T) {
	eventRepo := newFakeEventRepo()
	ev := &domain.Event{HostID: "h1", Name: "Launch"}
	require.NoError(t, eventRepo.Create(context.Background(), ev))
	svc := newTestEventService(eventRepo, newFakeInvitationRepo(), &fakeDispatcher{})

	got, err := svc.GetEvent(context.Background(), ev.ID, "h1")
	require.NoError(t, err)
	assert.Equal(t, ev.ID, got.ID)

	_, err = svc.GetEvent(context.Background(), ev.ID, "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.GetEvent(context.Background(), "missing", "h1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_UpdateEvent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	ev := &domain.Event{HostID: "h1", Name: "Launch", SeatLimit: 10}
	require.NoError(t, eventRepo.Create(context.Background(), ev))
	svc := newTestEventService(eventRepo, newFakeInvitationRepo(), &fakeDispatcher{})

	newLimit := 5
	updated, err := svc.UpdateEvent(context.Background(), ev.ID, "h1", nil, nil, &newLimit)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.SeatLimit)

	_, err = svc.UpdateEvent(context.Background(), ev.ID, "intruder", nil, nil, &newLimit)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestEventService_DeleteEvent(t *testing.T) {
	eventRepo := newFakeEventRepo()
	ev := &domain.Event{HostID: "h1", Name: "Launch"}
	require.NoError(t, eventRepo.Create(context.Background(), ev))
	svc := newTestEventService(eventRepo, newFakeInvitationRepo(), &fakeDispatcher{})

	require.ErrorIs(t, svc.DeleteEvent(context.Background(), ev.ID, "intruder"), domain.ErrForbidden)
	require.NoError(t, svc.DeleteEvent(context.Background(), ev.ID, "h1"))
	assert.ErrorIs(t, svc.DeleteEvent(context.Background(), ev.ID, "h1"), domain.ErrNotFound)
}

func TestEventService_AddGuests(t *testing.T) {
	eventRepo := newFakeEventRepo()
	invRepo := newFakeInvitationRepo()
	dispatcher := &fakeDispatcher{}
	ev := &domain.Event{HostID: "h1", Name: "Launch"}
	require.NoError(t, eventRepo.Create(context.Background(), ev))
	svc := newTestEventService(eventRepo, invRepo, dispatcher)

	invs, failed, err := svc.AddGuests(context.Background(), ev.ID, "h1", []domain.GuestInput{
		{Name: "Ada", Email: "ada@example.com"},
	})
	require.NoError(t, err)
	assert.Empty(t, failed)
	require.Len(t, invs, 1)
	assert.Equal(t, domain.StatusPending, invs[0].Status)
	assert.Equal(t, []string{domain.NotifyInvited}, dispatcher.kinds())

	_, _, err = svc.AddGuests(context.Background(), ev.ID, "intruder", []domain.GuestInput{{Name: "X", Email: "x@example.com"}})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, _, err = svc.AddGuests(context.Background(), "missing", "h1", []domain.GuestInput{{Name: "X", Email: "x@example.com"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListInvitations(t *testing.T) {
	eventRepo := newFakeEventRepo()
	invRepo := newFakeInvitationRepo()
	ev := &domain.Event{HostID: "h1", Name: "Launch"}
	require.NoError(t, eventRepo.Create(context.Background(), ev))
	require.NoError(t, invRepo.CreateBatch(context.Background(), []*domain.Invitation{
		{EventID: ev.ID, GuestName: "Ada", GuestEmail: "ada@example.com", Status: domain.StatusPending},
		{EventID: ev.ID, GuestName: "Grace", GuestEmail: "grace@example.com", Status: domain.StatusConfirmed},
	}))
	svc := newTestEventService(eventRepo, invRepo, &fakeDispatcher{})

	invs, total, err := svc.ListInvitations(context.Background(), ev.ID, "h1", "", domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, invs, 2)

	_, _, err = svc.ListInvitations(context.Background(), ev.ID, "intruder", "", domain.PaginationParams{Page: 1, PageSize: 20})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
