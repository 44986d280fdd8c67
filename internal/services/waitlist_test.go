package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guestlist/internal/domain"
)

func newTestWaitlistService(store *fakeReservationStore, dispatcher *fakeDispatcher) domain.WaitlistService {
	return NewWaitlistService(store, dispatcher, 5*time.Second)
}

func TestWaitlistService_Promote(t *testing.T) {
	store := newFakeReservationStore()
	store.addEvent(&domain.Event{ID: "e1", HostID: "h1", Name: "Launch", SeatLimit: 2, ConfirmedCount: 1})
	store.addInvitation(&domain.Invitation{ID: "i1", EventID: "e1", Token: "tok1", Status: domain.StatusWaitlisted})
	dispatcher := &fakeDispatcher{}
	svc := newTestWaitlistService(store, dispatcher)

	inv, err := svc.Promote(context.Background(), "i1", "e1", "h1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, inv.Status)
	require.NotNil(t, inv.RSVPAt)
	assert.Equal(t, 2, store.event("e1").ConfirmedCount)
	assert.Equal(t, []string{domain.NotifyPromoted}, dispatcher.kinds())
}

func TestWaitlistService_Promote_Guards(t *testing.T) {
	tests := []struct {
		name           string
		status         domain.Status
		seatLimit      int
		confirmedCount int
		invitationID   string
		eventID        string
		hostID         string
		wantErr        error
	}{
		{
			name:         "full event is an explicit error",
			status:       domain.StatusWaitlisted,
			seatLimit:    1, confirmedCount: 1,
			invitationID: "i1", eventID: "e1", hostID: "h1",
			wantErr: domain.ErrCapacityFull,
		},
		{
			name:         "pending invitation cannot be promoted",
			status:       domain.StatusPending,
			seatLimit:    5,
			invitationID: "i1", eventID: "e1", hostID: "h1",
			wantErr: domain.ErrNotWaitlisted,
		},
		{
			name:         "already confirmed cannot be promoted",
			status:       domain.StatusConfirmed,
			seatLimit:    5, confirmedCount: 1,
			invitationID: "i1", eventID: "e1", hostID: "h1",
			wantErr: domain.ErrNotWaitlisted,
		},
		{
			name:         "wrong event reference",
			status:       domain.StatusWaitlisted,
			seatLimit:    5,
			invitationID: "i1", eventID: "other", hostID: "h1",
			wantErr: domain.ErrNotFound,
		},
		{
			name:         "unknown invitation",
			status:       domain.StatusWaitlisted,
			seatLimit:    5,
			invitationID: "missing", eventID: "e1", hostID: "h1",
			wantErr: domain.ErrNotFound,
		},
		{
			name:         "host does not own the event",
			status:       domain.StatusWaitlisted,
			seatLimit:    5,
			invitationID: "i1", eventID: "e1", hostID: "intruder",
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeReservationStore()
			store.addEvent(&domain.Event{ID: "e1", HostID: "h1", Name: "Launch", SeatLimit: tt.seatLimit, ConfirmedCount: tt.confirmedCount})
			store.addInvitation(&domain.Invitation{ID: "i1", EventID: "e1", Token: "tok1", Status: tt.status})
			dispatcher := &fakeDispatcher{}
			svc := newTestWaitlistService(store, dispatcher)

			_, err := svc.Promote(context.Background(), tt.invitationID, tt.eventID, tt.hostID)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.confirmedCount, store.event("e1").ConfirmedCount)
			assert.Empty(t, dispatcher.kinds())
		})
	}
}

func TestWaitlistService_Decline(t *testing.T) {
	store := newFakeReservationStore()
	store.addEvent(&domain.Event{ID: "e1", HostID: "h1", Name: "Launch", SeatLimit: 1, ConfirmedCount: 1})
	store.addInvitation(&domain.Invitation{ID: "i1", EventID: "e1", Token: "tok1", Status: domain.StatusWaitlisted})
	dispatcher := &fakeDispatcher{}
	svc := newTestWaitlistService(store, dispatcher)

	inv, err := svc.Decline(context.Background(), "i1", "h1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDeclining, inv.Status)
	// Declining off the waitlist never frees or takes a seat.
	assert.Equal(t, 1, store.event("e1").ConfirmedCount)
	assert.Equal(t, []string{domain.NotifyDeclined}, dispatcher.kinds())
}

func TestWaitlistService_Decline_Guards(t *testing.T) {
	store := newFakeReservationStore()
	store.addEvent(&domain.Event{ID: "e1", HostID: "h1", Name: "Launch", SeatLimit: 1})
	store.addInvitation(&domain.Invitation{ID: "i1", EventID: "e1", Token: "tok1", Status: domain.StatusConfirmed})
	svc := newTestWaitlistService(store, &fakeDispatcher{})

	_, err := svc.Decline(context.Background(), "i1", "h1")
	assert.ErrorIs(t, err, domain.ErrNotWaitlisted)

	_, err = svc.Decline(context.Background(), "i1", "intruder")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Decline(context.Background(), "missing", "h1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
