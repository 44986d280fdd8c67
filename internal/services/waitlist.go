package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"guestlist/internal/domain"
)

type waitlistService struct {
	store          domain.ReservationStore
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
}

// NewWaitlistService creates the host-facing waitlist manager.
func NewWaitlistService(store domain.ReservationStore, dispatcher domain.NotificationDispatcher, timeout time.Duration) domain.WaitlistService {
	return &waitlistService{
		store:          store,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *waitlistService) Promote(ctx context.Context, invitationID, eventID, hostID string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var inv *domain.Invitation
	var eventName string
	err := s.store.InTx(ctx, func(tx domain.ReservationTx) error {
		var err error
		inv, err = tx.GetInvitationByID(ctx, invitationID)
		if err != nil {
			return err
		}
		if inv.EventID != eventID {
			return domain.ErrNotFound
		}
		event, err := tx.GetEventForUpdate(ctx, inv.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.HostID != hostID {
			return domain.ErrForbidden
		}
		eventName = event.Name

		if inv.Status != domain.StatusWaitlisted {
			return fmt.Errorf("%w (current status: %s)", domain.ErrNotWaitlisted, inv.Status)
		}
		// An explicit promotion against a full event is a host-visible
		// error, not a silent re-waitlist.
		if !event.HasSeatLeft() {
			return domain.ErrCapacityFull
		}

		now := time.Now()
		inv.Status = domain.StatusConfirmed
		inv.RSVPAt = &now
		inv.UpdatedAt = now
		if err := tx.UpdateInvitation(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		if err := tx.SetEventConfirmedCount(ctx, event.ID, event.ConfirmedCount+1); err != nil {
			return fmt.Errorf("set confirmed count: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, domain.RSVPNotification{
		Kind:         domain.NotifyPromoted,
		InvitationID: inv.ID,
		EventID:      inv.EventID,
		EventName:    eventName,
		GuestName:    inv.GuestName,
		GuestEmail:   inv.GuestEmail,
		Status:       inv.Status,
		Token:        inv.Token,
	})
	return inv, nil
}

func (s *waitlistService) Decline(ctx context.Context, invitationID, hostID string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var inv *domain.Invitation
	var eventName string
	err := s.store.InTx(ctx, func(tx domain.ReservationTx) error {
		var err error
		inv, err = tx.GetInvitationByID(ctx, invitationID)
		if err != nil {
			return err
		}
		event, err := tx.GetEventForUpdate(ctx, inv.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		if event.HostID != hostID {
			return domain.ErrForbidden
		}
		eventName = event.Name

		if inv.Status != domain.StatusWaitlisted {
			return fmt.Errorf("%w (current status: %s)", domain.ErrNotWaitlisted, inv.Status)
		}

		// Declining a waitlisted guest never touches the confirmed counter.
		now := time.Now()
		inv.Status = domain.StatusDeclining
		inv.RSVPAt = &now
		inv.UpdatedAt = now
		if err := tx.UpdateInvitation(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, domain.RSVPNotification{
		Kind:         domain.NotifyDeclined,
		InvitationID: inv.ID,
		EventID:      inv.EventID,
		EventName:    eventName,
		GuestName:    inv.GuestName,
		GuestEmail:   inv.GuestEmail,
		Status:       inv.Status,
		Token:        inv.Token,
	})
	return inv, nil
}
