package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"guestlist/internal/domain"
)

var intakeEmailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type intakeService struct {
	store          domain.ReservationStore
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
}

// NewIntakeService creates the self-service sign-up path. It guards
// against duplicate active reservations for the same event and email.
func NewIntakeService(store domain.ReservationStore, dispatcher domain.NotificationDispatcher, timeout time.Duration) domain.PublicIntakeService {
	return &intakeService{
		store:          store,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *intakeService) SubmitPublicIntake(ctx context.Context, eventID, guestName, guestEmail string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guestName = strings.TrimSpace(guestName)
	guestEmail = domain.NormalizeEmail(guestEmail)
	if guestName == "" || !intakeEmailRegexp.MatchString(guestEmail) {
		return nil, domain.ErrInvalidInput
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, err
	}

	var inv *domain.Invitation
	var eventName string
	err = s.store.InTx(ctx, func(tx domain.ReservationTx) error {
		// The event row lock serializes concurrent intakes for the same
		// event: the duplicate check and the capacity decision below both
		// commit with the insert or not at all.
		event, err := tx.GetEventForUpdate(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrEventNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		eventName = event.Name

		existing, err := tx.FindActivePublicInvitation(ctx, eventID, guestEmail)
		if err == nil {
			return fmt.Errorf("%w (current status: %s)", domain.ErrDuplicateRSVP, existing.Status)
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("find active invitation: %w", err)
		}

		status := domain.StatusConfirmed
		if !event.HasSeatLeft() {
			status = domain.StatusWaitlisted
		}

		now := time.Now()
		inv = &domain.Invitation{
			EventID:      eventID,
			Token:        token,
			GuestName:    guestName,
			GuestEmail:   guestEmail,
			Status:       status,
			PublicOrigin: true,
			RSVPAt:       &now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.CreateInvitation(ctx, inv); err != nil {
			return fmt.Errorf("create invitation: %w", err)
		}
		if status == domain.StatusConfirmed {
			if err := tx.SetEventConfirmedCount(ctx, event.ID, event.ConfirmedCount+1); err != nil {
				return fmt.Errorf("set confirmed count: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(ctx, domain.RSVPNotification{
		Kind:         notifyKindForStatus(inv.Status),
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
