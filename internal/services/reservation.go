package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guestlist/internal/domain"
)

type reservationService struct {
	store          domain.ReservationStore
	invitationRepo domain.InvitationRepository
	eventRepo      domain.EventRepository
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
}

// NewReservationService creates the guest-facing reservation engine.
func NewReservationService(
	store domain.ReservationStore,
	invitationRepo domain.InvitationRepository,
	eventRepo domain.EventRepository,
	dispatcher domain.NotificationDispatcher,
	timeout time.Duration,
) domain.ReservationService {
	return &reservationService{
		store:          store,
		invitationRepo: invitationRepo,
		eventRepo:      eventRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *reservationService) ResolveByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var inv *domain.Invitation
	err := s.store.InTx(ctx, func(tx domain.ReservationTx) error {
		var err error
		inv, err = tx.GetInvitationByToken(ctx, token)
		if err != nil {
			return err
		}
		if !inv.Visited {
			if err := tx.MarkVisited(ctx, inv.ID); err != nil {
				return fmt.Errorf("mark visited: %w", err)
			}
			inv.Visited = true
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("resolve invitation: %w", err)
	}
	return inv, nil
}

func (s *reservationService) SubmitRSVP(ctx context.Context, token, guestName, guestEmail string, requested domain.Status) (*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if requested != domain.StatusConfirmed && requested != domain.StatusDeclining {
		return nil, domain.ErrInvalidInput
	}
	guestName = strings.TrimSpace(guestName)
	guestEmail = domain.NormalizeEmail(guestEmail)
	if guestName == "" || guestEmail == "" {
		return nil, domain.ErrInvalidInput
	}

	var inv *domain.Invitation
	var eventName string
	err := s.store.InTx(ctx, func(tx domain.ReservationTx) error {
		var err error
		inv, err = tx.GetInvitationByToken(ctx, token)
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
		eventName = event.Name

		// Capacity is evaluated here, against the row-locked counter, so
		// the check and the write commit together.
		next, delta, err := domain.NextStatus(inv.Status, requested, event.HasSeatLeft())
		if err != nil {
			return err
		}

		now := time.Now()
		inv.GuestName = guestName
		inv.GuestEmail = guestEmail
		inv.Status = next
		inv.RSVPAt = &now
		inv.UpdatedAt = now
		if err := tx.UpdateInvitation(ctx, inv); err != nil {
			return fmt.Errorf("update invitation: %w", err)
		}

		if delta != 0 {
			count := event.ConfirmedCount + delta
			if count < 0 {
				count = 0
			}
			if err := tx.SetEventConfirmedCount(ctx, event.ID, count); err != nil {
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

func (s *reservationService) GetEventStats(ctx context.Context, eventID string) (*domain.EventStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	counts, err := s.invitationRepo.CountByStatus(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count invitations: %w", err)
	}

	available := -1
	if event.SeatLimit > 0 {
		available = event.SeatLimit - event.ConfirmedCount
		if available < 0 {
			available = 0
		}
	}
	return &domain.EventStats{
		Confirmed:      event.ConfirmedCount,
		Pending:        counts[domain.StatusPending],
		Declining:      counts[domain.StatusDeclining],
		Waitlisted:     counts[domain.StatusWaitlisted],
		TotalSeats:     event.SeatLimit,
		AvailableSeats: available,
	}, nil
}

func notifyKindForStatus(status domain.Status) string {
	switch status {
	case domain.StatusConfirmed:
		return domain.NotifyConfirmed
	case domain.StatusWaitlisted:
		return domain.NotifyWaitlisted
	default:
		return domain.NotifyDeclined
	}
}
