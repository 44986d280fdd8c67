package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"guestlist/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	invitationRepo domain.InvitationRepository
	dispatcher     domain.NotificationDispatcher
	contextTimeout time.Duration
}

// NewEventService creates the host-facing event and guest-list service.
func NewEventService(
	eventRepo domain.EventRepository,
	invitationRepo domain.InvitationRepository,
	dispatcher domain.NotificationDispatcher,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		invitationRepo: invitationRepo,
		dispatcher:     dispatcher,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, guests []domain.GuestInput) (*domain.Event, []*domain.Invitation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if event.HostID == "" {
		return nil, nil, fmt.Errorf("event host is required")
	}
	event.Name = strings.TrimSpace(event.Name)
	if event.Name == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	event.ConfirmedCount = 0

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, nil, fmt.Errorf("create event: %w", err)
	}

	invs, _, err := s.issueInvitations(ctx, event, guests)
	if err != nil {
		return nil, nil, err
	}
	return event, invs, nil
}

func (s *eventService) GetEvent(ctx context.Context, eventID, hostID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

func (s *eventService) ListEventsByHost(ctx context.Context, hostID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.ListByHostID(ctx, hostID)
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID, hostID string, date *time.Time, description *string, seatLimit *int) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, domain.ErrForbidden
	}
	updated, err := s.eventRepo.Update(ctx, eventID, date, description, seatLimit)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, hostID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return domain.ErrForbidden
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) AddGuests(ctx context.Context, eventID, hostID string, guests []domain.GuestInput) ([]*domain.Invitation, []string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrNotFound
		}
		return nil, nil, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, nil, domain.ErrForbidden
	}
	return s.issueInvitations(ctx, event, guests)
}

// issueInvitations creates pending invitations for the given guests and
// dispatches an invitation email for each. Guests with an unusable email
// are skipped and reported back in failed.
func (s *eventService) issueInvitations(ctx context.Context, event *domain.Event, guests []domain.GuestInput) (invs []*domain.Invitation, failed []string, err error) {
	now := time.Now()
	invs = make([]*domain.Invitation, 0, len(guests))
	for _, g := range guests {
		email := domain.NormalizeEmail(g.Email)
		if email == "" {
			continue
		}
		token, err := newInvitationToken()
		if err != nil {
			failed = append(failed, email)
			continue
		}
		invs = append(invs, domain.NewInvitation(event.ID, token, g.Name, email, now))
	}
	if err := s.invitationRepo.CreateBatch(ctx, invs); err != nil {
		return nil, nil, fmt.Errorf("create invitations: %w", err)
	}

	for _, inv := range invs {
		s.dispatcher.Dispatch(ctx, domain.RSVPNotification{
			Kind:         domain.NotifyInvited,
			InvitationID: inv.ID,
			EventID:      event.ID,
			EventName:    event.Name,
			GuestName:    inv.GuestName,
			GuestEmail:   inv.GuestEmail,
			Status:       inv.Status,
			Token:        inv.Token,
		})
	}
	return invs, failed, nil
}

func (s *eventService) ListInvitations(ctx context.Context, eventID, hostID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.HostID != hostID {
		return nil, 0, domain.ErrForbidden
	}
	invs, total, err := s.invitationRepo.ListByEventID(ctx, eventID, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list invitations: %w", err)
	}
	if invs == nil {
		invs = []*domain.Invitation{}
	}
	return invs, total, nil
}
