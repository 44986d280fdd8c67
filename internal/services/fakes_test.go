package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"guestlist/internal/domain"
)

// fakeReservationStore is an in-memory ReservationStore. InTx holds a mutex
// for the duration of fn, which models the event row lock: concurrent
// transactions on the same store run one at a time. On error every write
// made by fn is rolled back.
type fakeReservationStore struct {
	mu          sync.Mutex
	events      map[string]*domain.Event
	invitations map[string]*domain.Invitation
	nextID      int
	txErr       error
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{
		events:      map[string]*domain.Event{},
		invitations: map[string]*domain.Invitation{},
	}
}

func (s *fakeReservationStore) addEvent(ev *domain.Event) {
	cp := *ev
	s.events[ev.ID] = &cp
}

func (s *fakeReservationStore) addInvitation(inv *domain.Invitation) {
	cp := *inv
	s.invitations[inv.ID] = &cp
}

func (s *fakeReservationStore) event(id string) *domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.events[id]
	return &cp
}

func (s *fakeReservationStore) invitation(id string) *domain.Invitation {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s.invitations[id]
	return &cp
}

func (s *fakeReservationStore) InTx(ctx context.Context, fn func(tx domain.ReservationTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.txErr != nil {
		return s.txErr
	}

	evSnap := make(map[string]*domain.Event, len(s.events))
	for k, v := range s.events {
		cp := *v
		evSnap[k] = &cp
	}
	invSnap := make(map[string]*domain.Invitation, len(s.invitations))
	for k, v := range s.invitations {
		cp := *v
		invSnap[k] = &cp
	}

	if err := fn(s); err != nil {
		s.events = evSnap
		s.invitations = invSnap
		return err
	}
	return nil
}

func (s *fakeReservationStore) GetInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	for _, inv := range s.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeReservationStore) GetInvitationByID(ctx context.Context, id string) (*domain.Invitation, error) {
	inv, ok := s.invitations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (s *fakeReservationStore) GetEventForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	ev, ok := s.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	return &cp, nil
}

func (s *fakeReservationStore) FindActivePublicInvitation(ctx context.Context, eventID, email string) (*domain.Invitation, error) {
	for _, inv := range s.invitations {
		if inv.EventID == eventID && inv.PublicOrigin && inv.GuestEmail == email &&
			(inv.Status == domain.StatusConfirmed || inv.Status == domain.StatusWaitlisted) {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeReservationStore) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	s.nextID++
	inv.ID = fmt.Sprintf("inv-%d", s.nextID)
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}

func (s *fakeReservationStore) UpdateInvitation(ctx context.Context, inv *domain.Invitation) error {
	if _, ok := s.invitations[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	s.invitations[inv.ID] = &cp
	return nil
}

func (s *fakeReservationStore) SetEventConfirmedCount(ctx context.Context, eventID string, count int) error {
	if count < 0 {
		return fmt.Errorf("confirmed count must not be negative, got %d", count)
	}
	ev, ok := s.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	ev.ConfirmedCount = count
	return nil
}

func (s *fakeReservationStore) MarkVisited(ctx context.Context, invitationID string) error {
	inv, ok := s.invitations[invitationID]
	if !ok {
		return domain.ErrNotFound
	}
	inv.Visited = true
	return nil
}

// fakeDispatcher records dispatched notifications for assertions.
type fakeDispatcher struct {
	mu   sync.Mutex
	sent []domain.RSVPNotification
}

func (d *fakeDispatcher) Dispatch(_ context.Context, n domain.RSVPNotification) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
}

func (d *fakeDispatcher) kinds() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	kinds := make([]string, len(d.sent))
	for i, n := range d.sent {
		kinds[i] = n.Kind
	}
	return kinds
}

// fakeEventRepo is an in-memory EventRepository.
type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	nextID int
	err    error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*domain.Event{}}
}

func (r *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	event.ID = fmt.Sprintf("ev-%d", r.nextID)
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	ev, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ev
	return &cp, nil
}

func (r *fakeEventRepo) ListByHostID(ctx context.Context, hostID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []*domain.Event
	for _, ev := range r.events {
		if ev.HostID == hostID {
			cp := *ev
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, eventID string, date *time.Time, description *string, seatLimit *int) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if date != nil {
		ev.Date = date
	}
	if description != nil {
		ev.Description = description
	}
	if seatLimit != nil {
		ev.SeatLimit = *seatLimit
	}
	ev.UpdatedAt = time.Now()
	cp := *ev
	return &cp, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

// fakeInvitationRepo is an in-memory InvitationRepository.
type fakeInvitationRepo struct {
	mu          sync.Mutex
	invitations map[string]*domain.Invitation
	nextID      int
	batchErr    error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{invitations: map[string]*domain.Invitation{}}
}

func (r *fakeInvitationRepo) CreateBatch(ctx context.Context, invs []*domain.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batchErr != nil {
		return r.batchErr
	}
	for _, inv := range invs {
		r.nextID++
		inv.ID = fmt.Sprintf("inv-%d", r.nextID)
		cp := *inv
		r.invitations[inv.ID] = &cp
	}
	return nil
}

func (r *fakeInvitationRepo) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invitations {
		if inv.Token == token {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeInvitationRepo) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invitations[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Invitation
	for _, inv := range r.invitations {
		if inv.EventID != eventID {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeInvitationRepo) CountByStatus(ctx context.Context, eventID string) (map[domain.Status]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.Status]int{}
	for _, inv := range r.invitations {
		if inv.EventID == eventID {
			counts[inv.Status]++
		}
	}
	return counts, nil
}
