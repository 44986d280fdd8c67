package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"guestlist/internal/domain"
)

// maxTxAttempts bounds the automatic retry loop for transactions that
// fail on a write conflict with a concurrent caller.
const maxTxAttempts = 3

type reservationStore struct {
	DB *sql.DB
}

// NewReservationStore returns a ReservationStore backed by Postgres.
// Row locks (SELECT ... FOR UPDATE) on the event row serialize concurrent
// transactions for the same event; serialization failures and deadlocks
// are retried up to maxTxAttempts before surfacing domain.ErrConflict.
func NewReservationStore(db *sql.DB) domain.ReservationStore {
	return &reservationStore{DB: db}
}

func (s *reservationStore) InTx(ctx context.Context, fn func(tx domain.ReservationTx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if !isRetryable(err) {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("%w (after %d attempts): %v", domain.ErrConflict, maxTxAttempts, lastErr)
}

func (s *reservationStore) runOnce(ctx context.Context, fn func(tx domain.ReservationTx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&reservationTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// isRetryable reports whether the error is a Postgres serialization
// failure (40001) or deadlock (40P01), both safe to retry from a fresh
// snapshot.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

type reservationTx struct {
	tx *sql.Tx
}

func (t *reservationTx) GetInvitationByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE token = $1
		FOR UPDATE
	`
	inv, err := scanInvitation(t.tx.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (t *reservationTx) GetInvitationByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE id = $1
		FOR UPDATE
	`
	inv, err := scanInvitation(t.tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (t *reservationTx) GetEventForUpdate(ctx context.Context, eventID string) (*domain.Event, error) {
	query := `
		SELECT id, host_id, name, seat_limit, confirmed_count, date, description, created_at, updated_at
		FROM events
		WHERE id = $1
		FOR UPDATE
	`
	e := &domain.Event{}
	var dateNull sql.NullTime
	var descNull sql.NullString
	err := t.tx.QueryRowContext(ctx, query, eventID).Scan(
		&e.ID, &e.HostID, &e.Name, &e.SeatLimit, &e.ConfirmedCount,
		&dateNull, &descNull, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if dateNull.Valid {
		e.Date = &dateNull.Time
	}
	if descNull.Valid {
		e.Description = &descNull.String
	}
	return e, nil
}

func (t *reservationTx) FindActivePublicInvitation(ctx context.Context, eventID, email string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE event_id = $1 AND guest_email = $2 AND public_origin = true
		  AND status IN ('confirmed', 'waitlisted')
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`
	inv, err := scanInvitation(t.tx.QueryRowContext(ctx, query, eventID, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (t *reservationTx) CreateInvitation(ctx context.Context, inv *domain.Invitation) error {
	query := `
		INSERT INTO invitations (event_id, token, guest_name, guest_email, status, public_origin, visited, rsvp_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	return t.tx.QueryRowContext(ctx, query,
		inv.EventID, inv.Token, inv.GuestName, inv.GuestEmail, inv.Status,
		inv.PublicOrigin, inv.Visited, inv.RSVPAt, inv.CreatedAt, inv.UpdatedAt,
	).Scan(&inv.ID)
}

func (t *reservationTx) UpdateInvitation(ctx context.Context, inv *domain.Invitation) error {
	query := `
		UPDATE invitations
		SET guest_name = $2, guest_email = $3, status = $4, visited = $5, rsvp_at = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query,
		inv.ID, inv.GuestName, inv.GuestEmail, inv.Status, inv.Visited, inv.RSVPAt, inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *reservationTx) SetEventConfirmedCount(ctx context.Context, eventID string, count int) error {
	if count < 0 {
		return fmt.Errorf("confirmed count must not be negative, got %d", count)
	}
	query := `
		UPDATE events
		SET confirmed_count = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query, eventID, count)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *reservationTx) MarkVisited(ctx context.Context, invitationID string) error {
	query := `
		UPDATE invitations
		SET visited = true, updated_at = NOW()
		WHERE id = $1
	`
	result, err := t.tx.ExecContext(ctx, query, invitationID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
