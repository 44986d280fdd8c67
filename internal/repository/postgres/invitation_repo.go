package postgres

import (
	"context"
	"database/sql"
	"errors"

	"guestlist/internal/domain"
)

type invitationRepository struct {
	DB *sql.DB
}

func NewInvitationRepository(db *sql.DB) domain.InvitationRepository {
	return &invitationRepository{
		DB: db,
	}
}

const invitationColumns = `id, event_id, token, guest_name, guest_email, status, public_origin, visited, rsvp_at, created_at, updated_at`

func scanInvitation(row interface{ Scan(dest ...any) error }) (*domain.Invitation, error) {
	inv := &domain.Invitation{}
	var rsvpAt sql.NullTime
	err := row.Scan(
		&inv.ID, &inv.EventID, &inv.Token, &inv.GuestName, &inv.GuestEmail,
		&inv.Status, &inv.PublicOrigin, &inv.Visited, &rsvpAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rsvpAt.Valid {
		inv.RSVPAt = &rsvpAt.Time
	}
	return inv, nil
}

func (r *invitationRepository) CreateBatch(ctx context.Context, invs []*domain.Invitation) error {
	if len(invs) == 0 {
		return nil
	}
	query := `
		INSERT INTO invitations (event_id, token, guest_name, guest_email, status, public_origin, visited, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)
		RETURNING id
	`
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, inv := range invs {
		if err := tx.QueryRowContext(ctx, query,
			inv.EventID, inv.Token, inv.GuestName, inv.GuestEmail, inv.Status,
			inv.PublicOrigin, inv.CreatedAt, inv.UpdatedAt,
		).Scan(&inv.ID); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *invitationRepository) GetByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE token = $1
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE id = $1
	`
	inv, err := scanInvitation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *invitationRepository) ListByEventID(ctx context.Context, eventID, search string, params domain.PaginationParams) ([]*domain.Invitation, int, error) {
	pattern := "%" + search + "%"
	countQuery := `
		SELECT COUNT(*)
		FROM invitations
		WHERE event_id = $1 AND ($2 = '' OR guest_name ILIKE $3 OR guest_email ILIKE $3)
	`
	var total int
	if err := r.DB.QueryRowContext(ctx, countQuery, eventID, search, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + invitationColumns + `
		FROM invitations
		WHERE event_id = $1 AND ($2 = '' OR guest_name ILIKE $3 OR guest_email ILIKE $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, search, pattern, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	invs := make([]*domain.Invitation, 0)
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, 0, err
		}
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invs, total, nil
}

func (r *invitationRepository) CountByStatus(ctx context.Context, eventID string) (map[domain.Status]int, error) {
	query := `
		SELECT status, COUNT(*)
		FROM invitations
		WHERE event_id = $1
		GROUP BY status
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}
