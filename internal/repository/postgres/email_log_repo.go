package postgres

import (
	"context"
	"database/sql"

	"guestlist/internal/domain"
)

type emailLogRepository struct {
	DB *sql.DB
}

func NewEmailLogRepository(db *sql.DB) domain.EmailLogRepository {
	return &emailLogRepository{
		DB: db,
	}
}

func (r *emailLogRepository) Create(ctx context.Context, log *domain.EmailLog) error {
	query := `
		INSERT INTO email_logs (invitation_id, event_id, recipient, kind, delivered, error, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		log.InvitationID, log.EventID, log.Recipient, log.Kind, log.Delivered, log.Error, log.SentAt,
	).Scan(&log.ID)
}

func (r *emailLogRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.EmailLog, error) {
	query := `
		SELECT id, invitation_id, event_id, recipient, kind, delivered, error, sent_at
		FROM email_logs
		WHERE event_id = $1
		ORDER BY sent_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.EmailLog, 0)
	for rows.Next() {
		l := &domain.EmailLog{}
		var errNull sql.NullString
		if err := rows.Scan(&l.ID, &l.InvitationID, &l.EventID, &l.Recipient, &l.Kind, &l.Delivered, &errNull, &l.SentAt); err != nil {
			return nil, err
		}
		if errNull.Valid {
			l.Error = &errNull.String
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
