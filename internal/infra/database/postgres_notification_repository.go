// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rent_reminder_service/internal/domain/notification"
)

// ErrDuplicateNotification is returned when a record with the same dedup key exists.
var ErrDuplicateNotification = errors.New("notification already recorded for this recipient, kind, title and day")

const pqUniqueViolation = "23505"

type PostgresNotificationRepository struct {
	db *sqlx.DB
}

func NewPostgresNotificationRepository(db *sqlx.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) Create(ctx context.Context, rec *notification.Record) error {
	query := `INSERT INTO notifications (user_id, title, message, type, is_read, dedup_key)
               VALUES ($1, $2, $3, $4, $5, $6)
               ON CONFLICT (dedup_key) DO NOTHING
               RETURNING id, created_at`
	err := r.db.QueryRowxContext(ctx, query,
		rec.RecipientProfileID, rec.Title, rec.Message, rec.Kind, rec.Read, rec.DedupKey,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		// DO NOTHING returns no row on conflict.
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDuplicateNotification
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateNotification
		}
		return fmt.Errorf("error creating notification: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) ListCreatedSince(ctx context.Context, recipient uuid.UUID, kind notification.Kind, title string, since time.Time) ([]*notification.Record, error) {
	query := `SELECT id, user_id, title, message, type, is_read, COALESCE(dedup_key, '') AS dedup_key, created_at
               FROM notifications
               WHERE user_id = $1 AND type = $2 AND title = $3 AND created_at >= $4
               ORDER BY created_at DESC`
	records := make([]*notification.Record, 0)
	if err := r.db.SelectContext(ctx, &records, query, recipient, kind, title, since); err != nil {
		return nil, fmt.Errorf("error listing notifications for %s since %s: %w", recipient, since.Format(time.RFC3339), err)
	}
	return records, nil
}
