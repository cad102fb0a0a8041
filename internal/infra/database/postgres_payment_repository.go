package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rent_reminder_service/internal/domain/payment"
)

type PostgresPaymentRepository struct {
	db *sqlx.DB
}

func NewPostgresPaymentRepository(db *sqlx.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

func (r *PostgresPaymentRepository) HasPaymentSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (bool, error) {
	statuses := make([]string, len(payment.SettlingStatuses))
	for i, s := range payment.SettlingStatuses {
		statuses[i] = string(s)
	}

	query := `SELECT EXISTS (
                 SELECT 1 FROM payments
                 WHERE tenant_id = $1
                   AND status = ANY($2::text[])
                   AND created_at >= $3
               )`
	var found bool
	if err := r.db.GetContext(ctx, &found, query, tenantID, pq.Array(statuses), since); err != nil {
		return false, fmt.Errorf("error checking payments for tenant %s: %w", tenantID, err)
	}
	return found, nil
}
