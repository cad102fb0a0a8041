package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"rent_reminder_service/internal/domain/tenant"
)

type PostgresTenantRepository struct {
	db *sqlx.DB
}

func NewPostgresTenantRepository(db *sqlx.DB) *PostgresTenantRepository {
	return &PostgresTenantRepository{db: db}
}

func (r *PostgresTenantRepository) ListReminderTargets(ctx context.Context) ([]*tenant.Tenant, error) {
	query := `SELECT t.id, t.name, t.lease_start, t.rent_cycle_days, t.profile_id, t.unit_id,
                      t.telegram_chat_id, u.monthly_rent
               FROM tenants t
               LEFT JOIN units u ON u.id = t.unit_id
               WHERE t.is_active = TRUE AND t.profile_id IS NOT NULL
               ORDER BY t.name, t.id`

	tenants := make([]*tenant.Tenant, 0)
	if err := r.db.SelectContext(ctx, &tenants, query); err != nil {
		return nil, fmt.Errorf("error listing reminder targets: %w", err)
	}
	return tenants, nil
}
