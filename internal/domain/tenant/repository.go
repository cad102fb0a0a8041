package tenant

import (
	"context"
)

// Repository defines the tenant reads needed by reminder runs.
type Repository interface {
	// ListReminderTargets returns active tenants that have a linked profile,
	// with their unit's monthly rent resolved.
	ListReminderTargets(ctx context.Context) ([]*Tenant, error)
}
