package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Status of a submitted payment.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusPending Status = "pending"
)

// SettlingStatuses are the statuses that count as "rent handled" when deciding
// whether an overdue alert is still needed.
var SettlingStatuses = []Status{StatusPaid, StatusPending}

// Repository exposes the ledger lookups used by reminder runs.
type Repository interface {
	// HasPaymentSince reports whether tenantID has a payment in one of
	// SettlingStatuses created at or after since.
	HasPaymentSince(ctx context.Context, tenantID uuid.UUID, since time.Time) (bool, error)
}
