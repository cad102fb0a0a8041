package tenant

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tenant is an active lease holder as seen by the reminder run.
// MonthlyRent comes from the tenant's unit.
type Tenant struct {
	ID             uuid.UUID           `db:"id"`
	Name           string              `db:"name"`
	LeaseStart     sql.NullTime        `db:"lease_start"`
	RentCycleDays  sql.NullInt32       `db:"rent_cycle_days"`
	ProfileID      uuid.NullUUID       `db:"profile_id"`
	UnitID         uuid.NullUUID       `db:"unit_id"`
	TelegramChatID sql.NullInt64       `db:"telegram_chat_id"`
	MonthlyRent    decimal.NullDecimal `db:"monthly_rent"`
}

// CycleDays returns the configured cycle length, or 0 when unset.
func (t *Tenant) CycleDays() int {
	if !t.RentCycleDays.Valid {
		return 0
	}
	return int(t.RentCycleDays.Int32)
}

// Rent returns the unit's monthly rent, zero when unknown.
func (t *Tenant) Rent() decimal.Decimal {
	if !t.MonthlyRent.Valid {
		return decimal.Zero
	}
	return t.MonthlyRent.Decimal
}

// HasUnit reports whether the tenant occupies a unit.
func (t *Tenant) HasUnit() bool {
	return t.UnitID.Valid
}

// ChatID returns the linked Telegram chat, 0 when none.
func (t *Tenant) ChatID() int64 {
	if !t.TelegramChatID.Valid {
		return 0
	}
	return t.TelegramChatID.Int64
}
