// internal/domain/notification/notification.go
package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Intent is a classification result that has not been persisted yet.
type Intent struct {
	TenantID           uuid.UUID
	RecipientProfileID uuid.UUID
	Kind               Kind
	Title              string
	Message            string
	TargetDate         time.Time // the cycle boundary the intent refers to
}

// Record is a row of the 'notifications' table.
type Record struct {
	ID                 int64     `db:"id"`
	RecipientProfileID uuid.UUID `db:"user_id"`
	Title              string    `db:"title"`
	Message            string    `db:"message"`
	Kind               Kind      `db:"type"`
	Read               bool      `db:"is_read"`
	DedupKey           string    `db:"dedup_key"`
	CreatedAt          time.Time `db:"created_at"`
}

// DedupKey builds the per-day idempotency key (recipient, kind, title, day).
// The day is taken in day's own location.
func DedupKey(recipient uuid.UUID, kind Kind, title string, day time.Time) string {
	return fmt.Sprintf("%s|%s|%s|%s", recipient, kind, title, day.Format("2006-01-02"))
}

// NewRecord turns an accepted intent into an unread record for the given day.
func NewRecord(in Intent, day time.Time) *Record {
	return &Record{
		RecipientProfileID: in.RecipientProfileID,
		Title:              in.Title,
		Message:            in.Message,
		Kind:               in.Kind,
		Read:               false,
		DedupKey:           DedupKey(in.RecipientProfileID, in.Kind, in.Title, day),
	}
}
