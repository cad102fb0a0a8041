// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines operations on the notification log.
type Repository interface {
	// Create inserts a record and fills ID and CreatedAt.
	// A record whose DedupKey already exists is rejected with a duplicate error.
	Create(ctx context.Context, rec *Record) error
	// ListCreatedSince returns records for recipient with the given kind and title
	// created at or after since.
	ListCreatedSince(ctx context.Context, recipient uuid.UUID, kind Kind, title string, since time.Time) ([]*Record, error)
}
