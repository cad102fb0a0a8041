// Package delivery describes the side channel reminders are pushed through
// once their notification record is stored.
package delivery

import (
	"context"

	"github.com/google/uuid"

	"rent_reminder_service/internal/domain/notification"
)

type Message struct {
	TenantID       uuid.UUID
	TenantName     string
	TelegramChatID int64 // 0 when the tenant has no linked chat
	Kind           notification.Kind
	Title          string
	Body           string
}

// Sender pushes a message out of the system.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
