package telegram

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"

	"rent_reminder_service/internal/domain/delivery"
	domainTelegram "rent_reminder_service/internal/domain/telegram"
)

// Sender delivers reminders to tenants that linked a Telegram chat.
// Tenants without one are skipped silently.
type Sender struct {
	client domainTelegram.Client
}

func NewSender(c domainTelegram.Client) *Sender {
	return &Sender{client: c}
}

func (s *Sender) Send(ctx context.Context, msg delivery.Message) error {
	if msg.TelegramChatID == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	text := fmt.Sprintf("*%s*\n%s", msg.Title, msg.Body)
	if err := s.client.SendMessage(msg.TelegramChatID, text, &telebot.SendOptions{ParseMode: telebot.ModeMarkdown}); err != nil {
		return fmt.Errorf("failed to send telegram reminder to chat %d: %w", msg.TelegramChatID, err)
	}
	return nil
}
