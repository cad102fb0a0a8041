package telegram

import "gopkg.in/telebot.v3"

// Client sends plain messages to a Telegram chat.
// Reminder delivery depends on this instead of the bot library.
type Client interface {
	SendMessage(chatID int64, text string, options *telebot.SendOptions) error
}
