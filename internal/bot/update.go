package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Update is the transport-neutral form of one inbound Telegram update:
// a slash command, an inline-button callback, or plain text.
type Update struct {
	UserID int64
	ChatID int64

	// Command holds the command name without the slash; empty for plain
	// text. Text holds the message text, or the command argument.
	Command string
	Text    string

	// CallbackID is non-empty for inline-button callbacks.
	CallbackID   string
	CallbackData string
	MessageID    int
}

// fromTelegram converts a raw API update; nil means nothing routable.
func fromTelegram(u tgbotapi.Update) *Update {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		out := &Update{
			UserID:       cq.From.ID,
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.Message != nil {
			out.ChatID = cq.Message.Chat.ID
			out.MessageID = cq.Message.MessageID
		}
		return out
	case u.Message != nil && u.Message.Text != "" && u.Message.From != nil:
		m := u.Message
		out := &Update{
			UserID: m.From.ID,
			ChatID: m.Chat.ID,
			Text:   m.Text,
		}
		if m.IsCommand() {
			out.Command = m.Command()
			out.Text = m.CommandArguments()
		}
		return out
	}
	return nil
}
