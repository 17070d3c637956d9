package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Button is one inline-keyboard entry; Data travels back as callback data.
type Button struct {
	Label string
	Data  string
}

// Transport abstracts the Telegram operations handlers need, so the
// dispatch layer can be exercised against a fake in tests.
type Transport interface {
	Send(chatID int64, text string) error
	SendMarkdown(chatID int64, text string) error
	SendKeyboard(chatID int64, text string, buttons []Button) error
	AnswerCallback(callbackID string) error
	EditMessage(chatID int64, messageID int, text string) error
}

// EscapeMarkdown escapes text for MarkdownV2 rendering. Assistant output
// routinely contains characters the renderer treats as markup.
func EscapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, text)
}

type telegramTransport struct {
	api *tgbotapi.BotAPI
}

// NewTelegramTransport wraps a Bot API client as a Transport.
func NewTelegramTransport(api *tgbotapi.BotAPI) Transport {
	return &telegramTransport{api: api}
}

func (t *telegramTransport) Send(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *telegramTransport) SendMarkdown(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	_, err := t.api.Send(msg)
	return err
}

func (t *telegramTransport) SendKeyboard(chatID int64, text string, buttons []Button) error {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data),
		))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, err := t.api.Send(msg)
	return err
}

func (t *telegramTransport) AnswerCallback(callbackID string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, ""))
	return err
}

func (t *telegramTransport) EditMessage(chatID int64, messageID int, text string) error {
	_, err := t.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}
