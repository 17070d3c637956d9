package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
)

func (b *Bot) handleStart(u Update) {
	b.sessions.Reset(u.UserID)
	if err := b.transport.SendMarkdown(u.ChatID, msgGreeting); err != nil {
		log.Printf("[bot] greeting failed chat=%d: %v", u.ChatID, err)
	}
}

func (b *Bot) handlePresets(u Update) {
	entries := b.models.List()
	buttons := make([]Button, 0, len(entries))
	for _, entry := range entries {
		buttons = append(buttons, Button{Label: entry.Name, Data: entry.ID})
	}

	if err := b.transport.SendKeyboard(u.ChatID, msgChooseModel, buttons); err != nil {
		log.Printf("[bot] presets keyboard failed chat=%d: %v", u.ChatID, err)
	}
}

// handleModelChoice reacts to an inline-button selection. The callback is
// always acknowledged, even for an unrecognized id, so the client does not
// hang on a spinner; on an unrecognized id the session stays untouched.
func (b *Bot) handleModelChoice(ctx context.Context, u Update) {
	if err := b.transport.AnswerCallback(u.CallbackID); err != nil {
		log.Printf("[bot] callback answer failed: %v", err)
	}

	b.ensureSession(u)

	entry, err := b.models.FindByID(u.CallbackData)
	if err != nil {
		log.Printf("[bot] ignoring selection of unknown model %q by user %d", u.CallbackData, u.UserID)
		return
	}

	if err := b.gateway.Bind(ctx, entry.ID); err != nil {
		log.Printf("[bot] failed to bind model %s: %v", entry.ID, err)
		b.send(u.ChatID, msgGenerationFailed)
		return
	}

	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.ModelID = entry.ID
		s.ModelName = entry.Name
		s.Model = entry
	}); err != nil {
		log.Printf("[bot] model switch failed for user %d: %v", u.UserID, err)
		return
	}

	if err := b.transport.EditMessage(u.ChatID, u.MessageID, msgModelSelected+entry.Name); err != nil {
		log.Printf("[bot] selection confirmation failed chat=%d: %v", u.ChatID, err)
	}
}

func (b *Bot) handleModelInfo(u Update, sess chat.Session) {
	var sb strings.Builder
	sb.WriteString(msgModelInfoHeader)
	sb.WriteString("model_name: " + sess.Model.Name + "\n")
	sb.WriteString(fmt.Sprintf("context_size: %d\n", sess.Model.ContextWindow))
	sb.WriteString("tier: " + sess.Model.Tier)
	b.send(u.ChatID, sb.String())
}

func (b *Bot) handleClearContext(u Update, sess chat.Session) {
	if !sess.ContextEnabled {
		b.send(u.ChatID, msgContextIsOff)
	}

	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.History = s.History[:0]
	}); err != nil {
		log.Printf("[bot] clear context failed for user %d: %v", u.UserID, err)
		return
	}
	b.send(u.ChatID, msgContextCleared)
}

func (b *Bot) handleEnableContext(u Update, sess chat.Session) {
	if sess.ContextEnabled {
		b.send(u.ChatID, msgAlreadyEnabled)
		return
	}

	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.ContextEnabled = true
		s.History = s.History[:0]
	}); err != nil {
		log.Printf("[bot] enable context failed for user %d: %v", u.UserID, err)
		return
	}
	b.send(u.ChatID, msgContextEnabledNow)
}

func (b *Bot) handleDisableContext(u Update, sess chat.Session) {
	if !sess.ContextEnabled {
		b.send(u.ChatID, msgAlreadyDisabled)
	}

	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.ContextEnabled = false
		s.History = s.History[:0]
	}); err != nil {
		log.Printf("[bot] disable context failed for user %d: %v", u.UserID, err)
		return
	}
	b.send(u.ChatID, msgContextDisabledNow)
}

func (b *Bot) handleShowContext(u Update, sess chat.Session) {
	if !sess.ContextEnabled {
		b.send(u.ChatID, msgContextIsOff)
		return
	}

	if len(sess.History) == 0 {
		b.send(u.ChatID, msgContextEmpty)
		return
	}

	lines := make([]string, 0, len(sess.History))
	for _, msg := range sess.History {
		lines = append(lines, "**"+string(msg.Role)+":** "+msg.Content)
	}
	b.send(u.ChatID, strings.Join(lines, "\n"))
}
