package bot

import (
	"log"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
)

// handleSetContext opens the set-system-context dialog: the user's next
// free-text message becomes the system instruction.
func (b *Bot) handleSetContext(u Update) {
	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.Dialog = chat.StateAwaitingContext
	}); err != nil {
		log.Printf("[bot] set_context failed for user %d: %v", u.UserID, err)
		return
	}
	b.send(u.ChatID, msgEnterContext)
}

// handleCancel aborts a pending dialog without touching history. Outside
// the dialog /cancel does nothing.
func (b *Bot) handleCancel(u Update, sess chat.Session) {
	if sess.Dialog != chat.StateAwaitingContext {
		return
	}

	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.Dialog = chat.StateIdle
	}); err != nil {
		log.Printf("[bot] cancel failed for user %d: %v", u.UserID, err)
		return
	}
	b.send(u.ChatID, msgCancelled)
}

// completeSetContext consumes the awaited text: the whole history is
// replaced with a single system message and the dialog closes. Only the
// confirmation wording depends on whether context retention is on.
func (b *Bot) completeSetContext(u Update, sess chat.Session) {
	if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
		s.History = []chat.Message{chat.System(u.Text)}
		s.Dialog = chat.StateIdle
	}); err != nil {
		log.Printf("[bot] set context completion failed for user %d: %v", u.UserID, err)
		return
	}

	if sess.ContextEnabled {
		b.send(u.ChatID, msgContextSetEnabled+u.Text)
	} else {
		b.send(u.ChatID, msgContextSetDisabled+u.Text)
	}
}
