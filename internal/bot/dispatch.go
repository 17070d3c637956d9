package bot

import (
	"context"
	"log"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
)

// Dispatch classifies one update and routes it to the matching handler.
// The caller must already hold the user's serialization lock.
func (b *Bot) Dispatch(ctx context.Context, u Update) {
	if u.CallbackID != "" {
		b.handleModelChoice(ctx, u)
		return
	}

	if u.Command != "" {
		b.dispatchCommand(u)
		return
	}

	sess := b.ensureSession(u)
	if sess.Dialog == chat.StateAwaitingContext {
		b.completeSetContext(u, sess)
		return
	}
	b.generateAnswer(ctx, u, sess)
}

func (b *Bot) dispatchCommand(u Update) {
	if u.Command == "start" {
		b.handleStart(u)
		return
	}

	sess := b.ensureSession(u)

	// Any command other than /cancel aborts a pending set-context dialog
	// before running; the modal never survives a command.
	if sess.Dialog == chat.StateAwaitingContext && u.Command != "cancel" {
		if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
			s.Dialog = chat.StateIdle
		}); err != nil {
			log.Printf("[bot] failed to reset dialog for user %d: %v", u.UserID, err)
		}
		sess.Dialog = chat.StateIdle
	}

	switch u.Command {
	case "help":
		b.send(u.ChatID, msgHelp)
	case "info":
		b.send(u.ChatID, msgInfo)
	case "presets":
		b.handlePresets(u)
	case "model_info":
		b.handleModelInfo(u, sess)
	case "clear_context":
		b.handleClearContext(u, sess)
	case "show_current_context":
		b.handleShowContext(u, sess)
	case "enable_context":
		b.handleEnableContext(u, sess)
	case "disable_context":
		b.handleDisableContext(u, sess)
	case "set_context":
		b.handleSetContext(u)
	case "cancel":
		b.handleCancel(u, sess)
	default:
		log.Printf("[bot] ignoring unknown command %q from user %d", u.Command, u.UserID)
	}
}
