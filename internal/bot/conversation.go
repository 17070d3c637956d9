package bot

import (
	"context"
	"log"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
)

// generateAnswer is the default plain-text path: announce the active model,
// run one turn against the gateway and render the escaped reply.
func (b *Bot) generateAnswer(ctx context.Context, u Update, sess chat.Session) {
	b.send(u.ChatID, msgSendingTo+sess.ModelName)

	messages := make([]chat.Message, 0, len(sess.History)+1)
	if sess.ContextEnabled {
		messages = append(messages, sess.History...)
	}
	messages = append(messages, chat.User(u.Text))

	reply, err := b.gateway.Generate(ctx, sess.ModelID, messages)
	if err != nil {
		log.Printf("[bot] generation failed user=%d model=%s: %v", u.UserID, sess.ModelID, err)
		b.send(u.ChatID, msgGenerationFailed)
		return
	}

	if err := b.transport.SendMarkdown(u.ChatID, EscapeMarkdown(reply.Content)); err != nil {
		log.Printf("[bot] reply delivery failed chat=%d: %v", u.ChatID, err)
	}

	if sess.ContextEnabled {
		// Only the assistant turn is recorded; the user turn is not.
		if err := b.sessions.Update(u.UserID, func(s *chat.Session) {
			s.History = append(s.History, reply)
		}); err != nil {
			log.Printf("[bot] history append failed for user %d: %v", u.UserID, err)
		}
	}
}
