package chat

import (
	"time"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
)

// DialogState tracks the set-system-context sub-dialog.
type DialogState int

const (
	// StateIdle is the default: free text goes to the conversation handler.
	StateIdle DialogState = iota
	// StateAwaitingContext means the next free-text message becomes the
	// system instruction.
	StateAwaitingContext
)

// Session captures one user's transient conversational state. It is owned
// by the session store; handlers mutate it only through Store.Update.
type Session struct {
	ID             string
	UserID         int64
	ModelID        string
	ModelName      string
	Model          registry.Entry
	ContextEnabled bool
	History        []Message
	Dialog         DialogState
	CreatedAt      time.Time
}
