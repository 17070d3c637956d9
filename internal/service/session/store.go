package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
)

var ErrSessionNotFound = errors.New("session not found")

// Store owns all per-user sessions. Sessions never escape as shared
// pointers: reads hand out copies, writes go through Update.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*chat.Session
	models   registry.Store
}

// NewStore bootstraps the in-memory session store.
func NewStore(models registry.Store) *Store {
	return &Store{
		sessions: make(map[int64]*chat.Session),
		models:   models,
	}
}

// GetOrCreate returns a copy of the user's session, provisioning one with
// defaults when the user is unknown. The second result reports whether
// defaults were (re)applied, so callers can tell the user their previous
// customization is gone.
func (s *Store) GetOrCreate(userID int64) (chat.Session, bool) {
	s.mu.RLock()
	if sess, ok := s.sessions[userID]; ok {
		copied := snapshot(sess)
		s.mu.RUnlock()
		return copied, false
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return snapshot(sess), false
	}
	sess := s.defaults(userID)
	s.sessions[userID] = sess
	return snapshot(sess), true
}

// Update applies mutate to the user's session under the store lock.
func (s *Store) Update(userID int64, mutate func(*chat.Session)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return ErrSessionNotFound
	}
	mutate(sess)
	return nil
}

// Reset overwrites the user's session with defaults and returns a copy of
// the fresh state. Used by /start.
func (s *Store) Reset(userID int64) chat.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.defaults(userID)
	s.sessions[userID] = sess
	return snapshot(sess)
}

func (s *Store) defaults(userID int64) *chat.Session {
	def := s.models.Default()
	return &chat.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		ModelID:        def.ID,
		ModelName:      def.Name,
		Model:          def,
		ContextEnabled: true,
		History:        make([]chat.Message, 0, 16),
		Dialog:         chat.StateIdle,
		CreatedAt:      time.Now().UTC(),
	}
}

func snapshot(sess *chat.Session) chat.Session {
	copied := *sess
	copied.History = append([]chat.Message(nil), sess.History...)
	return copied
}
