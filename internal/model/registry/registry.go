package registry

import "errors"

// ErrUnknownModel is returned when an identifier does not name a registered model.
var ErrUnknownModel = errors.New("unknown model")

// DefaultID identifies the model new sessions start with.
const DefaultID = "GigaChat"

// Entry describes one selectable model.
type Entry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextWindow int    `json:"contextWindow"`
	Tier          string `json:"tier"`
}

// Store exposes model catalog lookups for handlers.
type Store interface {
	List() []Entry
	FindByID(id string) (Entry, error)
	Default() Entry
}

// MemoryStore implements Store with an in-memory slice loaded at startup.
type MemoryStore struct {
	items []Entry
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied entries.
func NewMemoryStore(items []Entry) *MemoryStore {
	return &MemoryStore{items: append([]Entry(nil), items...)}
}

// List returns the catalog in registry order, used to build the selection menu.
func (s *MemoryStore) List() []Entry {
	return append([]Entry(nil), s.items...)
}

// FindByID looks up an entry by identifier.
func (s *MemoryStore) FindByID(id string) (Entry, error) {
	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return Entry{}, ErrUnknownModel
}

// Default returns the entry new sessions are bound to.
func (s *MemoryStore) Default() Entry {
	for _, item := range s.items {
		if item.ID == DefaultID {
			return item
		}
	}
	return s.items[0]
}

// Seed provides the GigaChat model catalog.
func Seed() []Entry {
	return []Entry{
		{ID: "GigaChat", Name: "GigaChat Lite", ContextWindow: 8192, Tier: "lite"},
		{ID: "GigaChat-Plus", Name: "GigaChat Lite+", ContextWindow: 32768, Tier: "lite+"},
		{ID: "GigaChat-Pro", Name: "GigaChat Pro", ContextWindow: 8192, Tier: "pro"},
	}
}
