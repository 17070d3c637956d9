package ai

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/config"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
)

// Gateway produces an assistant reply for an ordered role-tagged message
// list, polymorphic over the catalog model id.
type Gateway interface {
	// Bind constructs (and caches) the backing chat model for a catalog id.
	Bind(ctx context.Context, modelID string) error
	// Generate runs one turn against the given model.
	Generate(ctx context.Context, modelID string, messages []chat.Message) (chat.Message, error)
}

// GenerationError carries the underlying cause of a failed model call.
type GenerationError struct {
	ModelID string
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for model %s: %v", e.ModelID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Service implements Gateway over eino chat models, one per catalog entry.
type Service struct {
	cfg    config.AIConfig
	models registry.Store

	mu    sync.Mutex
	bound map[string]model.ChatModel
}

// NewService creates the gateway and eagerly binds the default model so a
// broken credential fails at startup rather than on the first user turn.
func NewService(ctx context.Context, models registry.Store, cfg config.AIConfig) (*Service, error) {
	s := &Service{
		cfg:    cfg,
		models: models,
		bound:  make(map[string]model.ChatModel),
	}

	if err := s.Bind(ctx, models.Default().ID); err != nil {
		return nil, err
	}
	return s, nil
}

// Bind validates the id against the catalog and constructs the chat model
// if it is not cached yet.
func (s *Service) Bind(ctx context.Context, modelID string) error {
	if _, err := s.models.FindByID(modelID); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bound[modelID]; ok {
		return nil
	}

	chatModel, err := s.cfg.NewChatModel(ctx, modelID)
	if err != nil {
		return fmt.Errorf("failed to create chat model %s: %w", modelID, err)
	}
	s.bound[modelID] = chatModel
	log.Printf("[ai] bound chat model %s", modelID)
	return nil
}

// Generate runs one turn. History is not mutated here; persisting the reply
// is the caller's decision.
func (s *Service) Generate(ctx context.Context, modelID string, messages []chat.Message) (chat.Message, error) {
	if err := s.Bind(ctx, modelID); err != nil {
		return chat.Message{}, err
	}

	s.mu.Lock()
	chatModel := s.bound[modelID]
	s.mu.Unlock()

	response, err := chatModel.Generate(ctx, toSchemaMessages(messages))
	if err != nil {
		return chat.Message{}, &GenerationError{ModelID: modelID, Err: err}
	}

	log.Printf("[ai] generated reply model=%s length=%d", modelID, len(response.Content))
	return chat.Assistant(response.Content), nil
}

func toSchemaMessages(messages []chat.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return out
}
