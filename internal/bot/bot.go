package bot

import (
	"context"
	"log"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/chat"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/service/ai"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/service/session"
)

// Bot routes inbound updates to command, callback, modal and conversation
// handlers over the per-user session store.
type Bot struct {
	sessions  *session.Store
	models    registry.Store
	gateway   ai.Gateway
	transport Transport

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New wires the dispatch layer to its collaborators.
func New(sessions *session.Store, models registry.Store, gateway ai.Gateway, transport Transport) *Bot {
	return &Bot{
		sessions:  sessions,
		models:    models,
		gateway:   gateway,
		transport: transport,
		locks:     make(map[int64]*sync.Mutex),
	}
}

// Run registers the command menu and consumes the update stream until ctx
// is cancelled. Each update is handled on its own goroutine; updates for
// the same user are serialized by a per-user lock.
func (b *Bot) Run(ctx context.Context, api *tgbotapi.BotAPI, pollTimeout int) error {
	if err := registerCommands(api); err != nil {
		return err
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout
	updates := api.GetUpdatesChan(cfg)

	log.Printf("[bot] polling for updates")
	for {
		select {
		case <-ctx.Done():
			api.StopReceivingUpdates()
			return nil
		case raw, ok := <-updates:
			if !ok {
				return nil
			}
			update := fromTelegram(raw)
			if update == nil {
				continue
			}
			go b.handle(ctx, *update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, u Update) {
	lock := b.userLock(u.UserID)
	lock.Lock()
	defer lock.Unlock()

	b.Dispatch(ctx, u)
}

func (b *Bot) userLock(userID int64) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()

	lock, ok := b.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[userID] = lock
	}
	return lock
}

// ensureSession resolves the user's session, notifying them when defaults
// had to be (re)applied, e.g. after a process restart.
func (b *Bot) ensureSession(u Update) chat.Session {
	sess, created := b.sessions.GetOrCreate(u.UserID)
	if created {
		log.Printf("[bot] created session %s for user %d", sess.ID, u.UserID)
		b.send(u.ChatID, msgRestarted)
	}
	return sess
}

func (b *Bot) send(chatID int64, text string) {
	if err := b.transport.Send(chatID, text); err != nil {
		log.Printf("[bot] send failed chat=%d: %v", chatID, err)
	}
}

func registerCommands(api *tgbotapi.BotAPI) error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Старт"},
		tgbotapi.BotCommand{Command: "presets", Description: "Выбрать модель для взаимодействия"},
		tgbotapi.BotCommand{Command: "clear_context", Description: "Очистить контекст"},
		tgbotapi.BotCommand{Command: "set_context", Description: "Установить контекст"},
		tgbotapi.BotCommand{Command: "show_current_context", Description: "Показать текущий контекст"},
		tgbotapi.BotCommand{Command: "enable_context", Description: "Включить сохранение контекста"},
		tgbotapi.BotCommand{Command: "disable_context", Description: "Выключить сохранение контекста"},
		tgbotapi.BotCommand{Command: "help", Description: "Помощь"},
		tgbotapi.BotCommand{Command: "info", Description: "Информация о моделях"},
	)
	_, err := api.Request(commands)
	return err
}
