package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/bot"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/config"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/handler"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/service/ai"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	models := registry.NewMemoryStore(registry.Seed())
	sessions := session.NewStore(models)

	gateway, err := ai.NewService(ctx, models, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize LLM gateway: %v", err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("failed to connect to Telegram: %v", err)
	}
	log.Printf("[bot] authorized as @%s", api.Self.UserName)

	b := bot.New(sessions, models, gateway, bot.NewTelegramTransport(api))

	botErr := make(chan error, 1)
	go func() {
		botErr <- b.Run(ctx, api, cfg.Telegram.PollTimeout)
	}()

	router := handler.NewRouter(models)
	startServer(ctx, cfg.Server, router)

	if err := <-botErr; err != nil {
		log.Fatalf("bot error: %v", err)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ops server listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
