package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hromov-igor/sb-ai-llm-tg-bot/internal/model/registry"
	"github.com/hromov-igor/sb-ai-llm-tg-bot/pkg/utils"
)

// NewRouter builds the ops HTTP surface: liveness plus the model catalog.
func NewRouter(models registry.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/models", func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondJSON(w, http.StatusOK, models.List())
	})

	return r
}
