package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"persona-chatter/internal/handlers"
	"persona-chatter/internal/middleware"
)

func New(chatHandler *handlers.ChatHandler, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(allowedOrigins))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/{persona}", func(r chi.Router) {
		r.Post("/chat", chatHandler.Chat)
		r.Get("/history", chatHandler.History)
		r.Get("/stats", chatHandler.Stats)
	})

	return r
}
