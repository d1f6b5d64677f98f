package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"persona-chatter/internal/analytics"
	"persona-chatter/internal/chat"
	"persona-chatter/internal/middleware"
	"persona-chatter/internal/storage"
)

type chatService interface {
	Chat(ctx context.Context, persona, message string) (chat.Reply, error)
	History(ctx context.Context, persona string) ([]storage.Exchange, error)
	Stats(ctx context.Context, persona string, day time.Time) (*analytics.DailyStats, error)
}

type ChatHandler struct {
	svc    chatService
	logger *zap.Logger
}

func NewChatHandler(svc chatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{svc: svc, logger: logger}
}

// Chat handles POST /api/{persona}/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	personaName := chi.URLParam(r, "persona")

	var req chatRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, msgMessageRequired)
		return
	}

	reply, err := h.svc.Chat(r.Context(), personaName, req.Message)
	if err != nil {
		h.fail(w, r, personaName, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply.Text})
}

// History handles GET /api/{persona}/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	personaName := chi.URLParam(r, "persona")

	history, err := h.svc.History(r.Context(), personaName)
	if err != nil {
		h.fail(w, r, personaName, err)
		return
	}
	if history == nil {
		history = []storage.Exchange{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"persona": personaName,
		"history": history,
	})
}

// Stats handles GET /api/{persona}/stats?date=YYYY-MM-DD.
func (h *ChatHandler) Stats(w http.ResponseWriter, r *http.Request) {
	personaName := chi.URLParam(r, "persona")

	day := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidDate)
			return
		}
		day = parsed
	}

	stats, err := h.svc.Stats(r.Context(), personaName, day)
	if err != nil {
		h.fail(w, r, personaName, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

func (h *ChatHandler) fail(w http.ResponseWriter, r *http.Request, personaName string, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, msgMessageRequired)
	case errors.Is(err, chat.ErrUnknownPersona):
		writeError(w, http.StatusNotFound, msgPersonaNotFound)
	default:
		h.logger.Error("chat request failed",
			zap.String("persona", personaName),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, msgSomethingWrong)
	}
}
