package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"clinicbook/backend/internal/assist"
)

type responder interface {
	Respond(ctx context.Context, query string) (string, error)
}

// AssistHandler proxies free-text queries to the completion API through the
// responder's cache.
type AssistHandler struct {
	responder responder
	log       *slog.Logger
}

func NewAssistHandler(responder responder, log *slog.Logger) *AssistHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AssistHandler{
		responder: responder,
		log:       log.With(slog.String("component", "http.assist")),
	}
}

type assistRequest struct {
	Query string `json:"query"`
}

type assistResponse struct {
	Message string `json:"message"`
}

// Respond handles POST /api/ai-response.
func (h *AssistHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req assistRequest
	if err := decodeJSON(r, &req); err != nil {
		h.log.Warn("invalid request", slog.String("reason", "bad_body"), slog.Any("err", err))
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body")
		return
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "query is required")
		return
	}

	message, err := h.responder.Respond(r.Context(), query)
	if err != nil {
		if errors.Is(err, assist.ErrUpstream) {
			h.log.Warn("completion upstream failed", slog.Any("err", err))
			writeError(w, http.StatusBadGateway, kindUpstream, "failed to get AI response")
			return
		}
		h.log.Error("completion failed", slog.Any("err", err))
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, assistResponse{Message: message})
}
