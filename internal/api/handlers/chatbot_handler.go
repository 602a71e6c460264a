package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// ChatService defines the front door operation used by the handler.
type ChatService interface {
	Respond(ctx context.Context, req entities.ChatRequest) (*entities.ChatResponse, error)
}

// ChatbotHandler serves the chat front end.
type ChatbotHandler struct {
	service ChatService
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(service ChatService) *ChatbotHandler {
	return &ChatbotHandler{service: service}
}

// Chat handles POST /api/chatbot
func (h *ChatbotHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req entities.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	resp, err := h.service.Respond(r.Context(), req)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("chatbot request failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
