package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// DialogService defines the code hook operation used by the handler.
type DialogService interface {
	Handle(ctx context.Context, event *entities.DialogEvent) (*entities.DialogResponse, error)
}

// DialogHandler exposes the fulfillment code hook over HTTP.
type DialogHandler struct {
	service DialogService
}

// NewDialogHandler creates a new dialog handler.
func NewDialogHandler(service DialogService) *DialogHandler {
	return &DialogHandler{service: service}
}

// Fulfill handles POST /api/dialog
func (h *DialogHandler) Fulfill(w http.ResponseWriter, r *http.Request) {
	var event entities.DialogEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid dialog event")
		return
	}

	resp, err := h.service.Handle(r.Context(), &event)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).
			Str("intent", event.CurrentIntent.Name).
			Msg("dialog event failed")
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, resp)
}
