package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// WorkerService defines the recommendation run used by the handler.
type WorkerService interface {
	Process(ctx context.Context) (*entities.WorkerResult, error)
}

// WorkerHandler triggers one recommendation worker run on demand.
type WorkerHandler struct {
	service WorkerService
}

// NewWorkerHandler creates a new worker handler.
func NewWorkerHandler(service WorkerService) *WorkerHandler {
	return &WorkerHandler{service: service}
}

// Run handles POST /api/worker/run
func (h *WorkerHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Process(r.Context())
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Msg("worker run failed")
		respondWithAppError(w, err)
		return
	}
	respondWithJSON(w, result.StatusCode, result)
}
