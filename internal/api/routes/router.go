package routes

import (
	"net/http"

	"github.com/zatekoja/diningconcierge/internal/api/handlers"
	"github.com/zatekoja/diningconcierge/internal/api/middleware"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	chatbotHandler *handlers.ChatbotHandler
	dialogHandler  *handlers.DialogHandler
	workerHandler  *handlers.WorkerHandler

	metrics        *observability.Metrics
	allowedOrigins []string
}

// NewRouter creates a new router. workerHandler may be nil to leave the
// manual worker trigger unexposed.
func NewRouter(
	chatbotHandler *handlers.ChatbotHandler,
	dialogHandler *handlers.DialogHandler,
	workerHandler *handlers.WorkerHandler,
	metrics *observability.Metrics,
	allowedOrigins []string,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		chatbotHandler: chatbotHandler,
		dialogHandler:  dialogHandler,
		workerHandler:  workerHandler,
		metrics:        metrics,
		allowedOrigins: allowedOrigins,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Conversation front door
	r.mux.HandleFunc("POST /api/chatbot", r.chatbotHandler.Chat)

	// Intent fulfillment code hook
	r.mux.HandleFunc("POST /api/dialog", r.dialogHandler.Fulfill)

	if r.workerHandler != nil {
		r.mux.HandleFunc("POST /api/worker/run", r.workerHandler.Run)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
