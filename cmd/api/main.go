package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/api/handlers"
	"github.com/zatekoja/diningconcierge/internal/api/routes"
	"github.com/zatekoja/diningconcierge/internal/bootstrap"
)

func main() {
	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, err := bootstrap.New(ctx, "api")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()
	cfg := container.Config

	conversationService, err := container.ConversationService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation service")
	}

	fulfillmentService, err := container.FulfillmentService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize fulfillment service")
	}

	// The manual worker trigger is optional; the API still serves the
	// conversation without a search index or document store.
	var workerHandler *handlers.WorkerHandler
	if os.Getenv("API_EXPOSE_WORKER") == "true" {
		recommendationService, err := container.RecommendationService(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("worker trigger disabled")
		} else {
			workerHandler = handlers.NewWorkerHandler(recommendationService)
		}
	}

	router := routes.NewRouter(
		handlers.NewChatbotHandler(conversationService),
		handlers.NewDialogHandler(fulfillmentService),
		workerHandler,
		container.Metrics,
		cfg.Server.AllowedOrigins,
	)

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
