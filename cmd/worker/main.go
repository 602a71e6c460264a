package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/bootstrap"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

func main() {
	var intervalFlag string
	flag.StringVar(&intervalFlag, "interval", "", "poll the queue on this interval instead of running once (e.g. 1m, 30s)")
	flag.Parse()

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("WORKER_INTERVAL"))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx, "worker")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()

	service, err := container.RecommendationService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize recommendation service")
	}

	// Inside Lambda a scheduled rule invokes one run per event.
	if os.Getenv("AWS_LAMBDA_RUNTIME_API") != "" {
		lambda.Start(handler(service))
		return
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			log.Fatal().Err(err).Str("interval", intervalValue).Msg("invalid interval")
		}
		if interval <= 0 {
			log.Fatal().Msg("interval must be greater than zero")
		}
	}

	for {
		result, err := service.Process(ctx)
		if err != nil {
			log.Error().Err(err).Msg("worker run failed")
		} else {
			log.Info().Int("status", result.StatusCode).Str("body", result.Body).Msg("worker run complete")
		}

		if interval <= 0 {
			break
		}

		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func handler(service *services.RecommendationService) func(context.Context) (*entities.WorkerResult, error) {
	return func(ctx context.Context) (*entities.WorkerResult, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			ctx = observability.WithRequestID(ctx, lc.AwsRequestID)
		}
		return service.Process(ctx)
	}
}
