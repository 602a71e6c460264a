package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/bootstrap"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

func main() {
	ctx := context.Background()

	container, err := bootstrap.New(ctx, "frontdoor")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()

	service, err := container.ConversationService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize conversation service")
	}

	lambda.Start(handler(service))
}

func handler(service *services.ConversationService) func(context.Context, entities.ChatRequest) (*entities.ChatResponse, error) {
	return func(ctx context.Context, req entities.ChatRequest) (*entities.ChatResponse, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			ctx = observability.WithRequestID(ctx, lc.AwsRequestID)
		}
		return service.Respond(ctx, req)
	}
}
