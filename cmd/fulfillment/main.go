package main

import (
	"context"
	_ "time/tzdata"

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

	container, err := bootstrap.New(ctx, "fulfillment")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()

	service, err := container.FulfillmentService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize fulfillment service")
	}

	lambda.Start(handler(service))
}

func handler(service *services.FulfillmentService) func(context.Context, entities.DialogEvent) (*entities.DialogResponse, error) {
	return func(ctx context.Context, event entities.DialogEvent) (*entities.DialogResponse, error) {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			ctx = observability.WithRequestID(ctx, lc.AwsRequestID)
		}
		return service.Handle(ctx, &event)
	}
}
