package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/adapters/snapshot"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/bootstrap"
)

func main() {
	var output string
	flag.StringVar(&output, "output", "restaurants.json", "path of the JSON snapshot to write")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx, "scraper")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()

	cfg := container.Config
	if cfg.Yelp.APIKey == "" {
		log.Fatal().Msg("YELP_API_KEY is required")
	}

	scraper := services.NewScraperService(
		container.Directory(),
		snapshot.NewFileStore(output),
		services.ScraperOptions{
			Cuisines:  cfg.Catalog.Cuisines,
			Location:  cfg.Catalog.SearchLocation,
			PageSize:  cfg.Yelp.PageSize,
			MaxOffset: cfg.Yelp.MaxOffset,
		},
		container.Metrics,
	)

	count, err := scraper.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("scrape failed")
	}
	log.Info().Int("businesses", count).Str("output", output).Msg("scrape complete")
}
