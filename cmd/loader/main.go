package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/adapters/snapshot"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/bootstrap"
	"golang.org/x/sync/errgroup"
)

// Load targets
const (
	targetStore = "store"
	targetIndex = "index"
	targetAll   = "all"
)

func main() {
	var input, target string
	var reset bool
	flag.StringVar(&input, "input", "restaurants.json", "path of the JSON snapshot to load")
	flag.StringVar(&target, "target", targetAll, "what to load: store, index or all")
	flag.BoolVar(&reset, "reset", false, "delete the search collection before indexing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := bootstrap.New(ctx, "loader")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to bootstrap")
	}
	defer container.Close()

	if err := run(ctx, container, snapshot.NewFileStore(input), target, reset); err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("load failed")
	}
}

func run(ctx context.Context, container *bootstrap.Container, source *snapshot.FileStore, target string, reset bool) error {
	loadStore := func(ctx context.Context) error {
		store, err := container.RestaurantStore(ctx)
		if err != nil {
			return err
		}
		count, err := services.NewRestaurantStoreLoader(source, store).Load(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("restaurants", count).Str("backend", container.Config.Store.Backend).Msg("document store loaded")
		return nil
	}

	loadIndex := func(ctx context.Context) error {
		index, err := container.SearchIndex(ctx)
		if err != nil {
			return err
		}
		if reset {
			if err := index.Reset(ctx); err != nil {
				log.Warn().Err(err).Msg("failed to delete search collection")
			}
		}
		count, err := services.NewRestaurantIndexLoader(source, index).Load(ctx)
		if err != nil {
			return err
		}
		log.Info().Int("documents", count).Msg("search index loaded")
		return nil
	}

	switch target {
	case targetStore:
		return loadStore(ctx)
	case targetIndex:
		return loadIndex(ctx)
	case targetAll:
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return loadStore(gctx) })
		g.Go(func() error { return loadIndex(gctx) })
		return g.Wait()
	default:
		return fmt.Errorf("unknown target %q", target)
	}
}
