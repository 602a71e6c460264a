package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

// ScraperOptions controls directory pagination
type ScraperOptions struct {
	Cuisines  []string
	Location  string
	PageSize  int
	MaxOffset int
}

// ScraperService pages through the business directory for every cuisine and
// writes the merged result to the snapshot.
type ScraperService struct {
	directory providers.DirectoryProvider
	snapshot  repositories.SnapshotRepository
	opts      ScraperOptions
	metrics   *observability.Metrics
}

// NewScraperService creates a new scraper service. metrics may be nil.
func NewScraperService(directory providers.DirectoryProvider, snapshot repositories.SnapshotRepository, opts ScraperOptions, metrics *observability.Metrics) *ScraperService {
	return &ScraperService{directory: directory, snapshot: snapshot, opts: opts, metrics: metrics}
}

// Run scrapes the directory and saves the snapshot. Nothing is saved when any
// page fails.
func (s *ScraperService) Run(ctx context.Context) (int, error) {
	businesses, err := s.Scrape(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.snapshot.Save(ctx, businesses); err != nil {
		return 0, err
	}
	observability.LoggerFromContext(ctx).Info().Int("businesses", len(businesses)).Msg("snapshot saved")
	return len(businesses), nil
}

// Scrape collects businesses keyed by ID. A business found under several
// cuisines carries each cuisine once.
func (s *ScraperService) Scrape(ctx context.Context) (map[string]*entities.Business, error) {
	ctx, span := observability.StartSpan(ctx, "scraper.scrape")
	defer span.End()

	if s.opts.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", s.opts.PageSize)
	}

	logger := observability.LoggerFromContext(ctx)
	businesses := map[string]*entities.Business{}

	for _, cuisine := range s.opts.Cuisines {
		for offset := 0; offset <= s.opts.MaxOffset; offset += s.opts.PageSize {
			page, err := s.directory.Search(ctx, providers.DirectoryQuery{
				Term:     cuisine + " restaurants",
				Location: s.opts.Location,
				Offset:   offset,
				Limit:    s.opts.PageSize,
			})
			if err != nil {
				observability.RecordError(span, err)
				logger.Error().Err(err).Str("cuisine", cuisine).Int("offset", offset).Msg("directory page failed, aborting scrape")
				return nil, err
			}
			if len(page) == 0 {
				break
			}

			observability.RecordScrapedBusinesses(ctx, s.metrics, cuisine, len(page))
			logger.Debug().Str("cuisine", cuisine).Int("offset", offset).Int("count", len(page)).Msg("directory page fetched")

			for _, b := range page {
				if b == nil || b.ID == "" {
					continue
				}
				if existing, ok := businesses[b.ID]; ok {
					existing.AddCuisine(cuisine)
					continue
				}
				b.Cuisine = []string{cuisine}
				businesses[b.ID] = b
			}
		}
	}

	observability.SetSpanAttributes(span, attribute.Int("scraper.businesses", len(businesses)))
	return businesses, nil
}
