package services

import (
	"context"
	"sort"
	"time"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
)

// RestaurantStoreLoader copies the snapshot into the document store
type RestaurantStoreLoader struct {
	snapshot repositories.SnapshotRepository
	store    repositories.RestaurantRepository
	now      func() time.Time
}

// NewRestaurantStoreLoader creates a new document store loader
func NewRestaurantStoreLoader(snapshot repositories.SnapshotRepository, store repositories.RestaurantRepository) *RestaurantStoreLoader {
	return &RestaurantStoreLoader{snapshot: snapshot, store: store, now: time.Now}
}

// WithClock replaces the clock used for insertion timestamps
func (l *RestaurantStoreLoader) WithClock(now func() time.Time) *RestaurantStoreLoader {
	l.now = now
	return l
}

// Load upserts every snapshot business. Re-running overwrites earlier records.
func (l *RestaurantStoreLoader) Load(ctx context.Context) (int, error) {
	ctx, span := observability.StartSpan(ctx, "loader.store")
	defer span.End()

	businesses, err := l.snapshot.Load(ctx)
	if err != nil {
		return 0, err
	}

	loaded := 0
	for _, id := range sortedIDs(businesses) {
		if err := l.store.Upsert(ctx, businesses[id].ToRestaurant(l.now())); err != nil {
			observability.RecordError(span, err)
			return loaded, err
		}
		loaded++
	}

	observability.LoggerFromContext(ctx).Info().Int("restaurants", loaded).Msg("document store loaded")
	return loaded, nil
}

// RestaurantIndexLoader copies the snapshot into the search index
type RestaurantIndexLoader struct {
	snapshot repositories.SnapshotRepository
	index    repositories.RestaurantSearchRepository
}

// NewRestaurantIndexLoader creates a new search index loader
func NewRestaurantIndexLoader(snapshot repositories.SnapshotRepository, index repositories.RestaurantSearchRepository) *RestaurantIndexLoader {
	return &RestaurantIndexLoader{snapshot: snapshot, index: index}
}

// Load ensures the index exists and writes one document per business
func (l *RestaurantIndexLoader) Load(ctx context.Context) (int, error) {
	ctx, span := observability.StartSpan(ctx, "loader.index")
	defer span.End()

	businesses, err := l.snapshot.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.index.InitSchema(ctx); err != nil {
		return 0, err
	}

	indexed := 0
	for _, id := range sortedIDs(businesses) {
		if err := l.index.Index(ctx, businesses[id].ToSearchDocument()); err != nil {
			observability.RecordError(span, err)
			return indexed, err
		}
		indexed++
	}

	observability.LoggerFromContext(ctx).Info().Int("documents", indexed).Msg("search index loaded")
	return indexed, nil
}

func sortedIDs(businesses map[string]*entities.Business) []string {
	ids := make([]string, 0, len(businesses))
	for id, b := range businesses {
		if b != nil {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
