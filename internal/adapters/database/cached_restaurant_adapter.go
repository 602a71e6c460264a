package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// CachedRestaurantAdapter wraps a RestaurantRepository with a read-through cache
type CachedRestaurantAdapter struct {
	adapter repositories.RestaurantRepository
	cache   providers.CacheProvider
	ttl     time.Duration
}

var _ repositories.RestaurantRepository = (*CachedRestaurantAdapter)(nil)

// NewCachedRestaurantAdapter creates a new cached restaurant adapter
func NewCachedRestaurantAdapter(adapter repositories.RestaurantRepository, cache providers.CacheProvider, ttl time.Duration) *CachedRestaurantAdapter {
	return &CachedRestaurantAdapter{
		adapter: adapter,
		cache:   cache,
		ttl:     ttl,
	}
}

func restaurantCacheKey(id string) string {
	return fmt.Sprintf("restaurant:%s", id)
}

// GetByID serves the record from cache, falling back to the store on a miss.
// Cache failures never fail the read.
func (a *CachedRestaurantAdapter) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	logger := observability.LoggerFromContext(ctx)
	cacheKey := restaurantCacheKey(businessID)

	cached, err := a.cache.Get(ctx, cacheKey)
	if err == nil {
		var restaurant entities.Restaurant
		decodeErr := json.Unmarshal(cached, &restaurant)
		if decodeErr == nil {
			return &restaurant, nil
		}
		logger.Warn().Err(decodeErr).Str("business_id", businessID).Msg("failed to unmarshal cached restaurant")
	} else if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		logger.Warn().Err(err).Msg("restaurant cache unavailable")
	}

	restaurant, err := a.adapter.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(restaurant); err == nil {
		if err := a.cache.Set(ctx, cacheKey, data, a.ttl); err != nil {
			logger.Warn().Err(err).Str("business_id", businessID).Msg("failed to cache restaurant")
		}
	}
	return restaurant, nil
}

// Upsert writes through to the store and invalidates the cached copy
func (a *CachedRestaurantAdapter) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	if err := a.adapter.Upsert(ctx, restaurant); err != nil {
		return err
	}
	if err := a.cache.Delete(ctx, restaurantCacheKey(restaurant.BusinessID)); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("business_id", restaurant.BusinessID).
			Msg("failed to invalidate cached restaurant")
	}
	return nil
}
