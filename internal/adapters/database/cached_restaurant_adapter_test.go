package database_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/adapters/cache"
	"github.com/zatekoja/diningconcierge/internal/adapters/database"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	redisclient "github.com/zatekoja/diningconcierge/internal/infrastructure/clients/redis"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// MockRestaurantRepository is a mock implementation of repositories.RestaurantRepository
type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func newRedisCache(t *testing.T) (*cache.RedisAdapter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.NewRedisAdapter(redisclient.Wrap(rdb)), mr
}

func TestCachedRestaurantAdapter_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		// Arrange
		redisCache, mr := newRedisCache(t)
		store := new(MockRestaurantRepository)
		store.On("GetByID", mock.Anything, "abc").Return(sampleRestaurant(), nil).Once()
		adapter := database.NewCachedRestaurantAdapter(store, redisCache, time.Hour)

		// Act
		first, err := adapter.GetByID(ctx, "abc")
		require.NoError(t, err)
		second, err := adapter.GetByID(ctx, "abc")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Address, second.Address)
		assert.True(t, first.Rating.Equal(second.Rating))
		assert.True(t, mr.Exists("restaurant:abc"))
		store.AssertNumberOfCalls(t, "GetByID", 1)
	})

	t.Run("corrupt entry falls back to the store and logs the decode error", func(t *testing.T) {
		redisCache, mr := newRedisCache(t)
		require.NoError(t, mr.Set("restaurant:abc", "{not json"))
		store := new(MockRestaurantRepository)
		store.On("GetByID", mock.Anything, "abc").Return(sampleRestaurant(), nil).Once()
		adapter := database.NewCachedRestaurantAdapter(store, redisCache, time.Hour)

		var logs bytes.Buffer
		logger := zerolog.New(&logs)
		logCtx := logger.WithContext(ctx)

		got, err := adapter.GetByID(logCtx, "abc")

		require.NoError(t, err)
		assert.Equal(t, "Trattoria", got.Name)
		assert.Contains(t, logs.String(), "failed to unmarshal cached restaurant")
		assert.Contains(t, logs.String(), `"error":"invalid character`)
		store.AssertExpectations(t)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		redisCache, mr := newRedisCache(t)
		store := new(MockRestaurantRepository)
		store.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("restaurant ghost not found"))
		adapter := database.NewCachedRestaurantAdapter(store, redisCache, time.Hour)

		_, err := adapter.GetByID(ctx, "ghost")

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
		assert.False(t, mr.Exists("restaurant:ghost"))
	})

	t.Run("unreadable cache entry falls back to the store", func(t *testing.T) {
		redisCache, mr := newRedisCache(t)
		require.NoError(t, mr.Set("restaurant:abc", "not json"))
		store := new(MockRestaurantRepository)
		store.On("GetByID", mock.Anything, "abc").Return(sampleRestaurant(), nil)
		adapter := database.NewCachedRestaurantAdapter(store, redisCache, time.Hour)

		got, err := adapter.GetByID(ctx, "abc")

		require.NoError(t, err)
		assert.Equal(t, "Trattoria", got.Name)
	})
}

func TestCachedRestaurantAdapter_Upsert_Invalidates(t *testing.T) {
	ctx := context.Background()
	redisCache, mr := newRedisCache(t)
	require.NoError(t, mr.Set("restaurant:abc", "{}"))
	store := new(MockRestaurantRepository)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	adapter := database.NewCachedRestaurantAdapter(store, redisCache, time.Hour)

	require.NoError(t, adapter.Upsert(ctx, sampleRestaurant()))

	assert.False(t, mr.Exists("restaurant:abc"))
}
