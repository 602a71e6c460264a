package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

func snapshotBusinesses() map[string]*entities.Business {
	return map[string]*entities.Business{
		"b": {
			ID:          "b",
			Name:        "Second",
			ReviewCount: 10,
			Rating:      decimal.RequireFromString("4.0"),
			Location:    entities.BusinessLocation{ZipCode: "10001", DisplayAddress: []string{"2 Main St", "New York, NY 10001"}},
			Cuisine:     []string{"thai"},
		},
		"a": {
			ID:          "a",
			Name:        "First",
			ReviewCount: 5,
			Rating:      decimal.RequireFromString("4.5"),
			Location:    entities.BusinessLocation{ZipCode: "10002", DisplayAddress: []string{"1 Main St", "Manhattan, NY 10002"}},
			Cuisine:     []string{"italian", "american"},
		},
	}
}

func TestRestaurantStoreLoader_Load(t *testing.T) {
	ctx := context.Background()
	insertedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("upserts every business in id order", func(t *testing.T) {
		// Arrange
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(snapshotBusinesses(), nil)
		store := new(MockRestaurantRepository)
		var order []string
		store.On("Upsert", mock.Anything, mock.AnythingOfType("*entities.Restaurant")).
			Run(func(args mock.Arguments) {
				order = append(order, args.Get(1).(*entities.Restaurant).BusinessID)
			}).
			Return(nil)
		loader := services.NewRestaurantStoreLoader(snapshot, store).WithClock(func() time.Time { return insertedAt })

		// Act
		count, err := loader.Load(ctx)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, []string{"a", "b"}, order)
		first := store.Calls[0].Arguments.Get(1).(*entities.Restaurant)
		assert.Equal(t, "1 Main St, Manhattan, NY 10002", first.Address)
		assert.Equal(t, []string{"italian", "american"}, first.Cuisines)
		assert.Equal(t, insertedAt, first.InsertedAt)
	})

	t.Run("re-running overwrites instead of duplicating", func(t *testing.T) {
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(snapshotBusinesses(), nil)
		store := memoryStore{}
		loader := services.NewRestaurantStoreLoader(snapshot, store)

		_, err := loader.Load(ctx)
		require.NoError(t, err)
		_, err = loader.Load(ctx)
		require.NoError(t, err)

		assert.Len(t, store, 2)
	})

	t.Run("stops on a store failure", func(t *testing.T) {
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(snapshotBusinesses(), nil)
		store := new(MockRestaurantRepository)
		store.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("write failed")).Once()
		loader := services.NewRestaurantStoreLoader(snapshot, store)

		count, err := loader.Load(ctx)

		assert.EqualError(t, err, "write failed")
		assert.Zero(t, count)
		store.AssertNumberOfCalls(t, "Upsert", 1)
	})

	t.Run("missing snapshot is returned", func(t *testing.T) {
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(nil, apperrors.NewNotFoundError("snapshot not found"))
		loader := services.NewRestaurantStoreLoader(snapshot, new(MockRestaurantRepository))

		_, err := loader.Load(ctx)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})
}

func TestRestaurantIndexLoader_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("initialises the schema then indexes each business", func(t *testing.T) {
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(snapshotBusinesses(), nil)
		index := new(MockRestaurantSearchRepository)
		index.On("InitSchema", mock.Anything).Return(nil)
		index.On("Index", mock.Anything, &entities.SearchDocument{ID: "a", Cuisines: []string{"italian", "american"}}).Return(nil)
		index.On("Index", mock.Anything, &entities.SearchDocument{ID: "b", Cuisines: []string{"thai"}}).Return(nil)
		loader := services.NewRestaurantIndexLoader(snapshot, index)

		count, err := loader.Load(ctx)

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		index.AssertExpectations(t)
	})

	t.Run("schema failure stops the load", func(t *testing.T) {
		snapshot := new(MockSnapshotRepository)
		snapshot.On("Load", mock.Anything).Return(snapshotBusinesses(), nil)
		index := new(MockRestaurantSearchRepository)
		index.On("InitSchema", mock.Anything).Return(errors.New("unauthorized"))
		loader := services.NewRestaurantIndexLoader(snapshot, index)

		_, err := loader.Load(ctx)

		assert.EqualError(t, err, "unauthorized")
		index.AssertNotCalled(t, "Index", mock.Anything, mock.Anything)
	})
}
