package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

const restaurantsTable = "restaurants"

const createRestaurantsTable = `
	CREATE TABLE IF NOT EXISTS restaurants (
		business_id    TEXT PRIMARY KEY,
		name           TEXT NOT NULL,
		address        TEXT NOT NULL DEFAULT '',
		latitude       NUMERIC,
		longitude      NUMERIC,
		num_of_reviews INTEGER NOT NULL DEFAULT 0,
		rating         NUMERIC(3, 1) NOT NULL DEFAULT 0,
		zip_code       TEXT NOT NULL DEFAULT '',
		cuisine        TEXT[] NOT NULL DEFAULT '{}',
		inserted_at    TIMESTAMP NOT NULL
	)`

// RestaurantAdapter implements the restaurant document store in Postgres.
type RestaurantAdapter struct {
	client  *postgres.Client
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewRestaurantAdapter creates a new restaurant adapter. metrics may be nil.
func NewRestaurantAdapter(client *postgres.Client, metrics *observability.Metrics) *RestaurantAdapter {
	return &RestaurantAdapter{
		client:  client,
		db:      goqu.New("postgres", client.DB()),
		metrics: metrics,
	}
}

var _ repositories.RestaurantRepository = (*RestaurantAdapter)(nil)

// InitSchema creates the restaurants table if it does not exist.
func (a *RestaurantAdapter) InitSchema(ctx context.Context) error {
	if _, err := a.client.DB().ExecContext(ctx, createRestaurantsTable); err != nil {
		return apperrors.NewInternalError("failed to create restaurants table", err)
	}
	return nil
}

// Upsert inserts the restaurant or overwrites the row with the same business ID.
func (a *RestaurantAdapter) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	if restaurant == nil {
		return apperrors.NewInternalError("restaurant is nil", fmt.Errorf("restaurant is nil"))
	}
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "postgres", "upsert", time.Since(start))
	}()

	record := goqu.Record{
		"business_id":    restaurant.BusinessID,
		"name":           restaurant.Name,
		"address":        restaurant.Address,
		"latitude":       restaurant.Coordinates.Latitude,
		"longitude":      restaurant.Coordinates.Longitude,
		"num_of_reviews": restaurant.ReviewCount,
		"rating":         restaurant.Rating,
		"zip_code":       restaurant.ZipCode,
		"cuisine":        pq.Array(restaurant.Cuisines),
		"inserted_at":    restaurant.InsertedAt,
	}

	query, args, err := a.db.Insert(restaurantsTable).
		Rows(record).
		OnConflict(goqu.DoUpdate("business_id", goqu.Record{
			"name":           goqu.L("EXCLUDED.name"),
			"address":        goqu.L("EXCLUDED.address"),
			"latitude":       goqu.L("EXCLUDED.latitude"),
			"longitude":      goqu.L("EXCLUDED.longitude"),
			"num_of_reviews": goqu.L("EXCLUDED.num_of_reviews"),
			"rating":         goqu.L("EXCLUDED.rating"),
			"zip_code":       goqu.L("EXCLUDED.zip_code"),
			"cuisine":        goqu.L("EXCLUDED.cuisine"),
			"inserted_at":    goqu.L("EXCLUDED.inserted_at"),
		})).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build restaurant upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewExternalError("failed to upsert restaurant", err)
	}

	return nil
}

// GetByID retrieves a restaurant by business ID
func (a *RestaurantAdapter) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "postgres", "get", time.Since(start))
	}()

	query, args, err := a.db.From(restaurantsTable).
		Select(
			"business_id", "name", "address", "latitude", "longitude",
			"num_of_reviews", "rating", "zip_code", "cuisine", "inserted_at",
		).
		Where(goqu.Ex{"business_id": businessID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build restaurant query", err)
	}

	restaurant := &entities.Restaurant{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&restaurant.BusinessID,
		&restaurant.Name,
		&restaurant.Address,
		&restaurant.Coordinates.Latitude,
		&restaurant.Coordinates.Longitude,
		&restaurant.ReviewCount,
		&restaurant.Rating,
		&restaurant.ZipCode,
		pq.Array(&restaurant.Cuisines),
		&restaurant.InsertedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", businessID))
	}
	if err != nil {
		return nil, apperrors.NewExternalError("failed to get restaurant", err)
	}

	return restaurant, nil
}
