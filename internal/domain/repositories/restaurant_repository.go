package repositories

import (
	"context"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
)

// RestaurantRepository defines the document store holding full restaurant records.
type RestaurantRepository interface {
	// Upsert writes the record keyed by business ID, overwriting any previous entry
	Upsert(ctx context.Context, restaurant *entities.Restaurant) error

	// GetByID retrieves a restaurant by business ID
	GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error)
}
