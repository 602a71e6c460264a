package repositories

import (
	"context"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
)

// RestaurantSearchRepository defines the search index used for cuisine lookup.
type RestaurantSearchRepository interface {
	// InitSchema creates the index if it does not exist
	InitSchema(ctx context.Context) error

	// Index writes the document keyed by ID. The write is visible to searches
	// as soon as Index returns.
	Index(ctx context.Context, doc *entities.SearchDocument) error

	// SearchByCuisine returns up to size documents matching cuisine
	SearchByCuisine(ctx context.Context, cuisine string, size int) ([]entities.SearchDocument, error)
}
