package providers

import (
	"context"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
)

// DirectoryProvider defines the third-party business directory search API
type DirectoryProvider interface {
	// Search returns one page of businesses matching term near location
	Search(ctx context.Context, query DirectoryQuery) ([]*entities.Business, error)
}

// DirectoryQuery is a single paginated directory search
type DirectoryQuery struct {
	Term     string
	Location string
	Offset   int
	Limit    int
}
