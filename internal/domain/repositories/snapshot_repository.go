package repositories

import (
	"context"

	"github.com/zatekoja/diningconcierge/internal/domain/entities"
)

// SnapshotRepository persists the scraped business directory as a single document.
type SnapshotRepository interface {
	Save(ctx context.Context, businesses map[string]*entities.Business) error
	Load(ctx context.Context) (map[string]*entities.Business, error)
}
