package search

import (
	"context"
	"fmt"
	"time"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/diningconcierge/internal/domain/entities"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	tsclient "github.com/zatekoja/diningconcierge/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/diningconcierge/pkg/errors"
)

// maxPerPage is the largest page Typesense serves in one search call
const maxPerPage = 250

// TypesenseAdapter implements restaurant search using Typesense
type TypesenseAdapter struct {
	client  *tsclient.Client
	metrics *observability.Metrics
}

// Ensure TypesenseAdapter implements RestaurantSearchRepository
var _ repositories.RestaurantSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter. metrics may be nil.
func NewTypesenseAdapter(client *tsclient.Client, metrics *observability.Metrics) *TypesenseAdapter {
	return &TypesenseAdapter{client: client, metrics: metrics}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if err := a.client.InitSchema(ctx); err != nil {
		return apperrors.NewExternalError("failed to initialise search schema", err)
	}
	return nil
}

// Reset drops the collection so the next InitSchema starts empty
func (a *TypesenseAdapter) Reset(ctx context.Context) error {
	if err := a.client.Drop(ctx); err != nil {
		return apperrors.NewExternalError("failed to reset search index", err)
	}
	return nil
}

// Index upserts a search document. Typesense applies writes synchronously,
// so the document is searchable once the call returns.
func (a *TypesenseAdapter) Index(ctx context.Context, doc *entities.SearchDocument) error {
	if doc == nil {
		return apperrors.NewInternalError("search document is nil", fmt.Errorf("search document is nil"))
	}
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "typesense", "index", time.Since(start))
	}()

	cuisines := doc.Cuisines
	if cuisines == nil {
		cuisines = []string{}
	}
	document := map[string]interface{}{
		"id":      doc.ID,
		"cuisine": cuisines,
	}

	if _, err := a.client.Client().Collection(a.client.Collection()).Documents().Upsert(ctx, document); err != nil {
		return apperrors.NewExternalError(fmt.Sprintf("failed to index restaurant %s", doc.ID), err)
	}
	return nil
}

// SearchByCuisine returns up to size documents whose cuisine matches the query
func (a *TypesenseAdapter) SearchByCuisine(ctx context.Context, cuisine string, size int) ([]entities.SearchDocument, error) {
	start := time.Now()
	defer func() {
		observability.RecordStoreMetric(ctx, a.metrics, "typesense", "search", time.Since(start))
	}()

	if size <= 0 {
		return nil, nil
	}
	perPage := size
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	docs := make([]entities.SearchDocument, 0, perPage)
	for page := 1; len(docs) < size; page++ {
		params := &api.SearchCollectionParams{
			Q:       pointer.String(cuisine),
			QueryBy: pointer.String("cuisine"),
			Page:    pointer.Int(page),
			PerPage: pointer.Int(perPage),
		}

		result, err := a.client.Client().Collection(a.client.Collection()).Documents().Search(ctx, params)
		if err != nil {
			return nil, apperrors.NewExternalError(fmt.Sprintf("failed to search %s restaurants", cuisine), err)
		}
		if result.Hits == nil || len(*result.Hits) == 0 {
			break
		}

		for _, hit := range *result.Hits {
			if hit.Document == nil {
				continue
			}
			docs = append(docs, documentFromHit(*hit.Document))
			if len(docs) == size {
				break
			}
		}

		if len(*result.Hits) < perPage {
			break
		}
		if result.Found != nil && len(docs) >= *result.Found {
			break
		}
	}

	return docs, nil
}

func documentFromHit(doc map[string]interface{}) entities.SearchDocument {
	out := entities.SearchDocument{}
	if id, ok := doc["id"].(string); ok {
		out.ID = id
	}
	if tags, ok := doc["cuisine"].([]interface{}); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok {
				out.Cuisines = append(out.Cuisines, s)
			}
		}
	}
	return out
}
