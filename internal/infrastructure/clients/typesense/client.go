package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/diningconcierge/pkg/config"
	"github.com/zatekoja/diningconcierge/pkg/retry"
)

// DefaultCollection is the collection holding restaurant search documents
const DefaultCollection = "restaurants"

// Client represents a Typesense client
type Client struct {
	client     *typesense.Client
	collection string
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(ctx context.Context, cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	err := retry.Do(ctx, retry.DefaultConfig(), "Typesense", func(ctx context.Context) error {
		healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		ok, err := client.Health(healthCtx, 2*time.Second)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("typesense reported unhealthy")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return Wrap(client, cfg.Collection), nil
}

// Wrap adapts an existing Typesense client. An empty collection selects
// DefaultCollection.
func Wrap(client *typesense.Client, collection string) *Client {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Client{client: client, collection: collection}
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// Collection returns the restaurant collection name
func (c *Client) Collection() string {
	return c.collection
}

// InitSchema ensures the restaurant collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == c.collection {
			log.Debug().Str("collection", c.collection).Msg("typesense collection already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: c.collection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name:  "cuisine",
				Type:  "string[]",
				Facet: pointer.True(),
			},
		},
	}

	if _, err := c.client.Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", c.collection).Msg("created typesense collection")
	return nil
}

// Drop deletes the restaurant collection and every document in it
func (c *Client) Drop(ctx context.Context) error {
	if _, err := c.client.Collection(c.collection).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete collection %s: %w", c.collection, err)
	}
	log.Info().Str("collection", c.collection).Msg("deleted typesense collection")
	return nil
}
