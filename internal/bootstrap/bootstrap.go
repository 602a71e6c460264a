// Package bootstrap builds the adapters each binary needs from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/diningconcierge/internal/adapters/cache"
	"github.com/zatekoja/diningconcierge/internal/adapters/database"
	"github.com/zatekoja/diningconcierge/internal/adapters/providers/directory"
	"github.com/zatekoja/diningconcierge/internal/adapters/providers/email"
	"github.com/zatekoja/diningconcierge/internal/adapters/providers/intent"
	"github.com/zatekoja/diningconcierge/internal/adapters/queue"
	"github.com/zatekoja/diningconcierge/internal/adapters/search"
	"github.com/zatekoja/diningconcierge/internal/application/services"
	"github.com/zatekoja/diningconcierge/internal/domain/providers"
	"github.com/zatekoja/diningconcierge/internal/domain/repositories"
	awsclient "github.com/zatekoja/diningconcierge/internal/infrastructure/clients/aws"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/clients/redis"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/diningconcierge/internal/infrastructure/observability"
	"github.com/zatekoja/diningconcierge/pkg/config"
)

// Backend names accepted in configuration
const (
	StorePostgres = "postgres"
	StoreDynamoDB = "dynamodb"
	QueueRedis    = "redis"
	QueueSQS      = "sqs"
)

// Container lazily builds and owns the clients shared by one binary
type Container struct {
	Config  *config.Config
	Metrics *observability.Metrics

	clientsMu sync.Mutex
	aws       *awsclient.Client
	redis     *redis.Client

	closeMu  sync.Mutex
	shutdown []func(context.Context) error
}

// New loads configuration, initialises logging, tracing and metrics, and
// returns an empty container. component names the binary in logs.
func New(ctx context.Context, component string) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewWithConfig(ctx, cfg, component)
}

// NewWithConfig is New for an already loaded configuration
func NewWithConfig(ctx context.Context, cfg *config.Config, component string) (*Container, error) {
	observability.InitLogger(cfg.OTEL.ServiceName+"-"+component, cfg.Env, cfg.LogLevel)

	c := &Container{Config: cfg}

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			c.shutdown = append(c.shutdown, shutdown)
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	c.Metrics = metrics

	return c, nil
}

// Close releases every client the container opened, newest first
func (c *Container) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for i := len(c.shutdown) - 1; i >= 0; i-- {
		if err := c.shutdown[i](ctx); err != nil {
			log.Warn().Err(err).Msg("error during shutdown")
		}
	}
	c.shutdown = nil
}

func (c *Container) onClose(fn func() error) {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	c.shutdown = append(c.shutdown, func(context.Context) error { return fn() })
}

// AWS returns the shared AWS client
func (c *Container) AWS(ctx context.Context) (*awsclient.Client, error) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	if c.aws != nil {
		return c.aws, nil
	}
	client, err := awsclient.NewClient(ctx, &c.Config.AWS)
	if err != nil {
		return nil, err
	}
	c.aws = client
	return client, nil
}

// Redis returns the shared Redis client
func (c *Container) Redis(ctx context.Context) (*redis.Client, error) {
	c.clientsMu.Lock()
	defer c.clientsMu.Unlock()
	if c.redis != nil {
		return c.redis, nil
	}
	client, err := redis.NewClient(ctx, &c.Config.Redis)
	if err != nil {
		return nil, err
	}
	c.redis = client
	c.onClose(client.Close)
	return client, nil
}

// RestaurantStore opens the configured document store, behind the Redis
// cache when STORE_CACHE_TTL is set. The Postgres table is created when missing.
func (c *Container) RestaurantStore(ctx context.Context) (repositories.RestaurantRepository, error) {
	store, err := c.restaurantBackend(ctx)
	if err != nil || c.Config.Store.CacheTTL <= 0 {
		return store, err
	}
	client, err := c.Redis(ctx)
	if err != nil {
		return nil, err
	}
	return database.NewCachedRestaurantAdapter(store, cache.NewRedisAdapter(client), c.Config.Store.CacheTTL), nil
}

func (c *Container) restaurantBackend(ctx context.Context) (repositories.RestaurantRepository, error) {
	switch c.Config.Store.Backend {
	case StorePostgres:
		client, err := postgres.NewClient(ctx, &c.Config.Database)
		if err != nil {
			return nil, err
		}
		c.onClose(client.Close)
		adapter := database.NewRestaurantAdapter(client, c.Metrics)
		if err := adapter.InitSchema(ctx); err != nil {
			return nil, err
		}
		return adapter, nil
	case StoreDynamoDB:
		client, err := c.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return database.NewDynamoRestaurantAdapter(client.DynamoDB(), c.Config.Store.Table, c.Metrics), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", c.Config.Store.Backend)
	}
}

// SearchIndex opens the Typesense restaurant index
func (c *Container) SearchIndex(ctx context.Context) (*search.TypesenseAdapter, error) {
	client, err := typesense.NewClient(ctx, &c.Config.Typesense)
	if err != nil {
		return nil, err
	}
	return search.NewTypesenseAdapter(client, c.Metrics), nil
}

// MessageQueue opens the configured request queue
func (c *Container) MessageQueue(ctx context.Context) (providers.MessageQueue, error) {
	switch c.Config.Queue.Backend {
	case QueueRedis:
		client, err := c.Redis(ctx)
		if err != nil {
			return nil, err
		}
		return queue.NewRedisQueue(client, c.Config.Queue.Name), nil
	case QueueSQS:
		if c.Config.Queue.URL == "" {
			return nil, fmt.Errorf("QUEUE_URL is required for the sqs queue backend")
		}
		client, err := c.AWS(ctx)
		if err != nil {
			return nil, err
		}
		return queue.NewSQSQueue(client.SQS(), c.Config.Queue.URL), nil
	default:
		return nil, fmt.Errorf("unknown queue backend %q", c.Config.Queue.Backend)
	}
}

// EmailSender returns the configured email sender
func (c *Container) EmailSender(ctx context.Context) (providers.EmailSender, error) {
	var client email.SESAPI
	if c.Config.Email.Provider == email.ProviderSES {
		aws, err := c.AWS(ctx)
		if err != nil {
			return nil, err
		}
		client = aws.SES()
	}
	return email.NewSender(c.Config.Email.Provider, client)
}

// IntentEngine returns the Lex runtime provider
func (c *Container) IntentEngine(ctx context.Context) (providers.IntentEngine, error) {
	client, err := c.AWS(ctx)
	if err != nil {
		return nil, err
	}
	return intent.NewLexProvider(client.Lex(), c.Config.Lex.BotName, c.Config.Lex.BotAlias), nil
}

// Directory returns the rate limited business directory client
func (c *Container) Directory() providers.DirectoryProvider {
	return directory.NewYelpProviderWithOptions(c.Config.Yelp.APIKey, c.Config.Yelp.BaseURL, nil, c.Config.Yelp.RateLimit)
}

// ConversationService wires the chatbot front door
func (c *Container) ConversationService(ctx context.Context) (*services.ConversationService, error) {
	engine, err := c.IntentEngine(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewConversationService(engine, c.Config.Lex.SessionID), nil
}

// FulfillmentService wires the intent fulfillment handler
func (c *Container) FulfillmentService(ctx context.Context) (*services.FulfillmentService, error) {
	q, err := c.MessageQueue(ctx)
	if err != nil {
		return nil, err
	}
	validator := services.NewDiningRequestValidator(c.Config.Catalog, c.Config.Location())
	return services.NewFulfillmentService(validator, q, c.Metrics), nil
}

// RecommendationService wires the recommendation worker
func (c *Container) RecommendationService(ctx context.Context) (*services.RecommendationService, error) {
	q, err := c.MessageQueue(ctx)
	if err != nil {
		return nil, err
	}
	index, err := c.SearchIndex(ctx)
	if err != nil {
		return nil, err
	}
	store, err := c.RestaurantStore(ctx)
	if err != nil {
		return nil, err
	}
	sender, err := c.EmailSender(ctx)
	if err != nil {
		return nil, err
	}

	cfg := c.Config
	return services.NewRecommendationService(q, index, store, sender, services.RecommendationOptions{
		Count:      cfg.Recommendation.Count,
		SearchSize: cfg.Recommendation.SearchSize,
		MaxRedraws: cfg.Recommendation.MaxRedraws,
		CityMarker: cfg.Catalog.CityMarker,
		Sender:     cfg.Email.Sender,
		Subject:    cfg.Email.Subject,
		Receive: providers.ReceiveOptions{
			MaxMessages:       1,
			VisibilityTimeout: cfg.Queue.VisibilityTimeout,
			WaitTime:          cfg.Queue.WaitTime,
		},
	}, c.Metrics), nil
}
