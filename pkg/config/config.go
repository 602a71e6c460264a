package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Env            string
	LogLevel       string
	Timezone       string
	Server         ServerConfig
	Database       DatabaseConfig
	Redis          RedisConfig
	Typesense      TypesenseConfig
	AWS            AWSConfig
	Yelp           YelpConfig
	Lex            LexConfig
	Queue          QueueConfig
	Store          StoreConfig
	Email          EmailConfig
	Recommendation RecommendationConfig
	Catalog        Catalog
	OTEL           OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
	// AllowedOrigins for the chatbot CORS policy; "*" allows any origin
	AllowedOrigins []string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// AWSConfig holds the shared AWS SDK settings
type AWSConfig struct {
	Region   string
	Endpoint string
}

// YelpConfig holds business directory API settings
type YelpConfig struct {
	APIKey    string
	BaseURL   string
	PageSize  int
	MaxOffset int
	RateLimit float64
}

// LexConfig identifies the conversational bot the front door talks to
type LexConfig struct {
	BotName   string
	BotAlias  string
	SessionID string
}

// QueueConfig selects and configures the request queue
type QueueConfig struct {
	Backend           string
	Name              string
	URL               string
	VisibilityTimeout time.Duration
	WaitTime          time.Duration
}

// StoreConfig selects and configures the restaurant document store
type StoreConfig struct {
	Backend string
	Table   string
	// CacheTTL enables the Redis read-through cache when positive
	CacheTTL time.Duration
}

// EmailConfig holds outbound email settings
type EmailConfig struct {
	Provider string
	Sender   string
	Subject  string
}

// RecommendationConfig tunes the recommendation worker
type RecommendationConfig struct {
	Count      int
	SearchSize int
	MaxRedraws int
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	catalog := DefaultCatalog()
	if path := strings.TrimSpace(os.Getenv("CATALOG_FILE")); path != "" {
		loaded, err := LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		catalog = loaded
	}

	cfg := &Config{
		Env:      getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("TIMEZONE", "America/New_York"),
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "dining_concierge"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:        getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:     getEnv("TYPESENSE_API_KEY", "xyz"),
			Collection: getEnv("TYPESENSE_COLLECTION", "restaurants"),
		},
		AWS: AWSConfig{
			Region:   getEnv("AWS_REGION", "us-east-1"),
			Endpoint: getEnv("AWS_ENDPOINT_URL", ""),
		},
		Yelp: YelpConfig{
			APIKey:    getEnv("YELP_API_KEY", ""),
			BaseURL:   getEnv("YELP_BASE_URL", "https://api.yelp.com"),
			PageSize:  getEnvAsInt("YELP_PAGE_SIZE", 50),
			MaxOffset: getEnvAsInt("YELP_MAX_OFFSET", 1400),
			RateLimit: getEnvAsFloat("YELP_RATE_LIMIT", 5),
		},
		Lex: LexConfig{
			BotName:   getEnv("LEX_BOT_NAME", "DiningConcierge"),
			BotAlias:  getEnv("LEX_BOT_ALIAS", "dine"),
			SessionID: getEnv("LEX_SESSION_ID", "testuser"),
		},
		Queue: QueueConfig{
			Backend:           getEnv("QUEUE_BACKEND", "redis"),
			Name:              getEnv("QUEUE_NAME", "RestaurantRequest"),
			URL:               getEnv("QUEUE_URL", ""),
			VisibilityTimeout: getEnvAsDuration("QUEUE_VISIBILITY_TIMEOUT", 0),
			WaitTime:          getEnvAsDuration("QUEUE_WAIT_TIME", 0),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", "postgres"),
			Table:    getEnv("STORE_TABLE", "yelp-restaurants"),
			CacheTTL: getEnvAsDuration("STORE_CACHE_TTL", 0),
		},
		Email: EmailConfig{
			Provider: getEnv("EMAIL_PROVIDER", "log"),
			Sender:   getEnv("EMAIL_SENDER", "Dining Concierge <concierge@example.com>"),
			Subject:  getEnv("EMAIL_SUBJECT", "Dining Suggestions From Chatbot"),
		},
		Recommendation: RecommendationConfig{
			Count:      getEnvAsInt("RECOMMENDATION_COUNT", 3),
			SearchSize: getEnvAsInt("RECOMMENDATION_SEARCH_SIZE", 1000),
			MaxRedraws: getEnvAsInt("RECOMMENDATION_MAX_REDRAWS", 0),
		},
		Catalog: catalog,
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "dining-concierge"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}

	if cfg.Recommendation.Count <= 0 {
		return nil, fmt.Errorf("RECOMMENDATION_COUNT must be positive, got %d", cfg.Recommendation.Count)
	}
	if cfg.Yelp.PageSize <= 0 {
		return nil, fmt.Errorf("YELP_PAGE_SIZE must be positive, got %d", cfg.Yelp.PageSize)
	}

	return cfg, nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
