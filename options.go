package mevzuat

import (
	"log/slog"

	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/internal/config"
)

// clientConfig holds configuration for Client construction. Defaults come
// from internal/config so the library and the CLI share one source of truth.
type clientConfig struct {
	app      config.AppConfig
	embedder search.Embedder
	logger   *slog.Logger
}

func newClientConfig() *clientConfig {
	return &clientConfig{app: config.NewAppConfig()}
}

// Option configures the Client.
type Option func(*clientConfig)

// WithSQLite stores documents and indexes in a SQLite file. Keyword search
// uses FTS5.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithDBURL("sqlite://" + path)
	}
}

// WithPostgres stores documents and indexes in PostgreSQL. Keyword search
// uses tsvector full-text search.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithDBURL(dsn)
	}
}

// WithDatabaseURL sets the database connection URL directly
// (sqlite://path, sqlite::memory: or postgres://...).
func WithDatabaseURL(url string) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithDBURL(url)
	}
}

// WithConfig replaces the whole application configuration, typically loaded
// from the environment via config.LoadFromEnv.
func WithConfig(cfg config.AppConfig) Option {
	return func(c *clientConfig) {
		c.app = cfg
	}
}

// WithOpenAI enables semantic search through the OpenAI embeddings API.
func WithOpenAI(apiKey string) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithEmbedding(config.NewEndpoint(config.WithAPIKey(apiKey)))
	}
}

// WithEmbeddingEndpoint enables semantic search through an OpenAI-compatible
// embeddings endpoint with custom settings.
func WithEmbeddingEndpoint(endpoint config.Endpoint) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithEmbedding(endpoint)
	}
}

// WithEmbedder sets a custom embedding provider, overriding any configured
// endpoint.
func WithEmbedder(e search.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithWeights overrides the keyword and semantic fusion weights.
func WithWeights(keyword, semantic float64) Option {
	return func(c *clientConfig) {
		c.app = c.app.WithWeights(keyword, semantic)
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
