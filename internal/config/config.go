// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 8080
	DefaultLogLevel          = "INFO"
	DefaultSearchLimit       = 20
	DefaultKeywordWeight     = 0.6
	DefaultSemanticWeight    = 0.4
	DefaultCacheSize         = 100
	DefaultEmbedTimeout      = 60 * time.Second
	DefaultEmbedMaxRetries   = 5
	DefaultEmbedInitialDelay = 2 * time.Second
	DefaultEmbedBackoff      = 2.0
	DefaultEmbedBatchSize    = 32
	DefaultEmbedParallelism  = 4
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures the embedding AI service.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
	batchSize     int
	parallelism   int
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the endpoint base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the embedding model identifier.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithRetries sets the retry policy.
func WithRetries(maxRetries int, initialDelay time.Duration, backoffFactor float64) EndpointOption {
	return func(e *Endpoint) {
		e.maxRetries = maxRetries
		e.initialDelay = initialDelay
		e.backoffFactor = backoffFactor
	}
}

// WithBatching sets the embedding batch size and parallelism.
func WithBatching(batchSize, parallelism int) EndpointOption {
	return func(e *Endpoint) {
		e.batchSize = batchSize
		e.parallelism = parallelism
	}
}

// NewEndpoint creates an Endpoint with defaults.
func NewEndpoint(opts ...EndpointOption) Endpoint {
	e := Endpoint{
		timeout:       DefaultEmbedTimeout,
		maxRetries:    DefaultEmbedMaxRetries,
		initialDelay:  DefaultEmbedInitialDelay,
		backoffFactor: DefaultEmbedBackoff,
		batchSize:     DefaultEmbedBatchSize,
		parallelism:   DefaultEmbedParallelism,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the embedding model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// BatchSize returns the number of texts per embedding API call.
func (e Endpoint) BatchSize() int { return e.batchSize }

// Parallelism returns the number of concurrent embedding batches.
func (e Endpoint) Parallelism() int { return e.parallelism }

// Configured reports whether the endpoint has enough settings to be usable.
func (e Endpoint) Configured() bool {
	return e.apiKey != "" || e.baseURL != ""
}

// AppConfig holds the resolved application configuration.
type AppConfig struct {
	host           string
	port           int
	dataDir        string
	dbURL          string
	logLevel       string
	logFormat      LogFormat
	searchLimit    int
	keywordWeight  float64
	semanticWeight float64
	cacheSize      int
	synonymsPath   string
	facetsPath     string
	embedding      Endpoint
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:           DefaultHost,
		port:           DefaultPort,
		logLevel:       DefaultLogLevel,
		logFormat:      LogFormatPretty,
		searchLimit:    DefaultSearchLimit,
		keywordWeight:  DefaultKeywordWeight,
		semanticWeight: DefaultSemanticWeight,
		cacheSize:      DefaultCacheSize,
		embedding:      NewEndpoint(),
	}
}

// Host returns the server host.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port.
func (c AppConfig) Port() int { return c.port }

// Addr returns the server listen address.
func (c AppConfig) Addr() string { return fmt.Sprintf("%s:%d", c.host, c.port) }

// DataDir returns the data directory, defaulting to ~/.mevzuat.
func (c AppConfig) DataDir() string {
	if c.dataDir != "" {
		return c.dataDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mevzuat"
	}
	return filepath.Join(home, ".mevzuat")
}

// DBURL returns the database connection URL, defaulting to a SQLite file
// inside the data directory.
func (c AppConfig) DBURL() string {
	if c.dbURL != "" {
		return c.dbURL
	}
	return "sqlite://" + filepath.Join(c.DataDir(), "mevzuat.db")
}

// LogLevel returns the log verbosity level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// SearchLimit returns the default search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// KeywordWeight returns the lexical score weight used in mixed search.
func (c AppConfig) KeywordWeight() float64 { return c.keywordWeight }

// SemanticWeight returns the vector score weight used in mixed search.
func (c AppConfig) SemanticWeight() float64 { return c.semanticWeight }

// CacheSize returns the bounded search cache size in entries.
func (c AppConfig) CacheSize() int { return c.cacheSize }

// SynonymsPath returns an optional YAML file overriding the built-in legal
// synonym tables.
func (c AppConfig) SynonymsPath() string { return c.synonymsPath }

// FacetsPath returns an optional YAML file overriding the built-in facet
// definitions.
func (c AppConfig) FacetsPath() string { return c.facetsPath }

// Embedding returns the embedding endpoint configuration.
func (c AppConfig) Embedding() Endpoint { return c.embedding }

// EnsureDataDir creates the data directory if missing.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir(), 0o755)
}

// WithHost returns a copy with the host overridden when non-empty.
func (c AppConfig) WithHost(host string) AppConfig {
	if host != "" {
		c.host = host
	}
	return c
}

// WithPort returns a copy with the port overridden when positive.
func (c AppConfig) WithPort(port int) AppConfig {
	if port > 0 {
		c.port = port
	}
	return c
}

// WithDBURL returns a copy with the database URL overridden when non-empty.
func (c AppConfig) WithDBURL(url string) AppConfig {
	if url != "" {
		c.dbURL = url
	}
	return c
}

// WithEmbedding returns a copy with the embedding endpoint replaced.
func (c AppConfig) WithEmbedding(endpoint Endpoint) AppConfig {
	c.embedding = endpoint
	return c
}

// WithWeights returns a copy with the fusion weights overridden when
// positive.
func (c AppConfig) WithWeights(keyword, semantic float64) AppConfig {
	if keyword > 0 {
		c.keywordWeight = keyword
	}
	if semantic > 0 {
		c.semanticWeight = semantic
	}
	return c
}
