package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g. EMBEDDING_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.mevzuat
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite://{data_dir}/mevzuat.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// SearchLimit is the default search result limit.
	// Env: SEARCH_LIMIT (default: 20)
	SearchLimit int `envconfig:"SEARCH_LIMIT" default:"20"`

	// KeywordWeight is the lexical score weight for mixed search.
	// Env: KEYWORD_WEIGHT (default: 0.6)
	KeywordWeight float64 `envconfig:"KEYWORD_WEIGHT" default:"0.6"`

	// SemanticWeight is the vector score weight for mixed search.
	// Env: SEMANTIC_WEIGHT (default: 0.4)
	SemanticWeight float64 `envconfig:"SEMANTIC_WEIGHT" default:"0.4"`

	// CacheSize bounds the in-process search result cache.
	// Env: CACHE_SIZE (default: 100)
	CacheSize int `envconfig:"CACHE_SIZE" default:"100"`

	// SynonymsPath points at a YAML file overriding the built-in legal
	// synonym tables.
	// Env: SYNONYMS_PATH
	SynonymsPath string `envconfig:"SYNONYMS_PATH"`

	// FacetsPath points at a YAML file overriding the built-in facet
	// definitions.
	// Env: FACETS_PATH
	FacetsPath string `envconfig:"FACETS_PATH"`

	// EmbeddingEndpoint configures the embedding AI service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`
}

// EndpointEnv holds environment configuration for the embedding endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: EMBEDDING_ENDPOINT_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the embedding model identifier.
	// Env: EMBEDDING_ENDPOINT_MODEL (default: text-embedding-3-small)
	Model string `envconfig:"MODEL" default:"text-embedding-3-small"`

	// APIKey is the API key for authentication.
	// Env: EMBEDDING_ENDPOINT_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// TimeoutSeconds is the request timeout in seconds.
	// Env: EMBEDDING_ENDPOINT_TIMEOUT_SECONDS (default: 60)
	TimeoutSeconds int `envconfig:"TIMEOUT_SECONDS" default:"60"`

	// MaxRetries is the retry attempt count.
	// Env: EMBEDDING_ENDPOINT_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// BatchSize is the number of texts per embedding API call.
	// Env: EMBEDDING_ENDPOINT_BATCH_SIZE (default: 32)
	BatchSize int `envconfig:"BATCH_SIZE" default:"32"`

	// Parallelism is the number of concurrent embedding batches.
	// Env: EMBEDDING_ENDPOINT_PARALLELISM (default: 4)
	Parallelism int `envconfig:"PARALLELISM" default:"4"`
}

// LoadFromEnv reads configuration from environment variables and returns the
// resolved AppConfig.
func LoadFromEnv() (AppConfig, error) {
	var env EnvConfig
	if err := envconfig.Process("", &env); err != nil {
		return AppConfig{}, err
	}
	return env.ToAppConfig(), nil
}

// ToAppConfig converts the environment configuration into an AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	cfg.host = e.Host
	cfg.port = e.Port
	cfg.dataDir = e.DataDir
	cfg.dbURL = e.DBURL
	cfg.logLevel = strings.ToUpper(e.LogLevel)
	if LogFormat(strings.ToLower(e.LogFormat)) == LogFormatJSON {
		cfg.logFormat = LogFormatJSON
	}
	if e.SearchLimit > 0 {
		cfg.searchLimit = e.SearchLimit
	}
	if e.KeywordWeight >= 0 {
		cfg.keywordWeight = e.KeywordWeight
	}
	if e.SemanticWeight >= 0 {
		cfg.semanticWeight = e.SemanticWeight
	}
	if e.CacheSize > 0 {
		cfg.cacheSize = e.CacheSize
	}
	cfg.synonymsPath = e.SynonymsPath
	cfg.facetsPath = e.FacetsPath

	ep := NewEndpoint()
	ep.baseURL = e.EmbeddingEndpoint.BaseURL
	ep.model = e.EmbeddingEndpoint.Model
	ep.apiKey = e.EmbeddingEndpoint.APIKey
	if e.EmbeddingEndpoint.TimeoutSeconds > 0 {
		ep.timeout = time.Duration(e.EmbeddingEndpoint.TimeoutSeconds) * time.Second
	}
	if e.EmbeddingEndpoint.MaxRetries > 0 {
		ep.maxRetries = e.EmbeddingEndpoint.MaxRetries
	}
	if e.EmbeddingEndpoint.BatchSize > 0 {
		ep.batchSize = e.EmbeddingEndpoint.BatchSize
	}
	if e.EmbeddingEndpoint.Parallelism > 0 {
		ep.parallelism = e.EmbeddingEndpoint.Parallelism
	}
	cfg.embedding = ep

	return cfg
}
