// Package mevzuat provides a hybrid search engine for Turkish legal
// documents.
//
// The engine combines lexical full-text search with semantic vector search:
// queries are expanded using legal synonym and abbreviation tables, both
// retrieval paths run in parallel, and their scores are fused into a single
// ranking. Faceted drill-down, completion suggestions and search statistics
// sit on top.
//
// Basic usage:
//
//	client, err := mevzuat.New(
//	    mevzuat.WithSQLite(".mevzuat/mevzuat.db"),
//	    mevzuat.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	results, err := client.Search.Search(ctx, "kıdem tazminatı",
//	    service.WithLimit(10),
//	)
//	for _, r := range results {
//	    fmt.Println(r.DocumentTitle(), r.ArticleNumber(), r.Score())
//	}
package mevzuat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/mevzuatlab/mevzuat/application/service"
	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/infrastructure/persistence"
	"github.com/mevzuatlab/mevzuat/infrastructure/provider"
	infrasearch "github.com/mevzuatlab/mevzuat/infrastructure/search"
	"github.com/mevzuatlab/mevzuat/internal/database"
	"github.com/mevzuatlab/mevzuat/internal/log"
	"gorm.io/gorm"
)

// Client is the main entry point for the mevzuat library.
//
// Access resources via struct fields:
//
//	client.Search.Search(ctx, "kira sözleşmesi")
//	client.Documents.Add(ctx, params)
type Client struct {
	// Public resource fields (direct service access)
	Search    *service.Search
	Documents *service.Document

	db     *gorm.DB
	logger *slog.Logger
	closed atomic.Bool
}

// New creates a new Client with the given options. The database schema is
// migrated and the vector index warmed from persisted embeddings before New
// returns.
func New(opts ...Option) (*Client, error) {
	cfg := newClientConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.New(cfg.app)
	}

	dbURL := cfg.app.DBURL()
	if database.IsSQLite(dbURL) && !strings.Contains(dbURL, ":memory:") {
		path := strings.TrimPrefix(strings.TrimPrefix(dbURL, "sqlite://"), "sqlite:")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("prepare database dir: %w", err)
		}
	}

	db, err := database.Open(dbURL)
	if err != nil {
		return nil, err
	}

	store := persistence.NewDocumentStore(db)
	if err := store.Migrate(); err != nil {
		return nil, errors.Join(fmt.Errorf("migrate schema: %w", err), closeDB(db))
	}

	var keyword search.KeywordStore
	if database.IsSQLite(dbURL) {
		keyword = persistence.NewSQLiteKeywordStore(db, logger)
	} else {
		keyword = persistence.NewPostgresKeywordStore(db, logger)
	}

	embeddings := persistence.NewGormEmbeddingStore(db)
	history := persistence.NewGormHistoryStore(db)
	index := infrasearch.NewMemoryIndex()

	var embedder search.Embedder
	if cfg.app.Embedding().Configured() {
		openAI, err := provider.NewOpenAIEmbedder(cfg.app.Embedding())
		if err != nil {
			return nil, errors.Join(fmt.Errorf("embedding provider: %w", err), closeDB(db))
		}
		embedder = openAI
	}
	if cfg.embedder != nil {
		embedder = cfg.embedder
	}

	client := &Client{db: db, logger: logger}

	searchSvc, err := service.NewSearch(store, keyword, embeddings, history, index,
		embedder, cfg.app, &client.closed, logger)
	if err != nil {
		return nil, errors.Join(err, closeDB(db))
	}
	client.Search = searchSvc
	client.Documents = service.NewDocument(store, searchSvc, &client.closed, logger)

	// Warm the vector index from persisted embeddings so semantic search
	// works without a rebuild after restart.
	if err := searchSvc.WarmIndex(context.Background()); err != nil {
		logger.Warn("vector index warm-up failed", "error", err)
	}

	logger.Info("mevzuat client ready",
		"database", dbURL, "semantic", searchSvc.SemanticEnabled())
	return client, nil
}

// Close releases the database connection. Further service calls return
// ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return service.ErrClientClosed
	}

	if err := closeDB(c.db); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	c.logger.Info("mevzuat client closed")
	return nil
}

// Logger returns the client's logger.
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
