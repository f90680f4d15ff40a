package persistence

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/mevzuatlab/mevzuat/domain/search"
	"github.com/mevzuatlab/mevzuat/internal/turkish"
)

// SQL statements for PostgreSQL native full-text search operations.
const (
	pgCreateKeywordTable = `
CREATE TABLE IF NOT EXISTS mevzuat_keyword_documents (
    id SERIAL PRIMARY KEY,
    article_id BIGINT NOT NULL UNIQUE,
    body TEXT NOT NULL,
    tsv TSVECTOR GENERATED ALWAYS AS (to_tsvector('simple', body)) STORED
)`

	pgCreateKeywordTSVIndex = `
CREATE INDEX IF NOT EXISTS mevzuat_keyword_documents_tsv_idx
ON mevzuat_keyword_documents
USING GIN(tsv)`

	pgKeywordInsert = `
INSERT INTO mevzuat_keyword_documents (article_id, body)
VALUES (?, ?)
ON CONFLICT (article_id) DO UPDATE
SET body = EXCLUDED.body`

	pgKeywordDelete = `DELETE FROM mevzuat_keyword_documents WHERE article_id IN ?`

	pgKeywordReset = `TRUNCATE mevzuat_keyword_documents`
)

// ErrPostgresKeywordInitFailed indicates PostgreSQL FTS initialization
// failed.
var ErrPostgresKeywordInitFailed = errors.New("failed to initialize postgres keyword store")

// PostgresKeywordStore implements search.KeywordStore using PostgreSQL
// native full-text search with the 'simple' dictionary; stemming is handled
// upstream by query expansion, not the database. Text is folded so matching
// is diacritics-insensitive, mirroring the SQLite store.
type PostgresKeywordStore struct {
	db          *gorm.DB
	logger      *slog.Logger
	initialized bool
	mu          sync.Mutex
}

// NewPostgresKeywordStore creates a PostgresKeywordStore.
func NewPostgresKeywordStore(db *gorm.DB, logger *slog.Logger) *PostgresKeywordStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresKeywordStore{db: db, logger: logger}
}

func (s *PostgresKeywordStore) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	db := s.db.WithContext(ctx)
	if err := db.Exec(pgCreateKeywordTable).Error; err != nil {
		return errors.Join(ErrPostgresKeywordInitFailed, err)
	}
	if err := db.Exec(pgCreateKeywordTSVIndex).Error; err != nil {
		return errors.Join(ErrPostgresKeywordInitFailed, err)
	}

	s.initialized = true
	return nil
}

// Index adds documents to the lexical index, replacing existing entries.
func (s *PostgresKeywordStore) Index(ctx context.Context, docs []search.KeywordDocument) error {
	if err := s.initialize(ctx); err != nil {
		return err
	}

	var valid []search.KeywordDocument
	for _, doc := range docs {
		if doc.ArticleID() > 0 && doc.Text() != "" {
			valid = append(valid, doc)
		}
	}
	if len(valid) == 0 {
		s.logger.Warn("keyword corpus is empty, skipping index")
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, doc := range valid {
			if err := tx.Exec(pgKeywordInsert, doc.ArticleID(), turkish.Fold(doc.Text())).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Search matches any of the given terms, ordered by descending rank.
// Metadata filters join against the article and document tables inside the
// query, so the limit only counts eligible candidates.
func (s *PostgresKeywordStore) Search(ctx context.Context, terms []string, filters search.Filters, limit int) ([]search.Candidate, error) {
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	query := tsQuery(terms)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).
		Table("mevzuat_keyword_documents kd").
		Select("kd.article_id, ts_rank(kd.tsv, to_tsquery('simple', ?)) AS score", query).
		Joins("JOIN mevzuat_articles a ON a.id = kd.article_id").
		Joins("JOIN mevzuat_documents d ON d.id = a.document_id").
		Where("kd.tsv @@ to_tsquery('simple', ?)", query)
	tx = applyArticleQuery(tx, filters.ArticleQuery(), "a", "d")

	rows, err := tx.Order("score DESC").Limit(limit).Rows()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []search.Candidate
	for rows.Next() {
		var articleID int64
		var score float64
		if err := rows.Scan(&articleID, &score); err != nil {
			return nil, err
		}
		results = append(results, search.NewCandidate(articleID, score))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes articles from the index.
func (s *PostgresKeywordStore) Delete(ctx context.Context, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	if err := s.initialize(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(pgKeywordDelete, articleIDs).Error
}

// Reset drops the whole index.
func (s *PostgresKeywordStore) Reset(ctx context.Context) error {
	if err := s.initialize(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(pgKeywordReset).Error
}

// tsQuery builds a to_tsquery expression ORing the folded terms. Multi-word
// terms become phrase queries (<->). A trailing '*' requests prefix matching
// via the ':*' lexeme suffix.
func tsQuery(terms []string) string {
	var parts []string
	for _, term := range terms {
		folded := turkish.Fold(term)
		prefix := strings.HasSuffix(strings.TrimSpace(folded), "*")
		words := strings.Fields(strings.ReplaceAll(folded, "*", " "))
		if len(words) == 0 {
			continue
		}
		for i, w := range words {
			words[i] = quoteLexeme(w)
		}
		if prefix {
			words[len(words)-1] += ":*"
		}
		parts = append(parts, strings.Join(words, " <-> "))
	}
	return strings.Join(parts, " | ")
}

func quoteLexeme(w string) string {
	return "'" + strings.ReplaceAll(w, "'", "''") + "'"
}
