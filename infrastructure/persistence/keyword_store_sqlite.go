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

// SQL statements for SQLite FTS5 operations.
const (
	sqliteCreateFTSTable = `
CREATE VIRTUAL TABLE IF NOT EXISTS mevzuat_fts USING fts5(
    article_id UNINDEXED,
    body,
    tokenize='unicode61 remove_diacritics 2'
)`

	sqliteFTSInsert = `INSERT INTO mevzuat_fts (article_id, body) VALUES (?, ?)`

	sqliteFTSDelete = `DELETE FROM mevzuat_fts WHERE article_id IN ?`

	sqliteFTSReset = `DELETE FROM mevzuat_fts`
)

// ErrKeywordStoreInitFailed indicates FTS5 initialization failed.
var ErrKeywordStoreInitFailed = errors.New("failed to initialize sqlite fts5 keyword store")

// SQLiteKeywordStore implements search.KeywordStore using SQLite FTS5.
// Article text is folded before indexing so queries match regardless of
// Turkish diacritics.
type SQLiteKeywordStore struct {
	db          *gorm.DB
	logger      *slog.Logger
	initialized bool
	mu          sync.Mutex
}

// NewSQLiteKeywordStore creates a SQLiteKeywordStore.
func NewSQLiteKeywordStore(db *gorm.DB, logger *slog.Logger) *SQLiteKeywordStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteKeywordStore{db: db, logger: logger}
}

func (s *SQLiteKeywordStore) initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := s.db.WithContext(ctx).Exec(sqliteCreateFTSTable).Error; err != nil {
		return errors.Join(ErrKeywordStoreInitFailed, err)
	}
	s.initialized = true
	return nil
}

// Index adds documents to the lexical index, replacing existing entries.
func (s *SQLiteKeywordStore) Index(ctx context.Context, docs []search.KeywordDocument) error {
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

	ids := make([]int64, len(valid))
	for i, doc := range valid {
		ids[i] = doc.ArticleID()
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(sqliteFTSDelete, ids).Error; err != nil {
			return err
		}
		for _, doc := range valid {
			if err := tx.Exec(sqliteFTSInsert, doc.ArticleID(), turkish.Fold(doc.Text())).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Search matches any of the given terms, ordered by descending relevance.
// Metadata filters join against the article and document tables inside the
// query, so the limit only counts eligible candidates.
func (s *SQLiteKeywordStore) Search(ctx context.Context, terms []string, filters search.Filters, limit int) ([]search.Candidate, error) {
	if err := s.initialize(ctx); err != nil {
		return nil, err
	}

	match := ftsQuery(terms)
	if match == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	tx := s.db.WithContext(ctx).
		Table("mevzuat_fts").
		Select("mevzuat_fts.article_id, bm25(mevzuat_fts) AS score").
		Joins("JOIN mevzuat_articles a ON a.id = mevzuat_fts.article_id").
		Joins("JOIN mevzuat_documents d ON d.id = a.document_id").
		Where("mevzuat_fts MATCH ?", match)
	tx = applyArticleQuery(tx, filters.ArticleQuery(), "a", "d")

	rows, err := tx.Order("score").Limit(limit).Rows()
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
		// bm25() returns negative scores, more negative is better.
		results = append(results, search.NewCandidate(articleID, -score))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Delete removes articles from the index.
func (s *SQLiteKeywordStore) Delete(ctx context.Context, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	if err := s.initialize(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(sqliteFTSDelete, articleIDs).Error
}

// Reset drops the whole index.
func (s *SQLiteKeywordStore) Reset(ctx context.Context) error {
	if err := s.initialize(ctx); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec(sqliteFTSReset).Error
}

// ftsQuery builds an FTS5 MATCH expression ORing the folded terms. Each term
// is quoted so FTS5 operators inside user input stay literal; multi-word
// terms become phrases. A trailing '*' requests prefix matching and is kept
// outside the quotes, where FTS5 expects it.
func ftsQuery(terms []string) string {
	var quoted []string
	for _, term := range terms {
		folded := strings.TrimSpace(turkish.Fold(term))
		prefix := strings.HasSuffix(folded, "*")
		folded = strings.TrimRight(folded, "*")
		if folded == "" {
			continue
		}
		q := `"` + strings.ReplaceAll(folded, `"`, `""`) + `"`
		if prefix {
			q += "*"
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " OR ")
}
