package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mevzuatlab/mevzuat/domain/search"
)

// GormHistoryStore implements search.HistoryStore using GORM.
type GormHistoryStore struct {
	db *gorm.DB
}

// NewGormHistoryStore creates a GormHistoryStore.
func NewGormHistoryStore(db *gorm.DB) GormHistoryStore {
	return GormHistoryStore{db: db}
}

// Add records one search.
func (s GormHistoryStore) Add(ctx context.Context, entry search.HistoryEntry) error {
	entity := SearchHistoryEntity{
		Query:       entry.Query(),
		SearchType:  string(entry.SearchType()),
		ResultCount: entry.ResultCount(),
		ExecutionMS: entry.ExecutionMS(),
		CreatedAt:   entry.At(),
	}
	if err := s.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return fmt.Errorf("record search history: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s GormHistoryStore) Recent(ctx context.Context, limit int) ([]search.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	var entities []SearchHistoryEntity
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("load search history: %w", err)
	}

	entries := make([]search.HistoryEntry, len(entities))
	for i, e := range entities {
		entries[i] = search.NewHistoryEntry(
			e.Query, search.Type(e.SearchType), e.ResultCount, e.ExecutionMS, e.CreatedAt)
	}
	return entries, nil
}

// PopularQueries returns the most frequent queries, most frequent first.
func (s GormHistoryStore) PopularQueries(ctx context.Context, limit int) ([]search.QueryCount, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.WithContext(ctx).
		Model(&SearchHistoryEntity{}).
		Select("query, COUNT(*) AS n").
		Group("query").
		Order("n DESC, query").
		Limit(limit).
		Rows()
	if err != nil {
		return nil, fmt.Errorf("load popular queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []search.QueryCount
	for rows.Next() {
		var query string
		var n int64
		if err := rows.Scan(&query, &n); err != nil {
			return nil, err
		}
		out = append(out, search.NewQueryCount(query, n))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AverageExecutionMS returns the mean recorded latency and the entry count.
func (s GormHistoryStore) AverageExecutionMS(ctx context.Context) (float64, int64, error) {
	var result struct {
		Avg float64
		N   int64
	}
	err := s.db.WithContext(ctx).
		Model(&SearchHistoryEntity{}).
		Select("COALESCE(AVG(execution_ms), 0) AS avg, COUNT(*) AS n").
		Scan(&result).Error
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate search history: %w", err)
	}
	return result.Avg, result.N, nil
}
