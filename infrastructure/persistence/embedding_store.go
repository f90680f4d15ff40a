package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mevzuatlab/mevzuat/domain/search"
)

// GormEmbeddingStore implements search.EmbeddingStore, persisting vectors as
// JSON so the same store runs on SQLite and Postgres.
type GormEmbeddingStore struct {
	db *gorm.DB
}

// NewGormEmbeddingStore creates a GormEmbeddingStore.
func NewGormEmbeddingStore(db *gorm.DB) GormEmbeddingStore {
	return GormEmbeddingStore{db: db}
}

// Save inserts or replaces one article's embedding.
func (s GormEmbeddingStore) Save(ctx context.Context, articleID int64, vector []float64) error {
	entity := EmbeddingEntity{
		ArticleID: articleID,
		Embedding: append(Float64Slice(nil), vector...),
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "article_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding"}),
		}).
		Create(&entity).Error
	if err != nil {
		return fmt.Errorf("save embedding for article %d: %w", articleID, err)
	}
	return nil
}

// All returns every persisted embedding.
func (s GormEmbeddingStore) All(ctx context.Context) ([]search.Entry, error) {
	var entities []EmbeddingEntity
	if err := s.db.WithContext(ctx).Order("article_id").Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("load embeddings: %w", err)
	}

	entries := make([]search.Entry, len(entities))
	for i, e := range entities {
		entries[i] = search.NewEntry(e.ArticleID, e.Embedding)
	}
	return entries, nil
}

// Delete removes embeddings for the given articles.
func (s GormEmbeddingStore) Delete(ctx context.Context, articleIDs []int64) error {
	if len(articleIDs) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Where("article_id IN ?", articleIDs).
		Delete(&EmbeddingEntity{}).Error
}
