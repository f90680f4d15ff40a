// Package persistence implements the GORM-backed stores for documents,
// articles, embeddings and search history.
package persistence

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DocumentEntity is the GORM model for legal documents.
type DocumentEntity struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement"`
	Title           string     `gorm:"column:title;not null"`
	LawNumber       string     `gorm:"column:law_number;index"`
	DocumentType    string     `gorm:"column:document_type;index"`
	Status          string     `gorm:"column:status;index"`
	Institution     string     `gorm:"column:institution"`
	LegalDomain     string     `gorm:"column:legal_domain;index"`
	PublicationDate *time.Time `gorm:"column:publication_date"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the database table name.
func (DocumentEntity) TableName() string { return "mevzuat_documents" }

// ArticleEntity is the GORM model for document articles.
type ArticleEntity struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DocumentID int64     `gorm:"column:document_id;index;not null"`
	Number     string    `gorm:"column:number"`
	Title      string    `gorm:"column:title"`
	Content    string    `gorm:"column:content;not null"`
	IsRepealed bool      `gorm:"column:is_repealed;index"`
	IsAmended  bool      `gorm:"column:is_amended"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the database table name.
func (ArticleEntity) TableName() string { return "mevzuat_articles" }

// SearchHistoryEntity is the GORM model for the search history log.
type SearchHistoryEntity struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Query       string    `gorm:"column:query;not null"`
	SearchType  string    `gorm:"column:search_type"`
	ResultCount int       `gorm:"column:result_count"`
	ExecutionMS float64   `gorm:"column:execution_ms"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

// TableName returns the database table name.
func (SearchHistoryEntity) TableName() string { return "mevzuat_search_history" }

// Float64Slice stores a []float64 as JSON, used for embedding vectors in
// backends without a native vector type.
type Float64Slice []float64

// Scan implements sql.Scanner.
func (f *Float64Slice) Scan(value any) error {
	if value == nil {
		*f = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Float64Slice", value)
	}

	return json.Unmarshal(data, f)
}

// Value implements driver.Valuer.
func (f Float64Slice) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	return json.Marshal(f)
}

// EmbeddingEntity is the GORM model for persisted article embeddings. The
// vector is JSON so the same model works on SQLite and Postgres.
type EmbeddingEntity struct {
	ID        int64        `gorm:"column:id;primaryKey;autoIncrement"`
	ArticleID int64        `gorm:"column:article_id;uniqueIndex;not null"`
	Embedding Float64Slice `gorm:"column:embedding;type:json"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
}

// TableName returns the database table name.
func (EmbeddingEntity) TableName() string { return "mevzuat_embeddings" }
