package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/internal/database"
)

// DocumentStore implements document.Store using GORM.
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(db *gorm.DB) DocumentStore {
	return DocumentStore{db: db}
}

// Migrate creates or updates the document, article, embedding and history
// tables.
func (s DocumentStore) Migrate() error {
	return s.db.AutoMigrate(
		&DocumentEntity{},
		&ArticleEntity{},
		&EmbeddingEntity{},
		&SearchHistoryEntity{},
	)
}

// SaveDocument persists a document and returns it with an assigned id.
func (s DocumentStore) SaveDocument(ctx context.Context, doc document.Document) (document.Document, error) {
	entity := documentToEntity(doc)
	if err := s.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return document.Document{}, fmt.Errorf("save document: %w", err)
	}
	return documentToDomain(entity), nil
}

// SaveArticles persists articles belonging to a document.
func (s DocumentStore) SaveArticles(ctx context.Context, articles []document.Article) ([]document.Article, error) {
	if len(articles) == 0 {
		return nil, nil
	}

	entities := make([]ArticleEntity, len(articles))
	for i, art := range articles {
		entities[i] = articleToEntity(art)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range entities {
			if err := tx.Save(&entities[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("save %d articles: %w", len(articles), err)
	}

	saved := make([]document.Article, len(entities))
	for i, e := range entities {
		saved[i] = articleToDomain(e)
	}
	return saved, nil
}

// DocumentByID fetches a single document.
func (s DocumentStore) DocumentByID(ctx context.Context, id int64) (document.Document, error) {
	var entity DocumentEntity
	err := s.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return document.Document{}, fmt.Errorf("%w: document %d", database.ErrNotFound, id)
		}
		return document.Document{}, err
	}
	return documentToDomain(entity), nil
}

// articleJoin is the scan target for article+document joins.
type articleJoin struct {
	ArticleEntity
	Doc DocumentEntity `gorm:"embedded;embeddedPrefix:doc_"`
}

const articleJoinSelect = `mevzuat_articles.*,
	d.id AS doc_id, d.title AS doc_title, d.law_number AS doc_law_number,
	d.document_type AS doc_document_type, d.status AS doc_status,
	d.institution AS doc_institution, d.legal_domain AS doc_legal_domain,
	d.publication_date AS doc_publication_date`

func (s DocumentStore) joinQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("mevzuat_articles").
		Select(articleJoinSelect).
		Joins("JOIN mevzuat_documents d ON d.id = mevzuat_articles.document_id")
}

// ArticleWithDocument fetches one article joined with its document.
func (s DocumentStore) ArticleWithDocument(ctx context.Context, articleID int64) (document.ArticleRow, error) {
	var row articleJoin
	err := s.joinQuery(ctx).Where("mevzuat_articles.id = ?", articleID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return document.ArticleRow{}, fmt.Errorf("%w: article %d", database.ErrNotFound, articleID)
		}
		return document.ArticleRow{}, err
	}
	return document.NewArticleRow(articleToDomain(row.ArticleEntity), documentToDomain(row.Doc)), nil
}

// ArticlesWithDocuments fetches articles joined with their documents,
// preserving the order of ids. Unknown ids are skipped.
func (s DocumentStore) ArticlesWithDocuments(ctx context.Context, articleIDs []int64) ([]document.ArticleRow, error) {
	if len(articleIDs) == 0 {
		return nil, nil
	}

	var rows []articleJoin
	err := s.joinQuery(ctx).Where("mevzuat_articles.id IN ?", articleIDs).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load %d articles: %w", len(articleIDs), err)
	}

	byID := make(map[int64]articleJoin, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	out := make([]document.ArticleRow, 0, len(rows))
	for _, id := range articleIDs {
		row, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, document.NewArticleRow(articleToDomain(row.ArticleEntity), documentToDomain(row.Doc)))
	}
	return out, nil
}

// AllArticles returns every indexed article joined with its document.
func (s DocumentStore) AllArticles(ctx context.Context) ([]document.ArticleRow, error) {
	var rows []articleJoin
	err := s.joinQuery(ctx).Order("mevzuat_articles.id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load all articles: %w", err)
	}

	out := make([]document.ArticleRow, len(rows))
	for i, row := range rows {
		out[i] = document.NewArticleRow(articleToDomain(row.ArticleEntity), documentToDomain(row.Doc))
	}
	return out, nil
}

// ArticleIDsMatching returns the ids of articles satisfying the query,
// ascending.
func (s DocumentStore) ArticleIDsMatching(ctx context.Context, q document.ArticleQuery) ([]int64, error) {
	tx := s.db.WithContext(ctx).
		Table("mevzuat_articles").
		Joins("JOIN mevzuat_documents d ON d.id = mevzuat_articles.document_id")
	tx = applyArticleQuery(tx, q, "mevzuat_articles", "d")

	var ids []int64
	if err := tx.Order("mevzuat_articles.id").Pluck("mevzuat_articles.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("match article ids: %w", err)
	}
	return ids, nil
}

// applyArticleQuery narrows an article/document join to the rows matching q.
// art and doc name the joined sides in the current query. Year bounds
// translate to publication date ranges, so rows without a publication date
// fail either bound.
func applyArticleQuery(tx *gorm.DB, q document.ArticleQuery, art, doc string) *gorm.DB {
	if !q.IncludeRepealed {
		tx = tx.Where(art+".is_repealed = ?", false)
	}
	if len(q.Types) > 0 {
		types := make([]string, len(q.Types))
		for i, t := range q.Types {
			types[i] = string(t)
		}
		tx = tx.Where(doc+".document_type IN ?", types)
	}
	if q.YearFrom > 0 {
		tx = tx.Where(doc+".publication_date >= ?",
			time.Date(q.YearFrom, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	if q.YearTo > 0 {
		tx = tx.Where(doc+".publication_date < ?",
			time.Date(q.YearTo+1, time.January, 1, 0, 0, 0, 0, time.UTC))
	}
	return tx
}

// ArticlesByDocument returns a document's articles ordered by id.
func (s DocumentStore) ArticlesByDocument(ctx context.Context, documentID int64) ([]document.Article, error) {
	var entities []ArticleEntity
	err := s.db.WithContext(ctx).Where("document_id = ?", documentID).
		Order("id").Find(&entities).Error
	if err != nil {
		return nil, fmt.Errorf("load articles of document %d: %w", documentID, err)
	}

	out := make([]document.Article, len(entities))
	for i, e := range entities {
		out[i] = articleToDomain(e)
	}
	return out, nil
}

// DeleteDocument removes a document and its articles.
func (s DocumentStore) DeleteDocument(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var articleIDs []int64
		if err := tx.Model(&ArticleEntity{}).Where("document_id = ?", id).
			Pluck("id", &articleIDs).Error; err != nil {
			return err
		}
		if len(articleIDs) > 0 {
			if err := tx.Where("article_id IN ?", articleIDs).
				Delete(&EmbeddingEntity{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("document_id = ?", id).Delete(&ArticleEntity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&DocumentEntity{}, id).Error
	})
}
