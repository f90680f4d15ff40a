package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
)

// Document manages the legal document corpus: persisting documents with
// their articles and keeping the search indexes in step.
type Document struct {
	store  document.Store
	search *Search
	closed *atomic.Bool
	logger *slog.Logger
}

// NewDocument creates a Document service.
func NewDocument(store document.Store, search *Search, closed *atomic.Bool, logger *slog.Logger) *Document {
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{store: store, search: search, closed: closed, logger: logger}
}

// AddParams describes a document to add to the corpus.
type AddParams struct {
	Title           string
	LawNumber       string
	DocumentType    document.Type
	Status          document.Status
	Institution     string
	LegalDomain     string
	PublicationDate time.Time

	Articles []ArticleParams
}

// ArticleParams describes one article of a document being added.
type ArticleParams struct {
	Number     string
	Title      string
	Content    string
	IsRepealed bool
	IsAmended  bool
}

// Add persists a document with its articles and indexes them for search.
// The document type is classified from the title when not given.
func (d *Document) Add(ctx context.Context, params AddParams) (document.Document, error) {
	if d.closed != nil && d.closed.Load() {
		return document.Document{}, ErrClientClosed
	}
	if strings.TrimSpace(params.Title) == "" {
		return document.Document{}, fmt.Errorf("document title is required")
	}

	docType := params.DocumentType
	if docType == "" {
		docType = document.NormalizeType(params.Title)
	}
	status := params.Status
	if status == "" {
		status = document.StatusActive
	}

	doc := document.NewDocument(0, params.Title, params.LawNumber, docType,
		status, params.Institution, params.LegalDomain, params.PublicationDate)
	doc, err := d.store.SaveDocument(ctx, doc)
	if err != nil {
		return document.Document{}, fmt.Errorf("add document: %w", err)
	}

	articles := make([]document.Article, len(params.Articles))
	for i, a := range params.Articles {
		articles[i] = document.NewArticle(0, doc.ID(), a.Number, a.Title, a.Content,
			a.IsRepealed, a.IsAmended)
	}
	articles, err = d.store.SaveArticles(ctx, articles)
	if err != nil {
		return document.Document{}, fmt.Errorf("add articles of %q: %w", params.Title, err)
	}

	if err := d.search.IndexDocument(ctx, doc, articles); err != nil {
		return document.Document{}, fmt.Errorf("index %q: %w", params.Title, err)
	}

	d.logger.Info("document added",
		"document_id", doc.ID(), "type", string(doc.Type()), "articles", len(articles))
	return doc, nil
}

// Get fetches one document.
func (d *Document) Get(ctx context.Context, id int64) (document.Document, error) {
	return d.store.DocumentByID(ctx, id)
}

// Articles returns a document's articles ordered by id.
func (d *Document) Articles(ctx context.Context, documentID int64) ([]document.Article, error) {
	return d.store.ArticlesByDocument(ctx, documentID)
}

// Remove deletes a document with its articles and drops them from the
// search indexes.
func (d *Document) Remove(ctx context.Context, id int64) error {
	if d.closed != nil && d.closed.Load() {
		return ErrClientClosed
	}

	articles, err := d.store.ArticlesByDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("remove document %d: %w", id, err)
	}
	articleIDs := make([]int64, len(articles))
	for i, a := range articles {
		articleIDs[i] = a.ID()
	}

	if err := d.search.RemoveDocument(ctx, articleIDs); err != nil {
		return fmt.Errorf("deindex document %d: %w", id, err)
	}
	if err := d.store.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("remove document %d: %w", id, err)
	}

	d.logger.Info("document removed", "document_id", id, "articles", len(articleIDs))
	return nil
}
