package document

import "context"

// ArticleRow is an article joined with its owning document, the shape the
// search engine consumes from storage.
type ArticleRow struct {
	article  Article
	document Document
}

// NewArticleRow creates a new ArticleRow.
func NewArticleRow(article Article, doc Document) ArticleRow {
	return ArticleRow{article: article, document: doc}
}

// Article returns the article.
func (r ArticleRow) Article() Article { return r.article }

// Document returns the owning document.
func (r ArticleRow) Document() Document { return r.document }

// ArticleQuery narrows article eligibility by document metadata. Zero
// fields are open; repealed articles are excluded unless IncludeRepealed
// is set.
type ArticleQuery struct {
	Types           []Type
	YearFrom        int
	YearTo          int
	IncludeRepealed bool
}

// Matches reports whether a row satisfies the query. Documents without a
// publication date fail any year bound.
func (q ArticleQuery) Matches(row ArticleRow) bool {
	doc := row.Document()

	if !q.IncludeRepealed && row.Article().IsRepealed() {
		return false
	}
	if len(q.Types) > 0 {
		found := false
		for _, t := range q.Types {
			if doc.Type() == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if q.YearFrom > 0 || q.YearTo > 0 {
		if doc.PublicationDate().IsZero() {
			return false
		}
		year := doc.PublicationDate().Year()
		if q.YearFrom > 0 && year < q.YearFrom {
			return false
		}
		if q.YearTo > 0 && year > q.YearTo {
			return false
		}
	}
	return true
}

// Store defines persistence operations for documents and articles.
type Store interface {
	// SaveDocument persists a document and returns it with an assigned id.
	SaveDocument(ctx context.Context, doc Document) (Document, error)

	// SaveArticles persists articles belonging to a document.
	SaveArticles(ctx context.Context, articles []Article) ([]Article, error)

	// DocumentByID fetches a single document.
	DocumentByID(ctx context.Context, id int64) (Document, error)

	// ArticleWithDocument fetches one article joined with its document.
	ArticleWithDocument(ctx context.Context, articleID int64) (ArticleRow, error)

	// ArticlesWithDocuments fetches articles joined with their documents,
	// preserving the order of ids. Unknown ids are skipped.
	ArticlesWithDocuments(ctx context.Context, articleIDs []int64) ([]ArticleRow, error)

	// AllArticles returns every indexed article joined with its document.
	AllArticles(ctx context.Context) ([]ArticleRow, error)

	// ArticlesByDocument returns a document's articles ordered by id.
	ArticlesByDocument(ctx context.Context, documentID int64) ([]Article, error)

	// ArticleIDsMatching returns the ids of articles satisfying the query,
	// ascending.
	ArticleIDsMatching(ctx context.Context, q ArticleQuery) ([]int64, error)

	// DeleteDocument removes a document and its articles.
	DeleteDocument(ctx context.Context, id int64) error
}
