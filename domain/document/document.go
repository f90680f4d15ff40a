// Package document provides domain types for Turkish legal documents and
// their articles ("madde").
package document

import "time"

// Status represents the lifecycle state of a legal document.
type Status string

// Status values.
const (
	StatusActive    Status = "active"
	StatusRepealed  Status = "repealed"
	StatusAmended   Status = "amended"
	StatusSuspended Status = "suspended"
	StatusDraft     Status = "draft"
)

// Document represents a legal document (statute, regulation, circular,
// court decision) as produced by the ingestion pipeline.
type Document struct {
	id              int64
	title           string
	lawNumber       string
	docType         Type
	status          Status
	institution     string
	legalDomain     string
	publicationDate time.Time
}

// NewDocument creates a new Document.
func NewDocument(
	id int64,
	title, lawNumber string,
	docType Type,
	status Status,
	institution, legalDomain string,
	publicationDate time.Time,
) Document {
	return Document{
		id:              id,
		title:           title,
		lawNumber:       lawNumber,
		docType:         docType,
		status:          status,
		institution:     institution,
		legalDomain:     legalDomain,
		publicationDate: publicationDate,
	}
}

// ID returns the stable document identifier.
func (d Document) ID() int64 { return d.id }

// Title returns the document title.
func (d Document) Title() string { return d.title }

// LawNumber returns the statute number, empty when not applicable.
func (d Document) LawNumber() string { return d.lawNumber }

// Type returns the normalized document category.
func (d Document) Type() Type { return d.docType }

// Status returns the lifecycle state.
func (d Document) Status() Status { return d.status }

// Institution returns the issuing institution key.
func (d Document) Institution() string { return d.institution }

// LegalDomain returns the legal field key (ceza, medeni, ...), empty when
// unclassified.
func (d Document) LegalDomain() string { return d.legalDomain }

// PublicationDate returns the publication date, zero when unknown.
func (d Document) PublicationDate() time.Time { return d.publicationDate }

// Article represents the smallest addressable unit of a legal document.
type Article struct {
	id         int64
	documentID int64
	number     string
	title      string
	content    string
	isRepealed bool
	isAmended  bool
}

// NewArticle creates a new Article.
func NewArticle(id, documentID int64, number, title, content string, isRepealed, isAmended bool) Article {
	return Article{
		id:         id,
		documentID: documentID,
		number:     number,
		title:      title,
		content:    content,
		isRepealed: isRepealed,
		isAmended:  isAmended,
	}
}

// ID returns the stable article identifier.
func (a Article) ID() int64 { return a.id }

// DocumentID returns the owning document identifier.
func (a Article) DocumentID() int64 { return a.documentID }

// Number returns the article number ("madde" number), empty when the source
// text had no article structure.
func (a Article) Number() string { return a.number }

// Title returns the article heading, may be empty.
func (a Article) Title() string { return a.title }

// Content returns the full article text.
func (a Article) Content() string { return a.content }

// IsRepealed reports whether the article is repealed ("mülga").
func (a Article) IsRepealed() bool { return a.isRepealed }

// IsAmended reports whether the article has been amended.
func (a Article) IsAmended() bool { return a.isAmended }
