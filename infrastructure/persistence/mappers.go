package persistence

import (
	"time"

	"github.com/mevzuatlab/mevzuat/domain/document"
)

func documentToEntity(doc document.Document) DocumentEntity {
	var published *time.Time
	if !doc.PublicationDate().IsZero() {
		t := doc.PublicationDate()
		published = &t
	}
	return DocumentEntity{
		ID:              doc.ID(),
		Title:           doc.Title(),
		LawNumber:       doc.LawNumber(),
		DocumentType:    string(doc.Type()),
		Status:          string(doc.Status()),
		Institution:     doc.Institution(),
		LegalDomain:     doc.LegalDomain(),
		PublicationDate: published,
	}
}

func documentToDomain(e DocumentEntity) document.Document {
	var published time.Time
	if e.PublicationDate != nil {
		published = *e.PublicationDate
	}
	return document.NewDocument(
		e.ID,
		e.Title,
		e.LawNumber,
		document.Type(e.DocumentType),
		document.Status(e.Status),
		e.Institution,
		e.LegalDomain,
		published,
	)
}

func articleToEntity(art document.Article) ArticleEntity {
	return ArticleEntity{
		ID:         art.ID(),
		DocumentID: art.DocumentID(),
		Number:     art.Number(),
		Title:      art.Title(),
		Content:    art.Content(),
		IsRepealed: art.IsRepealed(),
		IsAmended:  art.IsAmended(),
	}
}

func articleToDomain(e ArticleEntity) document.Article {
	return document.NewArticle(
		e.ID,
		e.DocumentID,
		e.Number,
		e.Title,
		e.Content,
		e.IsRepealed,
		e.IsAmended,
	)
}
