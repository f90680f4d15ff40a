package dto

import "time"

// ArticleRequest is one article in a document creation request.
type ArticleRequest struct {
	Number     string `json:"number,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
	IsRepealed bool   `json:"is_repealed,omitempty"`
	IsAmended  bool   `json:"is_amended,omitempty"`
}

// DocumentRequest is the body of POST /api/v1/documents.
type DocumentRequest struct {
	Title           string           `json:"title"`
	LawNumber       string           `json:"law_number,omitempty"`
	DocumentType    string           `json:"document_type,omitempty"`
	Status          string           `json:"status,omitempty"`
	Institution     string           `json:"institution,omitempty"`
	LegalDomain     string           `json:"legal_domain,omitempty"`
	PublicationDate *time.Time       `json:"publication_date,omitempty"`
	Articles        []ArticleRequest `json:"articles"`
}

// DocumentResponse describes a stored document.
type DocumentResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	LawNumber       string     `json:"law_number,omitempty"`
	DocumentType    string     `json:"document_type"`
	Status          string     `json:"status"`
	Institution     string     `json:"institution,omitempty"`
	LegalDomain     string     `json:"legal_domain,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
}

// ArticleResponse describes a stored article.
type ArticleResponse struct {
	ID         int64  `json:"id"`
	DocumentID int64  `json:"document_id"`
	Number     string `json:"number,omitempty"`
	Title      string `json:"title,omitempty"`
	Content    string `json:"content"`
	IsRepealed bool   `json:"is_repealed"`
	IsAmended  bool   `json:"is_amended"`
}
