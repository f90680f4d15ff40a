package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mevzuatlab/mevzuat"
	"github.com/mevzuatlab/mevzuat/application/service"
	"github.com/mevzuatlab/mevzuat/domain/document"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/middleware"
	"github.com/mevzuatlab/mevzuat/infrastructure/api/v1/dto"
)

// DocumentsRouter handles document corpus endpoints.
type DocumentsRouter struct {
	client *mevzuat.Client
	logger *slog.Logger
}

// NewDocumentsRouter creates a DocumentsRouter.
func NewDocumentsRouter(client *mevzuat.Client) *DocumentsRouter {
	return &DocumentsRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for document endpoints.
func (r *DocumentsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/", r.Create)
	router.Get("/{id}", r.Get)
	router.Get("/{id}/articles", r.Articles)
	router.Delete("/{id}", r.Delete)

	return router
}

// Create handles POST /api/v1/documents.
func (r *DocumentsRouter) Create(w http.ResponseWriter, req *http.Request) {
	var body dto.DocumentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteError(w, req, fmt.Errorf("%w: %v", middleware.ErrBadRequest, err), r.logger)
		return
	}
	if body.Title == "" {
		middleware.WriteError(w, req, fmt.Errorf("%w: title is required", middleware.ErrBadRequest), r.logger)
		return
	}

	params := service.AddParams{
		Title:        body.Title,
		LawNumber:    body.LawNumber,
		DocumentType: document.Type(body.DocumentType),
		Status:       document.Status(body.Status),
		Institution:  body.Institution,
		LegalDomain:  body.LegalDomain,
	}
	if body.PublicationDate != nil {
		params.PublicationDate = *body.PublicationDate
	}
	for _, a := range body.Articles {
		params.Articles = append(params.Articles, service.ArticleParams{
			Number:     a.Number,
			Title:      a.Title,
			Content:    a.Content,
			IsRepealed: a.IsRepealed,
			IsAmended:  a.IsAmended,
		})
	}

	doc, err := r.client.Documents.Add(req.Context(), params)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, documentDTO(doc))
}

// Get handles GET /api/v1/documents/{id}.
func (r *DocumentsRouter) Get(w http.ResponseWriter, req *http.Request) {
	id, err := documentID(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	doc, err := r.client.Documents.Get(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, documentDTO(doc))
}

// Articles handles GET /api/v1/documents/{id}/articles.
func (r *DocumentsRouter) Articles(w http.ResponseWriter, req *http.Request) {
	id, err := documentID(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	articles, err := r.client.Documents.Articles(req.Context(), id)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	out := make([]dto.ArticleResponse, len(articles))
	for i, a := range articles {
		out[i] = dto.ArticleResponse{
			ID:         a.ID(),
			DocumentID: a.DocumentID(),
			Number:     a.Number(),
			Title:      a.Title(),
			Content:    a.Content(),
			IsRepealed: a.IsRepealed(),
			IsAmended:  a.IsAmended(),
		}
	}
	middleware.WriteJSON(w, http.StatusOK, out)
}

// Delete handles DELETE /api/v1/documents/{id}.
func (r *DocumentsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	id, err := documentID(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	if err := r.client.Documents.Remove(req.Context(), id); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// IndexRouter handles index maintenance endpoints.
type IndexRouter struct {
	client *mevzuat.Client
	logger *slog.Logger
}

// NewIndexRouter creates an IndexRouter.
func NewIndexRouter(client *mevzuat.Client) *IndexRouter {
	return &IndexRouter{client: client, logger: client.Logger()}
}

// Routes returns the chi router for index endpoints.
func (r *IndexRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/rebuild", r.Rebuild)

	return router
}

// Rebuild handles POST /api/v1/index/rebuild.
func (r *IndexRouter) Rebuild(w http.ResponseWriter, req *http.Request) {
	if err := r.client.Search.RebuildIndex(req.Context()); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "rebuilt"})
}

func documentID(req *http.Request) (int64, error) {
	raw := chi.URLParam(req, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid document id %q", middleware.ErrBadRequest, raw)
	}
	return id, nil
}

func documentDTO(doc document.Document) dto.DocumentResponse {
	out := dto.DocumentResponse{
		ID:           doc.ID(),
		Title:        doc.Title(),
		LawNumber:    doc.LawNumber(),
		DocumentType: string(doc.Type()),
		Status:       string(doc.Status()),
		Institution:  doc.Institution(),
		LegalDomain:  doc.LegalDomain(),
	}
	if date := doc.PublicationDate(); !date.IsZero() {
		out.PublicationDate = &date
	}
	return out
}
