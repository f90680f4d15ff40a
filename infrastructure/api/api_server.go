package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mevzuatlab/mevzuat"
	apimiddleware "github.com/mevzuatlab/mevzuat/infrastructure/api/middleware"
	v1 "github.com/mevzuatlab/mevzuat/infrastructure/api/v1"
)

// APIServer provides an HTTP API backed by a mevzuat Client.
type APIServer struct {
	client *mevzuat.Client
	server *Server
	router chi.Router
	logger *slog.Logger
}

// NewAPIServer creates an APIServer wired to the given Client.
func NewAPIServer(client *mevzuat.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// mountRoutes wires up all v1 API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	searchRouter := v1.NewSearchRouter(c)
	suggestionsRouter := v1.NewSuggestionsRouter(c)
	statsRouter := v1.NewStatsRouter(c)
	facetsRouter := v1.NewFacetsRouter(c)
	documentsRouter := v1.NewDocumentsRouter(c)
	indexRouter := v1.NewIndexRouter(c)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(apimiddleware.Logging(a.logger))
	router.Use(apimiddleware.Metrics())

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Mount("/search", searchRouter.Routes())
		r.Mount("/suggestions", suggestionsRouter.Routes())
		r.Mount("/stats", statsRouter.Routes())
		r.Mount("/facets", facetsRouter.Routes())
		r.Mount("/documents", documentsRouter.Routes())
		r.Mount("/index", indexRouter.Routes())
	})

	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		apimiddleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// ListenAndServe starts the HTTP server on the given address and blocks.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = server

	a.mountRoutes(server.Router())
	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the routes as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.router = chi.NewRouter()
		a.router.Use(chimiddleware.RequestID)
		a.mountRoutes(a.router)
	}
	return a.router
}
