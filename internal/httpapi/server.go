// Package httpapi exposes the service layer over a REST surface: libraries,
// nested documents and chunks, named vector indices, and k-NN search.
package httpapi

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/brightfield-labs/vectordb/internal/config"
	"github.com/brightfield-labs/vectordb/internal/service"
)

// Server wires HTTP handlers to the underlying library/document/chunk/index/
// search services.
type Server struct {
	cfg    config.Config
	router http.Handler
	logger *log.Logger

	library  *service.LibraryService
	document *service.DocumentService
	chunk    *service.ChunkService
	index    *service.IndexService
	search   *service.SearchService
}

// New constructs a Server with the provided dependencies and builds its
// route table.
func New(
	cfg config.Config,
	library *service.LibraryService,
	document *service.DocumentService,
	chunk *service.ChunkService,
	index *service.IndexService,
	search *service.SearchService,
	logger *log.Logger,
) *Server {
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.RealIP)
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	s := &Server{
		cfg:      cfg,
		router:   mux,
		logger:   logger,
		library:  library,
		document: document,
		chunk:    chunk,
		index:    index,
		search:   search,
	}

	mux.Get("/api/health", s.handleHealth)

	mux.Route("/libraries", func(r chi.Router) {
		r.Post("/", s.handleCreateLibrary)
		r.Get("/", s.handleListLibraries)

		r.Route("/{libraryID}", func(r chi.Router) {
			r.Get("/", s.handleGetLibrary)
			r.Put("/", s.handleUpdateLibrary)
			r.Delete("/", s.handleDeleteLibrary)

			r.Route("/documents", func(r chi.Router) {
				r.Post("/", s.handleCreateDocument)
				r.Get("/", s.handleListDocuments)

				r.Route("/{documentID}", func(r chi.Router) {
					r.Get("/", s.handleGetDocument)
					r.Put("/", s.handleUpdateDocument)
					r.Delete("/", s.handleDeleteDocument)

					r.Route("/chunks", func(r chi.Router) {
						r.Post("/", s.handleCreateChunk)
						r.Get("/", s.handleListChunks)

						r.Route("/{chunkID}", func(r chi.Router) {
							r.Get("/", s.handleGetChunk)
							r.Put("/", s.handleUpdateChunk)
							r.Delete("/", s.handleDeleteChunk)
						})
					})
				})
			})

			r.Route("/index", func(r chi.Router) {
				r.Get("/", s.handleListIndexes)

				r.Route("/{indexName}", func(r chi.Router) {
					r.Post("/", s.handleCreateIndex)
					r.Get("/", s.handleGetIndex)
					r.Delete("/", s.handleDeleteIndex)
				})
			})

			r.Post("/search/{indexName}", s.handleSearch)
		})
	})

	return s
}

// ServeHTTP exposes the router so Server satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
