// Package server exposes the interactive review flow over HTTP: upload an
// AIH document, review and correct the extracted fields, generate the filled
// HEMOBA PDF, and inspect the raw extraction for troubleshooting.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hemoba-digital/fichagen/internal/config"
	"github.com/hemoba-digital/fichagen/internal/document"
	"github.com/hemoba-digital/fichagen/internal/extract"
	"github.com/hemoba-digital/fichagen/internal/fill"
	"github.com/hemoba-digital/fichagen/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server wires acquisition, extraction and fill into the review flow.
type Server struct {
	cfg       *config.Config
	log       *zap.Logger
	acquirer  *document.Service
	extractor *extract.Extractor
	filler    *fill.Filler
	store     *session.Store
	tmpl      *template.Template
}

// NewServer creates the HTTP server around the pipeline components.
func NewServer(
	cfg *config.Config,
	log *zap.Logger,
	acquirer *document.Service,
	extractor *extract.Extractor,
	filler *fill.Filler,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if acquirer == nil || extractor == nil || filler == nil {
		return nil, fmt.Errorf("pipeline components cannot be nil")
	}
	if log == nil {
		log = zap.NewNop()
	}

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		cfg:       cfg,
		log:       log,
		acquirer:  acquirer,
		extractor: extractor,
		filler:    filler,
		store:     session.NewStore(12 * time.Hour),
		tmpl:      tmpl,
	}, nil
}

// Router returns the HTTP handler for the review flow.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/upload", s.handleUpload)

	r.Route("/session/{id}", func(r chi.Router) {
		r.Get("/", s.handleReview)
		r.Post("/fields", s.handleSaveFields)
		r.Post("/generate", s.handleGenerate)
		r.Get("/debug/text", s.handleDebugText)
		r.Get("/debug/fields.json", s.handleDebugJSON)
		r.Get("/debug/fields.csv", s.handleDebugCSV)
	})

	return r
}

// sessionFromRequest resolves the session of the request, writing a 404 when
// it is gone (expired or never existed).
func (s *Server) sessionFromRequest(w http.ResponseWriter, r *http.Request) *session.Session {
	id := chi.URLParam(r, "id")
	sess := s.store.Get(id)
	if sess == nil {
		http.Error(w, "session not found; upload the document again", http.StatusNotFound)
		return nil
	}
	return sess
}
