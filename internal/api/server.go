package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/examtex/internal/assist"
	"github.com/dgallion1/examtex/internal/config"
	"github.com/dgallion1/examtex/internal/markup"
	"github.com/dgallion1/examtex/internal/metrics"
	"github.com/dgallion1/examtex/internal/pipeline"
	"github.com/dgallion1/examtex/internal/question"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for examtex.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	store        question.Store
	renderer     *markup.Renderer
	assist       *assist.Client
	metrics      *metrics.Metrics
	log          *slog.Logger
	cfg          config.Config
}

// Deps are the collaborators a Server needs. Assist and Metrics may be nil.
type Deps struct {
	Orchestrator *pipeline.Orchestrator
	Store        question.Store
	Renderer     *markup.Renderer
	Assist       *assist.Client
	Metrics      *metrics.Metrics
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: deps.Orchestrator,
		store:        deps.Store,
		renderer:     deps.Renderer,
		assist:       deps.Assist,
		metrics:      deps.Metrics,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(AccessLog(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(RequireAPIKey(s.cfg.APIKey, s.log))

		r.Post("/api/render", s.handleRender)

		r.Route("/api/questions", func(r chi.Router) {
			r.Get("/", s.handleListQuestions)
			r.Post("/", s.handleCreateQuestion)
			r.Get("/{id}", s.handleGetQuestion)
			r.Put("/{id}", s.handleUpdateQuestion)
			r.Delete("/{id}", s.handleDeleteQuestion)
			r.Get("/{id}/preview", s.handlePreviewQuestion)
			r.Post("/{id}/modify", s.handleModifyQuestion)
		})

		r.Post("/api/assist/create", s.handleAssistCreate)

		r.Post("/api/import", s.handleImport)
		r.Get("/api/import/{jobID}/status", s.handleImportStatus)

		r.Get("/api/export", s.handleExport)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
