package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/volumetric/internal/pipeline"
	"github.com/claude/volumetric/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	pipe   *pipeline.Pipeline
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, pipe *pipeline.Pipeline, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		pipe:   pipe,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Write endpoints (API key required)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleCreateSession)
		r.Post("/{id}/performances", s.handleAddPerformance)
		r.Post("/{id}/feedback", s.handleAddFeedback)
		r.Post("/{id}/complete", s.handleCompleteSession)
	})

	// Read endpoints
	s.router.Get("/api/v1/progression", s.handleProgression)
	s.router.Get("/api/v1/volume/weekly", s.handleWeeklyVolume)
	s.router.Get("/api/v1/landmarks", s.handleLandmarks)
	s.router.Get("/api/v1/muscle-groups", s.handleMuscleGroups)
}

// MountMCP attaches the MCP transport handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}
