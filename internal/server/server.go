package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/trainload/internal/knowledge"
	"github.com/claude/trainload/internal/llm"
	"github.com/claude/trainload/internal/program"
	"github.com/claude/trainload/internal/resolver"
	"github.com/claude/trainload/internal/storage"
	"github.com/claude/trainload/internal/volume"
	"github.com/go-chi/chi/v5"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db        *storage.DB
	kb        *knowledge.Base
	resolver  *resolver.Resolver
	agg       *volume.Aggregator
	validator *program.Validator
	llm       *llm.Client
	log       *slog.Logger
	apiKey    string
	router    chi.Router
}

// New creates a new Server with all routes configured. The llm client
// may be nil; generation endpoints then answer 503.
func New(db *storage.DB, kb *knowledge.Base, llmClient *llm.Client, apiKey string, log *slog.Logger) *Server {
	res := resolver.New(kb)
	s := &Server{
		db:        db,
		kb:        kb,
		resolver:  res,
		agg:       volume.New(kb, res),
		validator: program.New(kb, res),
		llm:       llmClient,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
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

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/exercises/resolve", s.handleResolveExercise)
	s.router.Get("/api/v1/logs", s.handleListLogs)
	s.router.Get("/api/v1/volume/report", s.handleVolumeReport)
	s.router.Get("/api/v1/volume/history", s.handleVolumeHistory)
	s.router.Get("/api/v1/volume/summary", s.handleVolumeSummary)
	s.router.Get("/api/v1/programs/current", s.handleCurrentProgram)
	s.router.Get("/api/v1/recovery", s.handleRecovery)
	s.router.Get("/api/v1/mesocycle", s.handleMesocycle)
	s.router.Get("/api/v1/profile", s.handleGetProfile)

	// Stateless validation: the caller supplies the full program.
	s.router.Post("/api/v1/programs/validate", s.handleValidateProgram)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/logs", s.handleAppendLog)
		r.Post("/api/v1/programs", s.handleSaveProgram)
		r.Post("/api/v1/programs/generate", s.handleGenerateProgram)
		r.Post("/api/v1/programs/adjust", s.handleAdjustProgram)
		r.Post("/api/v1/mesocycle/advance", s.handleAdvanceMesocycle)
		r.Put("/api/v1/profile", s.handlePutProfile)
		r.Post("/api/v1/chat", s.handleChat)
	})
}

// SetTailscale enables WhoIs-based identity resolution.
func (s *Server) SetTailscale(lc *local.Client) {
	s.router = chi.NewRouter()
	s.router.Use(TailscaleIdentity(lc))
	s.routes()
}
