package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/claude/liftplan/internal/coach"
	"github.com/claude/liftplan/internal/ingest"
	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/overload"
	"github.com/claude/liftplan/internal/plateau"
	"github.com/claude/liftplan/internal/storage"
	"github.com/claude/liftplan/internal/volume"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Coach is the engine surface the HTTP API exposes. Implemented by *coach.Service.
type Coach interface {
	Target(ctx context.Context, userID int, exercise string, repRange *overload.RepRange) (overload.Target, error)
	Plateau(ctx context.Context, userID int, exercise string) (plateau.Result, error)
	Landmarks(ctx context.Context) (map[models.MuscleGroup]volume.Landmark, error)
	VolumeReport(ctx context.Context, userID int) (*coach.VolumeReport, error)
	PreviewPlan(ctx context.Context, userID int, opts coach.PlanOptions) (models.SplitPlan, error)
	CreatePlan(ctx context.Context, userID int, opts coach.PlanOptions) (models.SplitPlan, error)
	ActivePlan(ctx context.Context, userID int) (*models.SplitPlan, error)
	GetPlan(ctx context.Context, userID int, id uuid.UUID) (*models.SplitPlan, error)
	Expand(ctx context.Context, userID int, req coach.ExpandRequest) (*coach.Expansion, error)
	Deload(ctx context.Context, userID int) (*coach.DeloadReport, error)
}

// Store serves the reporting endpoints. Implemented by *storage.DB.
type Store interface {
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	QueryImportLogs(ctx context.Context, userID, limit int) ([]storage.ImportLog, error)
	GetTrainingIntensity(ctx context.Context, start, end time.Time, userID int) (*storage.TrainingIntensity, error)
}

// Ingester imports a workout export for a user. Implemented by *alpha.Provider.
type Ingester interface {
	Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error)
}

var (
	_ Coach = (*coach.Service)(nil)
	_ Store = (*storage.DB)(nil)
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	coach    Coach
	db       Store
	alpha    Ingester
	log      *slog.Logger
	apiKey   string
	router   chi.Router
	identity atomic.Pointer[func(http.Handler) http.Handler]
}

// New creates a new Server with all routes configured. Requests are
// attributed to the local user until SetTailscale is called.
func New(c Coach, db Store, alphaProvider Ingester, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		coach:  c,
		db:     db,
		alpha:  alphaProvider,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches request identity to tailnet WhoIs lookups.
func (s *Server) SetTailscale(whois WhoIsClient, users UserResolver) {
	mw := TailscaleIdentity(whois, users, s.log)
	s.identity.Store(&mw)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) identify(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mw := s.identity.Load(); mw != nil {
			(*mw)(next).ServeHTTP(w, r)
			return
		}
		dev.ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/alpha", s.handleAlphaIngest)
	})

	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/import-logs", s.handleImportLogs)
	s.router.Get("/api/v1/intensity", s.handleIntensity)

	s.router.Get("/api/v1/exercises/{name}/target", s.handleTarget)
	s.router.Get("/api/v1/exercises/{name}/plateau", s.handlePlateau)
	s.router.Get("/api/v1/volume", s.handleVolume)
	s.router.Get("/api/v1/landmarks", s.handleLandmarks)
	s.router.Get("/api/v1/deload", s.handleDeload)

	s.router.Route("/api/v1/splits", func(r chi.Router) {
		r.Post("/", s.handleCreateSplit)
		r.Post("/preview", s.handlePreviewSplit)
		r.Get("/active", s.handleActiveSplit)
		r.Get("/frequency/{muscle}", s.handleFrequency)
		r.Get("/{id}", s.handleGetSplit)
	})

	s.router.Get("/api/v1/techniques", s.handleTechniques)
	s.router.Post("/api/v1/techniques/expand", s.handleExpand)
}

// Mount attaches an extra handler (the MCP endpoint) behind the same
// logging and identity middleware as the REST API.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

// UserID returns the user the identity middleware attributed r to.
func UserID(r *http.Request) int {
	return userIDFromContext(r)
}
