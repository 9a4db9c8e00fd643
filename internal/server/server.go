package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/claude/repforge/internal/fatigue"
	"github.com/claude/repforge/internal/models"
	"github.com/claude/repforge/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"tailscale.com/client/local"
)

// Store is the data layer consumed by HTTP handlers. *storage.DB is the
// production implementation; tests substitute a stub.
type Store interface {
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)

	CreateExercise(ctx context.Context, ex *models.Exercise) error
	GetExercise(ctx context.Context, id uuid.UUID) (*models.Exercise, error)
	ListExercises(ctx context.Context, equipment, muscle string) ([]models.Exercise, error)
	DeactivateExercise(ctx context.Context, id uuid.UUID) error

	InsertLoggedSet(ctx context.Context, set *models.LoggedSet) error
	UpdateLoggedSet(ctx context.Context, id uuid.UUID, userID int, weight *float64, reps *int) (*models.LoggedSet, error)
	DeleteLoggedSet(ctx context.Context, id uuid.UUID, userID int) (time.Time, error)
	GetLoggedSet(ctx context.Context, id uuid.UUID, userID int) (*models.LoggedSet, error)
	QuerySetsWindow(ctx context.Context, userID int, start, end time.Time) ([]models.LoggedSet, error)
	BestSetsSince(ctx context.Context, userID int, since time.Time) ([]fatigue.ExerciseBest, error)

	UpsertMuscleStates(ctx context.Context, userID int, states map[string]models.MuscleFatigueState) (int, error)
	LatestMuscleStates(ctx context.Context, userID int) (map[string]models.MuscleFatigueState, error)
	HasStatesForDate(ctx context.Context, userID int, date time.Time) (bool, error)
	InvalidateStatesSince(ctx context.Context, userID int, since time.Time) (int64, error)
	MuscleHistory(ctx context.Context, userID int, muscle string, daysBack int) ([]models.MuscleFatigueState, error)

	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

var _ Store = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     Store
	log    *slog.Logger
	apiKey string
	fcfg   fatigue.Config
	lc     *local.Client
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db Store, apiKey string, fcfg fatigue.Config, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		fcfg:   fcfg,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale wires the tsnet local client used to resolve request
// identities. Without it the dev identity (user 1) is assumed.
func (s *Server) SetTailscale(lc *local.Client) {
	s.lc = lc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Write endpoints (API key required)
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/sets", s.handleCreateSet)
			r.Patch("/sets/{id}", s.handleUpdateSet)
			r.Delete("/sets/{id}", s.handleDeleteSet)
			r.Post("/exercises", s.handleCreateExercise)
			r.Delete("/exercises/{id}", s.handleDeactivateExercise)
			r.Post("/muscle-states/calculate", s.handleCalculateMuscleStates)
		})

		// Read endpoints
		r.Get("/me", s.handleMe)
		r.Get("/sets", s.handleQuerySets)
		r.Get("/sets/best", s.handleBestSets)
		r.Get("/sets/{id}", s.handleGetSet)
		r.Get("/exercises", s.handleListExercises)
		r.Get("/muscles", s.handleMuscles)
		r.Get("/exercises/{id}", s.handleGetExercise)
		r.Get("/muscle-states", s.handleMuscleStates)
		r.Get("/muscle-states/heat-map", s.handleHeatMap)
		r.Get("/muscle-states/{muscle}/history", s.handleMuscleHistory)
		r.Get("/recovery-timeline", s.handleRecoveryTimeline)
		r.Get("/recommendations", s.handleRecommendations)
		r.Get("/stats", s.handleStats)
	})
}
