// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/gradebook/internal/domain/session"
	"github.com/okian/gradebook/internal/domain/types"
)

const defaultMaxUploadBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateSession(ctx context.Context) (types.SessionView, error)
	Session(ctx context.Context, id string) (types.SessionView, error)
	DeleteSession(ctx context.Context, id string) error
	ResetSession(ctx context.Context, id string) (types.SessionView, error)

	ImportRoster(ctx context.Context, id string, r io.Reader) (types.ImportResult, error)
	ImportRubric(ctx context.Context, id string, r io.Reader) (types.ImportResult, error)
	SelectRubric(ctx context.Context, id, choice string) (types.SessionView, error)

	RecordScore(ctx context.Context, id, student, competency string, score int) (types.GradeRow, error)
	Grades(ctx context.Context, id string) ([]types.GradeRow, error)
	Student(ctx context.Context, id, name string) (types.GradeRow, error)

	ExportCSV(ctx context.Context, id string) (session.Artifact, error)
	ExportToSink(ctx context.Context, id string) (types.ExportResult, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	sessionHandler *SessionHandler
	importHandler  *ImportHandler
	gradeHandler   *GradeHandler
	exportHandler  *ExportHandler
}

// Option configures the Server.
type Option func(*settings)

type settings struct {
	maxUploadBytes int64
}

// WithMaxUploadBytes caps request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	cfg := settings{maxUploadBytes: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	v := validator.New()
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		sessionHandler: NewSessionHandler(deps, v, cfg.maxUploadBytes),
		importHandler:  NewImportHandler(deps, cfg.maxUploadBytes),
		gradeHandler:   NewGradeHandler(deps, v, cfg.maxUploadBytes),
		exportHandler:  NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /sessions", "sessions", s.sessionHandler.HandleCreate)
	route("GET /sessions/{id}", "session", s.sessionHandler.HandleGet)
	route("DELETE /sessions/{id}", "session", s.sessionHandler.HandleDelete)
	route("POST /sessions/{id}/reset", "reset", s.sessionHandler.HandleReset)
	route("PUT /sessions/{id}/rubric/choice", "rubric_choice", s.sessionHandler.HandleChoice)

	route("PUT /sessions/{id}/roster", "roster", s.importHandler.HandleRoster)
	route("PUT /sessions/{id}/rubric", "rubric", s.importHandler.HandleRubric)

	route("PUT /sessions/{id}/scores", "scores", s.gradeHandler.HandleScore)
	route("GET /sessions/{id}/grades", "grades", s.gradeHandler.HandleGrades)
	route("GET /sessions/{id}/students/{name}", "student", s.gradeHandler.HandleStudent)

	route("GET /sessions/{id}/export", "export", s.exportHandler.HandleDownload)
	route("POST /sessions/{id}/export", "export", s.exportHandler.HandleWrite)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
