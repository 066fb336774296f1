// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/scorecard"
	"github.com/okian/cricscore/pkg/logger"
)

const defaultMaxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// RateScorecard rates a raw scorecard and stores the result under its ResultID.
	RateScorecard(ctx context.Context, raw []byte) (model.MatchResult, []model.Anomaly, error)

	// Submit queues a raw scorecard and returns the result handle. A full
	// queue yields an error wrapping queue.ErrFull.
	Submit(ctx context.Context, raw []byte) (string, []model.Anomaly, error)

	// Result returns the record stored under a handle or repository.ErrNotFound.
	Result(ctx context.Context, id string) (repository.Record, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	ratingsHandler *RatingsHandler

	maxBodyBytes int64
	logger       logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		maxBodyBytes:  defaultMaxBodyBytes,
		logger:        logger.Get().Named("api"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ratingsHandler = NewRatingsHandler(deps, s.maxBodyBytes, s.logger)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("POST /ratings", MetricsMiddleware(s.ratingsHandler.HandleRate, "ratings"))
	mux.HandleFunc("POST /calculate", MetricsMiddleware(s.ratingsHandler.HandleRate, "calculate"))
	mux.HandleFunc("POST /ratings/jobs", MetricsMiddleware(s.ratingsHandler.HandleSubmit, "ratings_jobs"))
	mux.HandleFunc("GET /ratings/{id}", MetricsMiddleware(s.ratingsHandler.HandleGetResult, "ratings_result"))
}

// ratingResponse is a MatchResult plus the anomalies recovered while reading it.
type ratingResponse struct {
	model.MatchResult
	Anomalies []model.Anomaly `json:"anomalies,omitempty"`
}

type jobResponse struct {
	Status    string          `json:"status"`
	ResultID  string          `json:"result_id"`
	Anomalies []model.Anomaly `json:"anomalies,omitempty"`
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := errorResponse{Code: code, Message: http.StatusText(status)}
	if err != nil {
		resp.Message = err.Error()
	}
	var ve *scorecard.ValidationError
	if errors.As(err, &ve) {
		resp.Details = ve.Problems
	}
	writeJSON(w, status, resp)
}
