package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/okian/cricscore/internal/adapters/mq/queue"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/scorecard"
	"github.com/okian/cricscore/pkg/logger"
)

// RatingsHandler handles scorecard rating requests.
type RatingsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps Dependencies, maxBodyBytes int64, log logger.Logger) *RatingsHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if log == nil {
		log = logger.Get().Named("api")
	}
	return &RatingsHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: log}
}

// HandleRate handles POST /ratings and POST /calculate.
func (h *RatingsHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	const op = "api.rate"
	raw, ok := h.readBody(w, r, op)
	if !ok {
		return
	}
	res, notes, err := h.deps.RateScorecard(r.Context(), raw)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ratingResponse{MatchResult: res, Anomalies: notes})
}

// HandleSubmit handles POST /ratings/jobs.
func (h *RatingsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit"
	raw, ok := h.readBody(w, r, op)
	if !ok {
		return
	}
	id, notes, err := h.deps.Submit(r.Context(), raw)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusAccepted, jobResponse{Status: "accepted", ResultID: id, Anomalies: notes})
}

// HandleGetResult handles GET /ratings/{id}.
func (h *RatingsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_result"
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	rec, err := h.deps.Result(r.Context(), id)
	if err != nil {
		h.fail(w, r, op, err)
		return
	}
	switch rec.Status {
	case repository.StatusPending:
		writeJSON(w, http.StatusAccepted, jobResponse{Status: string(rec.Status), ResultID: rec.ID})
	case repository.StatusFailed:
		writeError(w, http.StatusUnprocessableEntity, "rating_failed",
			WrapKind(op, ErrRatingFailed, errors.New(rec.Error)))
	default:
		if rec.Result == nil {
			h.fail(w, r, op, errors.New("stored result is empty"))
			return
		}
		writeJSON(w, http.StatusOK, ratingResponse{MatchResult: *rec.Result, Anomalies: rec.Anomalies})
	}
}

func (h *RatingsHandler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err == nil {
		return raw, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
		return nil, false
	}
	writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	return nil, false
}

// fail maps a dependency error to a status code.
func (h *RatingsHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, scorecard.ErrInvalidScorecard):
		writeError(w, http.StatusBadRequest, "invalid_scorecard", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	default:
		h.logger.Error(r.Context(), "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
