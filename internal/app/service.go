// Package service wires the rating engine to the result store, the job queue
// and the worker pool. It implements the dependencies of the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/cricscore/internal/adapters/mq/queue"
	"github.com/okian/cricscore/internal/adapters/mq/worker"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	"github.com/okian/cricscore/internal/domain/scorecard"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// Service rates scorecards synchronously or through the job queue and keeps
// the results retrievable by handle.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	queue queue.Queue
	pool  *worker.Pool

	// Configuration
	workerCount     int
	queueSize       int
	storeMaxResults int
	resultTTL       time.Duration
	newID           func() string

	// State
	started   bool
	runCancel context.CancelFunc
	rated     atomic.Int64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       1_024,
		storeMaxResults: 10_000,
		resultTTL:       24 * time.Hour,
		newID:           uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start creates the store, queue and worker pool. Workers outlive ctx and
// run until Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting rating service...")

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if s.store == nil {
		s.store = repository.NewMemoryStore(runCtx,
			repository.WithMaxResults(s.storeMaxResults),
			repository.WithTTL(s.resultTTL),
		)
		s.logger.Info(ctx, "using in-memory result store")
	}
	store := s.store
	s.queue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.queueSize),
		queue.WithDropHandler(func(job queue.RatingJob) { s.abandon(store, job) }),
	)
	s.pool = worker.NewPool(s.workerCount, s.queue, s, s.store, worker.WithPoolLogger(s.logger.Named("worker")))
	s.pool.Start(runCtx)

	s.runCancel = cancel
	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop drains queued jobs, then closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	s.logger.Info(ctx, "stopping rating service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	s.runCancel()
	if err := s.store.Close(); err != nil {
		s.logger.Error(ctx, "closing result store failed", logger.Error(err))
	}
	s.store = nil

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
}

// abandon marks a job that left the queue without reaching a worker as failed.
func (s *Service) abandon(store repository.Store, job queue.RatingJob) {
	ctx := context.Background()
	rec := repository.Record{
		ID:        job.ID,
		Status:    repository.StatusFailed,
		Anomalies: job.Anomalies,
		Error:     ErrJobAbandoned.Error(),
		UpdatedAt: time.Now(),
	}
	if err := store.Put(ctx, rec); err != nil {
		s.logger.Warn(ctx, "marking abandoned job failed", logger.String("result_id", job.ID), logger.Error(err))
		return
	}
	s.logger.Warn(ctx, "rating job abandoned", logger.String("result_id", job.ID))
}

// Rate rates a decoded match. It satisfies worker.Rater.
func (s *Service) Rate(ctx context.Context, m model.Match) (model.MatchResult, []model.Anomaly, error) {
	if err := ctx.Err(); err != nil {
		return model.MatchResult{}, nil, err
	}

	start := time.Now()
	res, notes := rating.RateMatch(m)
	metrics.RecordRatingLatency(float64(time.Since(start).Microseconds()) / 1000)

	for _, p := range res.Players() {
		metrics.RecordPlayerRating(p.OverallRating)
	}
	if res.MVP != nil {
		metrics.RecordMVPRating(res.MVP.OverallRating)
	}
	s.note(ctx, notes)
	metrics.RecordMatchRated("ok")
	s.rated.Add(1)
	return res, notes, nil
}

// RateScorecard decodes and rates a raw scorecard and stores the result under
// a fresh handle. Structural failures wrap scorecard.ErrInvalidScorecard.
func (s *Service) RateScorecard(ctx context.Context, raw []byte) (model.MatchResult, []model.Anomaly, error) {
	store, _, err := s.components()
	if err != nil {
		return model.MatchResult{}, nil, err
	}

	m, notes, err := s.decode(ctx, raw)
	if err != nil {
		return model.MatchResult{}, nil, err
	}
	res, more, err := s.Rate(ctx, m)
	if err != nil {
		return model.MatchResult{}, nil, err
	}
	res.ResultID = s.newID()
	notes = append(notes, more...)

	rec := repository.Record{
		ID:        res.ResultID,
		Status:    repository.StatusDone,
		Result:    &res,
		Anomalies: notes,
	}
	if err := store.Put(ctx, rec); err != nil {
		return model.MatchResult{}, nil, fmt.Errorf("store result: %w", err)
	}
	return res, notes, nil
}

// Submit decodes a raw scorecard and queues it for rating. It returns the
// handle the result will be stored under. A full queue yields an error
// wrapping both ErrBackpressure and queue.ErrFull.
func (s *Service) Submit(ctx context.Context, raw []byte) (string, []model.Anomaly, error) {
	store, q, err := s.components()
	if err != nil {
		return "", nil, err
	}

	m, notes, err := s.decode(ctx, raw)
	if err != nil {
		return "", nil, err
	}

	id := s.newID()
	pending := repository.Record{ID: id, Status: repository.StatusPending, Anomalies: notes}
	if err := store.Put(ctx, pending); err != nil {
		return "", nil, fmt.Errorf("store pending result: %w", err)
	}

	job := queue.RatingJob{ID: id, Match: m, Anomalies: notes, SubmittedAt: time.Now()}
	if err := q.Enqueue(ctx, job); err != nil {
		pending.Status = repository.StatusFailed
		pending.Error = err.Error()
		if perr := store.Put(ctx, pending); perr != nil {
			s.logger.Warn(ctx, "marking rejected job failed", logger.String("result_id", id), logger.Error(perr))
		}
		if errors.Is(err, queue.ErrFull) {
			return "", nil, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return "", nil, fmt.Errorf("enqueue rating job: %w", err)
	}

	s.logger.Debug(ctx, "rating job queued", logger.String("result_id", id))
	return id, notes, nil
}

// Result returns the record stored under id.
func (s *Service) Result(ctx context.Context, id string) (repository.Record, error) {
	store, _, err := s.components()
	if err != nil {
		return repository.Record{}, err
	}
	return store.Get(ctx, id)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"ratedMatches": s.rated.Load(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		stats["queueLength"] = queueLen
		stats["storedResults"] = s.store.Count(ctx)
		stats["processedJobs"] = s.pool.Processed()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	return stats
}

func (s *Service) components() (repository.Store, queue.Queue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.queue, nil
}

func (s *Service) decode(ctx context.Context, raw []byte) (model.Match, []model.Anomaly, error) {
	m, notes, err := scorecard.Decode(raw)
	if err != nil {
		metrics.RecordValidationFailure()
		metrics.RecordMatchRated("invalid")
		s.logger.Debug(ctx, "scorecard rejected", logger.Error(err))
		return model.Match{}, nil, err
	}
	s.note(ctx, notes)
	return m, notes, nil
}

// note logs and counts recovered anomalies.
func (s *Service) note(ctx context.Context, notes []model.Anomaly) {
	for _, a := range notes {
		metrics.RecordAnomaly(a.Kind)
		s.logger.Debug(ctx, "scorecard anomaly",
			logger.String("kind", a.Kind),
			logger.String("field", a.Field),
			logger.String("detail", a.Detail),
		)
	}
}
