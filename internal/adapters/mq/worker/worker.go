package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/cricscore/internal/adapters/mq/queue"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// ErrRatingPanicked is recorded for a job whose rating panicked.
var ErrRatingPanicked = errors.New("rating panicked")

// Rater rates a decoded match.
type Rater interface {
	Rate(ctx context.Context, m model.Match) (model.MatchResult, []model.Anomaly, error)
}

// RaterFunc adapts a function to Rater.
type RaterFunc func(ctx context.Context, m model.Match) (model.MatchResult, []model.Anomaly, error)

// Rate calls f.
func (f RaterFunc) Rate(ctx context.Context, m model.Match) (model.MatchResult, []model.Anomaly, error) {
	return f(ctx, m)
}

// Recorder persists job outcomes.
type Recorder interface {
	Put(ctx context.Context, rec repository.Record) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.RatingJob
}

// Worker processes jobs until the queue closes or it is stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker without waiting for the queue to drain.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	rater    Rater
	recorder Recorder
	name     string

	shutdown  chan struct{}
	done      chan struct{}
	processed atomic.Int64

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, rater Rater, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		rater:    rater,
		recorder: recorder,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("job_id", job.ID), logger.Error(err))
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Processed returns the number of jobs this worker has finished.
func (w *InMemoryWorker) Processed() int64 { return w.processed.Load() }

// processJob rates one job and records either its result or its failure.
func (w *InMemoryWorker) processJob(ctx context.Context, job queue.RatingJob) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
		w.processed.Add(1)
	}()

	res, notes, err := w.rate(ctx, job.Match)
	rec := repository.Record{ID: job.ID, UpdatedAt: time.Now()}
	if err != nil {
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "rating failed for job", logger.String("job_id", job.ID), logger.Error(err))
		rec.Status = repository.StatusFailed
		rec.Error = err.Error()
		rec.Anomalies = job.Anomalies
	} else {
		res.ResultID = job.ID
		rec.Status = repository.StatusDone
		rec.Result = &res
		rec.Anomalies = append(append([]model.Anomaly(nil), job.Anomalies...), notes...)
	}

	if perr := w.recorder.Put(ctx, rec); perr != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("store result %s: %w", job.ID, perr)
	}
	w.logger.Debug(ctx, "job finished",
		logger.String("job_id", job.ID),
		logger.String("status", string(rec.Status)),
		logger.Duration("queued", start.Sub(job.SubmittedAt)),
	)
	return nil
}

// rate calls the rater, converting a panic into an error so one bad job cannot kill the worker.
func (w *InMemoryWorker) rate(ctx context.Context, m model.Match) (res model.MatchResult, notes []model.Anomaly, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRatingPanicked, r)
		}
	}()
	return w.rater.Rate(ctx, m)
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a worker pool. A non-positive count uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, rater Rater, recorder Recorder, opts ...PoolOption) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := 0; i < workerCount; i++ {
		p.workers[i] = NewInMemoryWorker(q, rater, recorder,
			WithName("worker-"+strconv.Itoa(i)),
			WithLogger(p.logger),
		)
	}
	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs the pool has finished.
func (p *Pool) Processed() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.Processed()
	}
	return n
}

// Shutdown closes the queue and lets the workers drain it. Workers still busy
// when ctx (capped at 30s) ends are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
		}
		if timedOut {
			break
		}
	}
	if !timedOut {
		metrics.UpdateWorkerCount(0)
		return nil
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	var errs []error
	for _, w := range p.workers {
		if err := w.Shutdown(stopCtx); err != nil {
			errs = append(errs, err)
		}
	}
	metrics.UpdateWorkerCount(0)
	return errors.Join(errs...)
}
