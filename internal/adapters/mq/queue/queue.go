// Package queue holds rating jobs between submission and the worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/metrics"
)

const defaultQueueCapacity = 1024

// RatingJob is a decoded scorecard waiting to be rated.
type RatingJob struct {
	ID          string
	Match       model.Match
	Anomalies   []model.Anomaly
	SubmittedAt time.Time
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. It returns ErrFull when the queue is at capacity
	// and ErrClosed after Close.
	Enqueue(ctx context.Context, job RatingJob) error

	// Dequeue returns a channel that receives jobs as they become available.
	// The channel is closed when the queue is closed and drained or ctx ends.
	Dequeue(ctx context.Context) <-chan RatingJob

	// Len returns the current number of queued jobs.
	Len(ctx context.Context) int

	// Capacity returns the maximum number of queued jobs.
	Capacity() int

	// Close stops accepting jobs; queued jobs can still be drained.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	jobs     chan RatingJob
	capacity int
	onDrop   func(RatingJob)

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan RatingJob, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds a job without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, job RatingJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordJobRejected()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordJobRejected()
		return err
	}

	select {
	case q.jobs <- job:
		metrics.RecordJobEnqueued()
		metrics.UpdateQueueSize(len(q.jobs))
		return nil
	default:
		metrics.RecordJobRejected()
		return ErrFull
	}
}

// Dequeue returns a channel fed from the queue. A job already taken when ctx
// ends goes back on the queue, or to the drop handler when it cannot.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan RatingJob {
	out := make(chan RatingJob)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case job, ok := <-q.jobs:
				if !ok {
					return
				}
				metrics.UpdateQueueSize(len(q.jobs))
				select {
				case out <- job:
				case <-ctx.Done():
					q.putBack(job)
					return
				}
			}
		}
	}()
	return out
}

func (q *InMemoryQueue) putBack(job RatingJob) {
	q.mu.RLock()
	if !q.closed {
		select {
		case q.jobs <- job:
			q.mu.RUnlock()
			metrics.UpdateQueueSize(len(q.jobs))
			return
		default:
		}
	}
	q.mu.RUnlock()
	if q.onDrop != nil {
		q.onDrop(job)
	}
}

// Len returns the current number of queued jobs.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.jobs)
	metrics.UpdateQueueSize(size)
	return size
}

// Capacity returns the configured capacity.
func (q *InMemoryQueue) Capacity() int { return q.capacity }

// Close gracefully shuts down the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.jobs)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
