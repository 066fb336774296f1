package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of jobs waiting in the queue.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHandler sets fn to receive jobs that were taken off the queue by a
// cancelled Dequeue and could not be put back.
func WithDropHandler(fn func(RatingJob)) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
