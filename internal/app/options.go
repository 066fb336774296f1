package service

import (
	"time"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rating workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued rating jobs.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore makes the service keep results in store instead of the default
// in-memory store. The service closes it on Stop.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreMaxResults bounds the default in-memory store.
func WithStoreMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.storeMaxResults = n
		}
	}
}

// WithResultTTL sets how long the default in-memory store keeps results.
// Zero keeps them until evicted by size.
func WithResultTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.resultTTL = ttl
		}
	}
}

// WithIDGenerator replaces the result handle generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}
