package client

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricscore/pkg/logger"
)

// Default load settings.
const (
	defaultLoadJobs     = 100
	defaultPollInterval = 50 * time.Millisecond
	defaultLoadTimeout  = time.Minute
)

// LoadConfig controls a load run.
type LoadConfig struct {
	Jobs         int           // scorecards to submit
	Workers      int           // concurrent submitters
	PollInterval time.Duration // delay between polls of a queued result
	Timeout      time.Duration // bound on the whole run
}

// LoadStats summarises a load run.
type LoadStats struct {
	Submitted int           `json:"submitted"`
	Accepted  int           `json:"accepted"`
	Rejected  int           `json:"rejected"`
	Errors    int           `json:"errors"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// JobsPerSecond is the submission throughput of the run.
func (s LoadStats) JobsPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Submitted) / s.Duration.Seconds()
}

func (cfg LoadConfig) withDefaults() LoadConfig {
	if cfg.Jobs <= 0 {
		cfg.Jobs = defaultLoadJobs
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultLoadTimeout
	}
	return cfg
}

// Load submits the same scorecard cfg.Jobs times from cfg.Workers goroutines,
// then polls every accepted job until it finishes or the run times out.
func (c *Client) Load(ctx context.Context, scorecard []byte, cfg LoadConfig) (LoadStats, error) {
	cfg = cfg.withDefaults()
	log := logger.Get().Named("load")
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := c.Health(ctx); err != nil {
		return LoadStats{}, err
	}
	log.Info(ctx, "starting load run", logger.Int("jobs", cfg.Jobs), logger.Int("workers", cfg.Workers))

	var (
		submitted, accepted, rejected, failedCalls atomic.Int64
		mu                                         sync.Mutex
		ids                                        []string
	)

	work := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range work {
				submitted.Add(1)
				job, err := c.Submit(ctx, scorecard)
				switch {
				case err == nil:
					accepted.Add(1)
					mu.Lock()
					ids = append(ids, job.ResultID)
					mu.Unlock()
				case errors.Is(err, ErrBackpressure):
					rejected.Add(1)
				default:
					failedCalls.Add(1)
					log.Debug(ctx, "submission failed", logger.Error(err))
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := 0; i < cfg.Jobs; i++ {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()
	wg.Wait()

	stats := LoadStats{
		Submitted: int(submitted.Load()),
		Accepted:  int(accepted.Load()),
		Rejected:  int(rejected.Load()),
		Errors:    int(failedCalls.Load()),
	}
	stats.Completed, stats.Failed = c.await(ctx, ids, cfg.PollInterval)
	stats.Duration = time.Since(start)

	log.Info(ctx, "load run finished",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("completed", stats.Completed),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("jobsPerSecond", stats.JobsPerSecond()),
	)
	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

// await polls ids until each is done or failed, or ctx ends.
func (c *Client) await(ctx context.Context, ids []string, interval time.Duration) (completed, failed int) {
	pending := ids
	for len(pending) > 0 {
		next := pending[:0]
		for _, id := range pending {
			_, done, err := c.Result(ctx, id)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return completed, failed
				}
				failed++
			case done:
				completed++
			default:
				next = append(next, id)
			}
		}
		pending = next
		if len(pending) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return completed, failed
		case <-time.After(interval):
		}
	}
	return completed, failed
}
