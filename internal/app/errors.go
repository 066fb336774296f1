package service

import "errors"

var (
	// ErrNotStarted is returned by operations that need a running service.
	ErrNotStarted = errors.New("service not started")

	// ErrBackpressure is returned when the job queue cannot take another scorecard.
	ErrBackpressure = errors.New("rating queue is full")

	// ErrJobAbandoned is recorded for a queued job that no worker picked up before shutdown.
	ErrJobAbandoned = errors.New("rating job abandoned at shutdown")
)
