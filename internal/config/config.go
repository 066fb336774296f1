// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"runtime"
	"time"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory rating job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxBodyBytes caps scorecard request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// StoreBackend selects where rating results live: memory or redis.
	StoreBackend string `koanf:"store_backend"`

	// StoreMaxResults bounds the in-memory result store.
	StoreMaxResults int `koanf:"store_max_results"`

	// ResultTTL is how long a stored result stays retrievable.
	ResultTTL time.Duration `koanf:"result_ttl"`

	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":9080",
		QueueSize:       1_024,
		WorkerCount:     runtime.NumCPU(),
		MaxBodyBytes:    1 << 20,
		StoreBackend:    StoreMemory,
		StoreMaxResults: 10_000,
		ResultTTL:       24 * time.Hour,
		RedisAddr:       "",
		RedisDB:         0,
	}
}
