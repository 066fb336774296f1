package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/cricscore/pkg/metrics"
)

const backendRedis = "redis"

// RedisStore keeps records as JSON strings under prefixed keys.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient builds a client with the timeouts used by the service.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})
}

// NewRedisStore wraps client and verifies the connection.
func NewRedisStore(ctx context.Context, client *redis.Client, opts ...RedisOption) (*RedisStore, error) {
	s := &RedisStore{
		client: client,
		prefix: "cricscore:result:",
		ttl:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return s, nil
}

func (s *RedisStore) key(id string) string { return s.prefix + id }

// Put writes rec, resetting its expiry.
func (s *RedisStore) Put(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		metrics.RecordStoreOperation(backendRedis, "put", "error")
		return ErrInvalidID
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		metrics.RecordStoreOperation(backendRedis, "put", "error")
		return fmt.Errorf("encode record %s: %w", rec.ID, err)
	}
	if err := s.client.Set(ctx, s.key(rec.ID), data, s.ttl).Err(); err != nil {
		metrics.RecordStoreOperation(backendRedis, "put", "error")
		return fmt.Errorf("redis set %s: %w", rec.ID, err)
	}
	metrics.RecordStoreOperation(backendRedis, "put", "ok")
	return nil
}

// Get reads the record for id.
func (s *RedisStore) Get(ctx context.Context, id string) (Record, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordStoreOperation(backendRedis, "get", "not_found")
		return Record{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreOperation(backendRedis, "get", "error")
		return Record{}, fmt.Errorf("redis get %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		metrics.RecordStoreOperation(backendRedis, "get", "error")
		return Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	metrics.RecordStoreOperation(backendRedis, "get", "ok")
	return rec, nil
}

// Count scans the key space for the store prefix. It returns 0 when Redis is unreachable.
func (s *RedisStore) Count(ctx context.Context) int {
	var (
		cursor uint64
		n      int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 500).Result()
		if err != nil {
			metrics.RecordStoreOperation(backendRedis, "count", "error")
			return n
		}
		n += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	metrics.UpdateStoredResults(n)
	return n
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
