// Package repository stores rating results under their result handle.
package repository

import (
	"context"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
)

// Status is the lifecycle state of a stored rating.
type Status string

// Result states.
const (
	StatusPending Status = "pending"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Record is a rating result, or the state of a rating still in flight.
type Record struct {
	ID        string             `json:"id"`
	Status    Status             `json:"status"`
	Result    *model.MatchResult `json:"result,omitempty"`
	Anomalies []model.Anomaly    `json:"anomalies,omitempty"`
	Error     string             `json:"error,omitempty"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// Store provides read/write access to rating results.
type Store interface {
	// Put inserts or replaces the record with rec.ID.
	Put(ctx context.Context, rec Record) error

	// Get returns the record for id.
	// Returns ErrNotFound if the id is unknown or expired.
	Get(ctx context.Context, id string) (Record, error)

	// Count returns the number of records currently held.
	Count(ctx context.Context) int

	// Close releases background resources.
	Close() error
}
