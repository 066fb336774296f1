package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/cricscore/pkg/metrics"
)

const backendMemory = "memory"

// entry is a record in the insertion-ordered list; head is the oldest.
type entry struct {
	rec     Record
	expires time.Time
	prev    *entry
	next    *entry
}

// MemoryStore is a bounded in-memory Store with FIFO eviction and optional expiry.
type MemoryStore struct {
	mu         sync.RWMutex
	byID       map[string]*entry
	head, tail *entry

	maxResults    int
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
	entryPool sync.Pool
}

// NewMemoryStore constructs a memory store and starts its expiry sweep.
// The sweep stops when ctx is cancelled or Close is called.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		byID:          make(map[string]*entry),
		maxResults:    10000,
		ttl:           24 * time.Hour,
		sweepInterval: time.Minute,
		now:           time.Now,
		stopChan:      make(chan struct{}),
		entryPool: sync.Pool{
			New: func() any { return &entry{} },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startSweeper(ctx)
	return s
}

// Put inserts or replaces a record; a replaced record moves to the newest end.
func (s *MemoryStore) Put(_ context.Context, rec Record) error {
	if rec.ID == "" {
		metrics.RecordStoreOperation(backendMemory, "put", "error")
		return ErrInvalidID
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = s.now()
	}

	s.mu.Lock()
	if e, ok := s.byID[rec.ID]; ok {
		s.unlink(e)
		e.rec = rec
		e.expires = s.expiry()
		s.pushBack(e)
	} else {
		if s.maxResults > 0 && len(s.byID) >= s.maxResults {
			s.evict(s.head)
		}
		e := s.entryPool.Get().(*entry)
		e.rec = rec
		e.expires = s.expiry()
		s.byID[rec.ID] = e
		s.pushBack(e)
	}
	n := len(s.byID)
	s.mu.Unlock()

	metrics.RecordStoreOperation(backendMemory, "put", "ok")
	metrics.UpdateStoredResults(n)
	return nil
}

// Get returns the record for id, treating expired records as missing.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	e, ok := s.byID[id]
	var rec Record
	expired := false
	if ok {
		rec = e.rec
		expired = s.expired(e, s.now())
	}
	s.mu.RUnlock()

	if !ok || expired {
		metrics.RecordStoreOperation(backendMemory, "get", "not_found")
		return Record{}, ErrNotFound
	}
	metrics.RecordStoreOperation(backendMemory, "get", "ok")
	return rec, nil
}

// Count returns the number of records held, including any not yet swept.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Close stops the expiry sweep and waits for it to exit.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Sweep removes expired records and returns how many were dropped.
func (s *MemoryStore) Sweep() int {
	now := s.now()
	s.mu.Lock()
	dropped := 0
	// The list is ordered by expiry because every write moves to the tail with the same TTL.
	for s.head != nil && s.expired(s.head, now) {
		s.evict(s.head)
		dropped++
	}
	n := len(s.byID)
	s.mu.Unlock()

	if dropped > 0 {
		metrics.UpdateStoredResults(n)
	}
	return dropped
}

func (s *MemoryStore) startSweeper(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

func (s *MemoryStore) expiry() time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(s.ttl)
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// evict removes e. Must be called with s.mu held.
func (s *MemoryStore) evict(e *entry) {
	if e == nil {
		return
	}
	s.unlink(e)
	delete(s.byID, e.rec.ID)
	*e = entry{}
	s.entryPool.Put(e)
}

func (s *MemoryStore) pushBack(e *entry) {
	e.prev, e.next = s.tail, nil
	if s.tail != nil {
		s.tail.next = e
	} else {
		s.head = e
	}
	s.tail = e
}

func (s *MemoryStore) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		s.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		s.tail = e.prev
	}
	e.prev, e.next = nil, nil
}
