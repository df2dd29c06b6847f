package ratelimit

import (
	"context"
	"sync"
	"time"
)

type record struct {
	count     int
	resetTime time.Time
}

// MemoryStore is a process-local fixed-window store. Each instance of
// the service enforces its own independent limits; that coarsening is
// accepted for single-process deployments.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*record),
		now:     time.Now,
	}
}

// Allow implements Store. A new or expired key starts a fresh window at
// count 1; a key at its limit is denied without further incrementing.
func (s *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	rec, exists := s.records[key]
	if !exists || now.After(rec.resetTime) {
		s.records[key] = &record{count: 1, resetTime: now.Add(window)}
		return true, nil
	}

	if rec.count >= limit {
		return false, nil
	}

	rec.count++
	return true, nil
}

// Sweep removes every record whose window has passed, bounding memory
// growth under sustained unique-client traffic.
func (s *MemoryStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, rec := range s.records {
		if now.After(rec.resetTime) {
			delete(s.records, key)
		}
	}
}

// Run sweeps on its own ticker until the context is cancelled. It runs
// independently of request traffic and never blocks request handling.
func (s *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len returns the number of tracked keys. Test helper.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
