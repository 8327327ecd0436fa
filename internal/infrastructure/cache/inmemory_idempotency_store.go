package cache

import (
	"context"
	"sync"
	"time"

	"github.com/shop/backend/internal/domain/shared"
)

type entry struct {
	record    shared.IdempotencyRecord
	expiresAt time.Time
}

// InMemoryIdempotencyStore keeps idempotency records in process memory.
// It suits single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its expiry sweeper.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(5*time.Minute, time.Now)
}

func newInMemoryIdempotencyStore(sweepEvery time.Duration, now func() time.Time) *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		entries:  make(map[string]entry),
		now:      now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(sweepEvery)
	return s
}

// Reserve claims key unless a live record already holds it.
func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key, fingerprint string, ttl time.Duration) (*shared.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		record := e.record
		return &record, false, nil
	}
	s.entries[key] = entry{
		record:    shared.IdempotencyRecord{Fingerprint: fingerprint},
		expiresAt: now.Add(ttl),
	}
	return nil, true, nil
}

// Complete replaces the reservation with the final response.
func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key string, record shared.IdempotencyRecord, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.Completed = true
	s.entries[key] = entry{record: record, expiresAt: s.now().Add(ttl)}
	return nil
}

// Release drops key.
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored records, expired ones included.
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryIdempotencyStore) sweepLoop(every time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
