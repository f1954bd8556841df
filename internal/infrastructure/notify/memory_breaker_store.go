package notify

import (
	"context"
	"sync"
	"time"

	notifyapp "github.com/voiceledger/backend/internal/application/notify"
)

// Ensure InMemoryBreakerStore implements the application port
var _ notifyapp.BreakerStore = (*InMemoryBreakerStore)(nil)

// InMemoryBreakerStore keeps the breaker failure count in process memory.
// Suitable for single-instance deployments and tests; counts are not
// shared across processes.
type InMemoryBreakerStore struct {
	mu       sync.Mutex
	failures int
	expires  time.Time
	now      func() time.Time
}

// NewInMemoryBreakerStore creates a new InMemoryBreakerStore
func NewInMemoryBreakerStore() *InMemoryBreakerStore {
	return &InMemoryBreakerStore{now: time.Now}
}

// Failures returns the current failure count inside the window
func (s *InMemoryBreakerStore) Failures(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		s.failures = 0
	}
	return s.failures, nil
}

// RecordFailure increments the failure count, starting the cooldown
// window on the first failure
func (s *InMemoryBreakerStore) RecordFailure(ctx context.Context, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expired() {
		s.failures = 0
	}
	s.failures++
	if s.failures == 1 {
		s.expires = s.now().Add(window)
	}
	return s.failures, nil
}

// Reset clears the failure count
func (s *InMemoryBreakerStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = 0
	s.expires = time.Time{}
	return nil
}

// expired reports whether the cooldown window has passed. Callers must
// hold the mutex.
func (s *InMemoryBreakerStore) expired() bool {
	return !s.expires.IsZero() && s.now().After(s.expires)
}
