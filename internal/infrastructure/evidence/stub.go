package evidence

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	ledgerapp "github.com/voiceledger/backend/internal/application/ledger"
)

// StubEvidenceStore keeps clips in memory. Use it in development and
// tests when no object storage backend is configured.
type StubEvidenceStore struct {
	mu    sync.Mutex
	clips map[string][]byte
}

// NewStubEvidenceStore creates a new StubEvidenceStore
func NewStubEvidenceStore() *StubEvidenceStore {
	return &StubEvidenceStore{clips: make(map[string][]byte)}
}

// Ensure StubEvidenceStore implements the application port
var _ ledgerapp.EvidenceStore = (*StubEvidenceStore)(nil)

// Put stores an audio clip in memory and returns a stub key
func (s *StubEvidenceStore) Put(ctx context.Context, ownerID uuid.UUID, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("audio payload is empty")
	}

	key := fmt.Sprintf("stub/%s/%s.ogg", ownerID, uuid.New())

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(audio))
	copy(buf, audio)
	s.clips[key] = buf

	return key, nil
}

// Get returns a stored clip, for test assertions
func (s *StubEvidenceStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clip, ok := s.clips[key]
	return clip, ok
}

// Len returns the number of stored clips
func (s *StubEvidenceStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clips)
}
