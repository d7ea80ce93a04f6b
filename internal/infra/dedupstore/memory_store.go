package dedupstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
)

// MemoryStore keeps reservations and sent markers in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Reserve claims key unless a live entry exists. A non-positive ttl never expires.
func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.liveLocked(key) {
		return false, nil
	}
	s.entries[key] = s.expiry(ttl)
	return true, nil
}

// MarkSent records key. A non-positive ttl keeps the marker forever.
func (s *MemoryStore) MarkSent(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = s.expiry(ttl)
	return nil
}

// Release forgets key.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) liveLocked(key string) bool {
	expiry, ok := s.entries[key]
	if !ok {
		return false
	}
	if !expiry.IsZero() && s.now().After(expiry) {
		delete(s.entries, key)
		return false
	}
	return true
}

func (s *MemoryStore) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

var _ announcement.DedupStore = (*MemoryStore)(nil)
