package repository

import (
	"sync"

	"github.com/reshetovitsme/channel-mirror/internal/modules/relay/domain"
	"github.com/samber/oops"
)

// MemoryStorage implements Repository as a bounded ring buffer. Nothing
// survives a process restart.
type MemoryStorage struct {
	entries []*domain.Activity
	next    int
	full    bool
	mu      sync.RWMutex
}

// NewMemoryStorage creates a journal keeping the last capacity entries
func NewMemoryStorage(capacity int) (Repository, error) {
	if capacity <= 0 {
		return nil, oops.With("capacity", capacity).Errorf("activity journal capacity must be positive")
	}
	return &MemoryStorage{entries: make([]*domain.Activity, capacity)}, nil
}

func (s *MemoryStorage) SaveActivity(activity *domain.Activity) error {
	if activity == nil {
		return oops.Errorf("nil activity")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[s.next] = activity
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

// GetRecentActivity returns up to limit entries, newest first
func (s *MemoryStorage) GetRecentActivity(limit int) ([]*domain.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size := s.next
	if s.full {
		size = len(s.entries)
	}
	if limit <= 0 || limit > size {
		limit = size
	}

	activities := make([]*domain.Activity, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		activities = append(activities, s.entries[idx])
	}
	return activities, nil
}
