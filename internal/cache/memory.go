package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store. It backs single-run CLI invocations
// and tests; entries are kept after expiry so stale fallback still works.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Record
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, url string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[url]
	if !ok {
		return nil, nil
	}

	record := entry
	record.Expired = s.now().After(entry.ExpiresAt)
	return &record, nil
}

func (s *MemoryStore) Set(_ context.Context, args SetArgs) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[args.URL] = Record{
		Content:     args.Content,
		Source:      args.Source,
		Service:     args.Service,
		ResourceKey: args.ResourceKey,
		Metadata:    args.Metadata,
		StoredAt:    now,
		ExpiresAt:   now.Add(args.TTL),
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
