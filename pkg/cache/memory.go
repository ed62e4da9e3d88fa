package cache

import (
	"context"
	"sync/atomic"
	"time"

	expirable "github.com/hashicorp/golang-lru/v2/expirable"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryStore is an in-process LRU cache implementing Store. The LRU drops
// entries after maxTTL at the latest; shorter per-entry TTLs are checked on read.
type MemoryStore struct {
	lru       *expirable.LRU[string, memoryEntry]
	maxTTL    time.Duration
	now       func() time.Time
	evictions atomic.Int64
}

// NewMemoryStore creates a store holding at most maxSize entries
func NewMemoryStore(maxSize int, maxTTL time.Duration) *MemoryStore {
	if maxSize <= 0 {
		maxSize = 1000
	}
	if maxTTL <= 0 {
		maxTTL = time.Hour
	}
	s := &MemoryStore{
		maxTTL: maxTTL,
		now:    time.Now,
	}
	s.lru = expirable.NewLRU[string, memoryEntry](maxSize, func(string, memoryEntry) {
		s.evictions.Add(1)
	}, maxTTL)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	entry, ok := s.lru.Get(key)
	if !ok {
		return nil, false
	}
	if !s.now().Before(entry.expiresAt) {
		s.lru.Remove(key)
		return nil, false
	}
	return entry.value, true
}

// Set stores a copy of value. A ttl of zero or above maxTTL is capped at maxTTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.lru.Add(key, memoryEntry{value: stored, expiresAt: s.now().Add(ttl)})
}

// Delete removes key
func (s *MemoryStore) Delete(key string) {
	s.lru.Remove(key)
}

// Len returns the number of stored entries, expired ones included until read
func (s *MemoryStore) Len() int {
	return s.lru.Len()
}

// Evictions returns how many entries were dropped for size or age
func (s *MemoryStore) Evictions() int64 {
	return s.evictions.Load()
}

// Close purges the store
func (s *MemoryStore) Close() error {
	s.lru.Purge()
	return nil
}
