// Package cache stores search payloads under a normalized request
// fingerprint with TTL-based staleness. The cache is an optimization,
// not a correctness mechanism: there is no single-flight deduplication,
// and concurrent writers to the same key simply last-write-win.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// placeholder substitutes absent optional fields in a fingerprint so
// that "field unset" and "field empty" collapse to the same key.
const placeholder = "default"

// KeyFields carries the provider-relevant optional request fields that
// participate in the fingerprint. Any difference in any field yields a
// distinct key.
type KeyFields struct {
	Country    string
	SearchLang string
	UILang     string
	Freshness  string
	Site       string
	Summary    bool
	SummarySet bool
}

// Key builds the normalized fingerprint for a request.
func Key(provider, query string, count int, f KeyFields) string {
	summary := placeholder
	if f.SummarySet {
		summary = strconv.FormatBool(f.Summary)
	}
	parts := []string{
		provider,
		query,
		strconv.Itoa(count),
		orDefault(f.Country),
		orDefault(f.SearchLang),
		orDefault(f.UILang),
		orDefault(f.Freshness),
		orDefault(f.Site),
		summary,
	}
	return strings.Join(parts, "|")
}

func orDefault(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

// Store is the cache contract shared by the memory and sqlite backends.
// Get treats an expired entry as a miss and drops it. Put stamps
// expiresAt = now + ttl. Sweep removes expired entries eagerly and
// reports how many it deleted.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, payload []byte) error
	Sweep(ctx context.Context) (int, error)
	Close() error
}

// MemoryStore is the default process-wide in-memory backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemoryStore creates a memory-backed cache with the given TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// SetClock overrides the store's clock. Test hook.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{
		payload:   payload,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	deleted := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) Close() error { return nil }

// Len reports the number of entries, expired or not. Test hook.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
