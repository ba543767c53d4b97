package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/synced-sports/internal/platform/resilience"
)

// Observer receives hit and miss notifications, typically a metrics sink.
type Observer interface {
	CacheHit(store string)
	CacheMiss(store string)
}

type Option[V any] func(*Store[V])

func WithObserver[V any](o Observer) Option[V] {
	return func(s *Store[V]) { s.observer = o }
}

func WithClock[V any](now func() time.Time) Option[V] {
	return func(s *Store[V]) { s.now = now }
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Store is an in-process TTL cache. Entries never expire when ttl <= 0;
// callers invalidate explicitly on writes.
type Store[V any] struct {
	name     string
	ttl      time.Duration
	now      func() time.Time
	observer Observer

	mu      sync.RWMutex
	entries map[string]entry[V]
	flight  resilience.SingleFlight[V]
}

func NewStore[V any](name string, ttl time.Duration, opts ...Option[V]) *Store[V] {
	s := &Store[V]{
		name:    name,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V
	if key == "" {
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[V]) Set(_ context.Context, key string, value V) {
	if key == "" {
		return
	}

	var expiresAt time.Time
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()
}

func (s *Store[V]) Delete(_ context.Context, keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

func (s *Store[V]) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// DeleteExpired drops every expired entry and returns how many were
// removed. Get only evicts the key it reads.
func (s *Store[V]) DeleteExpired() int {
	if s.ttl <= 0 {
		return 0
	}

	now := s.now()
	removed := 0
	s.mu.Lock()
	for key, e := range s.entries {
		if !e.expiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()
	return removed
}

func (s *Store[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// GetOrLoad returns the cached value or loads it once across concurrent
// callers. Load errors are not cached.
func (s *Store[V]) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (V, error)) (V, error) {
	var zero V
	if loader == nil {
		return zero, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		s.hit()
		return value, nil
	}
	s.miss()

	value, _, err := s.flight.Do(key, func() (V, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return value, nil
}

func (s *Store[V]) hit() {
	if s.observer != nil {
		s.observer.CacheHit(s.name)
	}
}

func (s *Store[V]) miss() {
	if s.observer != nil {
		s.observer.CacheMiss(s.name)
	}
}
