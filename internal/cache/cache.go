// Package cache provides a thin read-through cache for data-fetching
// functions. Cached values expire after a fixed TTL and writes invalidate
// explicitly; concurrent misses for the same key are collapsed into a single
// load via singleflight so a cold cache never stampedes the database.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

// Store is a keyed TTL cache. The zero value is not usable; construct with New.
type Store[K comparable, V any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[K]entry[V]
	group   singleflight.Group
}

// New returns a Store whose entries expire ttl after being loaded.
func New[K comparable, V any](ttl time.Duration) *Store[K, V] {
	return &Store[K, V]{
		ttl:     ttl,
		entries: make(map[K]entry[V]),
	}
}

// GetOrLoad returns the cached value for key, calling loader to populate it
// on a miss or after expiry. Loader errors are not cached.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, loader func(context.Context) (V, error)) (V, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && time.Now().Before(e.expires) {
		return e.value, nil
	}

	v, err, _ := s.group.Do(fmt.Sprintf("%v", key), func() (interface{}, error) {
		// Another caller may have finished loading while we waited.
		s.mu.RLock()
		e, ok := s.entries[key]
		s.mu.RUnlock()
		if ok && time.Now().Before(e.expires) {
			return e.value, nil
		}

		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.entries[key] = entry[V]{value: value, expires: time.Now().Add(s.ttl)}
		s.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	return v.(V), nil
}

// Invalidate drops the cached value for key, if any.
func (s *Store[K, V]) Invalidate(key K) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// InvalidateAll drops every cached value.
func (s *Store[K, V]) InvalidateAll() {
	s.mu.Lock()
	s.entries = make(map[K]entry[V])
	s.mu.Unlock()
}
