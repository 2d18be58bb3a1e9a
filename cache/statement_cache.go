// Package cache holds the prepared forms of a statement, one per connection
// the statement has been prepared against.
package cache

import (
	"context"
	"io"
	"strconv"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultSize bounds the number of connections a single statement keeps a
// prepared form for. Pools recycle connections, so the bound keeps forms for
// retired connections from piling up.
const DefaultSize = 64

type StatementCache[K comparable, V any] struct {
	cache  *lru.Cache[K, V]
	flight singleflight.Group

	mu      sync.Mutex // guards flights and next
	flights map[K]string
	next    uint64
}

// NewStatementCache creates a cache holding at most size entries. Evicted or
// removed values that implement io.Closer are closed.
func NewStatementCache[K comparable, V any](size int) *StatementCache[K, V] {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.NewWithEvict(size, func(_ K, v V) {
		if c, ok := any(v).(io.Closer); ok {
			_ = c.Close()
		}
	})

	return &StatementCache[K, V]{
		cache:   cache,
		flights: map[K]string{},
	}
}

func (s *StatementCache[K, V]) Get(key K) (V, bool) {
	return s.cache.Get(key)
}

// GetOrPrepare returns the cached value for key, or calls prepare and caches
// its result. cached reports whether prepare was skipped. A failed prepare
// caches nothing.
//
// Concurrent callers for the same key share one prepare call. Callers for
// different keys never wait on each other. A caller whose ctx ends while
// waiting returns ctx.Err(); the shared prepare carries on and caches its
// result for later callers.
func (s *StatementCache[K, V]) GetOrPrepare(ctx context.Context, key K, prepare func(context.Context) (V, error)) (v V, cached bool, err error) {
	// Fast path
	if v, ok := s.cache.Get(key); ok {
		return v, true, nil
	}

	id := s.flightID(key)
	ch := s.flight.DoChan(id, func() (any, error) {
		defer s.forget(key, id)

		// Double-check, an earlier flight may have finished
		if v, ok := s.cache.Get(key); ok {
			return v, nil
		}
		v, err := prepare(ctx)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return v, false, res.Err
		}
		return res.Val.(V), false, nil
	case <-ctx.Done():
		return v, false, ctx.Err()
	}
}

// flightID names the in-flight preparation for key. singleflight keys are
// strings, so each key gets a counter value for as long as a flight runs.
func (s *StatementCache[K, V]) flightID(key K) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.flights[key]; ok {
		return id
	}
	s.next++
	id := strconv.FormatUint(s.next, 10)
	s.flights[key] = id
	return id
}

func (s *StatementCache[K, V]) forget(key K, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flights[key] == id {
		delete(s.flights, key)
	}
}

// Remove drops the entry for key and reports whether one existed.
func (s *StatementCache[K, V]) Remove(key K) bool {
	return s.cache.Remove(key)
}

func (s *StatementCache[K, V]) Len() int {
	return s.cache.Len()
}

// Purge drops every entry, closing the ones that are closers.
func (s *StatementCache[K, V]) Purge() {
	s.cache.Purge()
}
