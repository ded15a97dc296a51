package fetch

import (
	"context"
	"sync"
)

// FetchFunc retrieves one value.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Single wraps a FetchFunc with loading and error state. A failed reload
// keeps the previously fetched value.
type Single[T any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[T]
	value   T
	loaded  bool
	loading bool
	err     error
}

func NewSingle[T any](fetch FetchFunc[T]) *Single[T] {
	return &Single[T]{fetch: fetch}
}

// Load fetches the value, replacing it on success.
func (s *Single[T]) Load(ctx context.Context) {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.err = nil
	s.mu.Unlock()

	value, err := s.fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = err
		return
	}
	s.value = value
	s.loaded = true
}

// Value returns the most recently fetched value and whether any fetch has
// succeeded yet.
func (s *Single[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded
}

// Loading reports whether a load is in flight.
func (s *Single[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error from the most recent load, or nil after a
// successful one.
func (s *Single[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
