// Package session holds the process-wide client session state: the
// current identity from the identity provider and the user document
// fetched for it.
package session

import (
	"context"
	"sync"

	"github.com/promptart/backend/internal/models"
)

// Identity is the raw identity delivered by the identity provider on a
// session change. A nil *Identity means signed out.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Notifier delivers session-change notifications. Subscribe registers a
// callback for every transition (including sign-out, delivered as nil)
// and returns an unsubscribe function.
type Notifier interface {
	Subscribe(fn func(*Identity)) (unsubscribe func())
}

// UserFetcher loads the user document for an identity.
type UserFetcher func(ctx context.Context, uid string) (*models.User, error)

// Store is the process-wide session state container. It starts loading
// and unauthenticated, binds once to a Notifier for its lifetime, and on
// each notification stores the identity and asynchronously fetches the
// matching user document.
//
// Fetches race: a notification can supersede an in-flight fetch for the
// previous identity. Each fetch is tagged with the generation of the
// notification that triggered it, and a completion whose generation is no
// longer current is discarded instead of overwriting newer state.
type Store struct {
	mu sync.Mutex

	fetch       UserFetcher
	identity    *Identity
	user        *models.User
	loading     bool
	gen         uint64
	unsubscribe func()
}

func NewStore(fetch UserFetcher) *Store {
	return &Store{
		fetch:   fetch,
		loading: true,
	}
}

// Bind subscribes the store to the notifier. It is intended to be called
// once for the lifetime of the store.
func (s *Store) Bind(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		return
	}
	s.unsubscribe = n.Subscribe(s.onSessionChange)
}

// Close tears down the subscription.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (s *Store) onSessionChange(id *Identity) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.identity = id

	if id == nil {
		s.user = nil
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.loading = true
	uid := id.UID
	s.mu.Unlock()

	go func() {
		user, err := s.fetch(context.Background(), uid)

		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			// A newer notification arrived while this fetch was in
			// flight; its result is stale.
			return
		}
		if err != nil {
			s.user = nil
		} else {
			s.user = user
		}
		s.loading = false
	}()
}

// Identity returns the current raw identity, or nil when signed out.
func (s *Store) Identity() *Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity
}

// User returns the user document fetched for the current identity, or nil.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Loading reports whether the store is still resolving its state.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// IsAuthenticated is derived from the stored identity; it is never stored
// separately.
func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity != nil
}

// IsAdmin is derived from the fetched user document's role.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdminRole()
}
