package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptart/backend/internal/models"
)

// fakeNotifier lets tests drive session transitions by hand.
type fakeNotifier struct {
	mu       sync.Mutex
	fn       func(*Identity)
	unsubbed bool
}

func (n *fakeNotifier) Subscribe(fn func(*Identity)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fn = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.unsubbed = true
	}
}

func (n *fakeNotifier) emit(id *Identity) {
	n.mu.Lock()
	fn := n.fn
	n.mu.Unlock()
	fn(id)
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		return nil, nil
	})
	assert.True(t, store.Loading())
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.IsAdmin())
	assert.Nil(t, store.User())
}

func TestStoreSignInFetchesUser(t *testing.T) {
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		return &models.User{UID: uid, Role: models.RoleAdmin}, nil
	})
	notifier := &fakeNotifier{}
	store.Bind(notifier)

	notifier.emit(&Identity{UID: "u1", Email: "u1@example.com"})

	assert.True(t, store.IsAuthenticated(), "authenticated as soon as the identity lands")
	require.Eventually(t, func() bool {
		return !store.Loading()
	}, time.Second, 5*time.Millisecond)

	user := store.User()
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.UID)
	assert.True(t, store.IsAdmin())
}

func TestStoreSignOutResets(t *testing.T) {
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		return &models.User{UID: uid, Role: models.RoleUser}, nil
	})
	notifier := &fakeNotifier{}
	store.Bind(notifier)

	notifier.emit(&Identity{UID: "u1"})
	require.Eventually(t, func() bool { return store.User() != nil }, time.Second, 5*time.Millisecond)

	notifier.emit(nil)
	assert.False(t, store.IsAuthenticated())
	assert.False(t, store.Loading())
	assert.Nil(t, store.User())
	assert.Nil(t, store.Identity())
}

func TestStoreDiscardsStaleFetch(t *testing.T) {
	release := make(chan struct{})
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		if uid == "slow" {
			<-release
			return &models.User{UID: "slow", Role: models.RoleAdmin}, nil
		}
		return &models.User{UID: uid, Role: models.RoleUser}, nil
	})
	notifier := &fakeNotifier{}
	store.Bind(notifier)

	notifier.emit(&Identity{UID: "slow"})
	notifier.emit(&Identity{UID: "fast"})

	require.Eventually(t, func() bool {
		u := store.User()
		return u != nil && u.UID == "fast"
	}, time.Second, 5*time.Millisecond)

	// Let the superseded fetch finish; its result must not overwrite the
	// current user.
	close(release)
	time.Sleep(50 * time.Millisecond)

	user := store.User()
	require.NotNil(t, user)
	assert.Equal(t, "fast", user.UID)
	assert.False(t, store.IsAdmin())
}

func TestStoreFetchErrorClearsUser(t *testing.T) {
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		return nil, errors.New("backend unavailable")
	})
	notifier := &fakeNotifier{}
	store.Bind(notifier)

	notifier.emit(&Identity{UID: "u1"})
	require.Eventually(t, func() bool { return !store.Loading() }, time.Second, 5*time.Millisecond)

	assert.Nil(t, store.User())
	assert.True(t, store.IsAuthenticated(), "identity survives a failed user fetch")
	assert.False(t, store.IsAdmin())
}

func TestStoreCloseUnsubscribes(t *testing.T) {
	store := NewStore(func(ctx context.Context, uid string) (*models.User, error) {
		return nil, nil
	})
	notifier := &fakeNotifier{}
	store.Bind(notifier)
	store.Close()

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.True(t, notifier.unsubbed)
}
