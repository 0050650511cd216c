package services

import (
	"context"
	"sync"
	"testing"
)

// fakeFeed implements Feed and lets tests fire change notifications by hand.
type fakeFeed struct {
	fakePublisher
	mu       sync.Mutex
	handlers map[string]func(op string)
	ctxs     map[string]context.Context
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		handlers: make(map[string]func(op string)),
		ctxs:     make(map[string]context.Context),
	}
}

func (f *fakeFeed) Subscribe(ctx context.Context, userID string, handler func(op string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[userID] = handler
	f.ctxs[userID] = ctx
}

func (f *fakeFeed) fire(userID, op string) {
	f.mu.Lock()
	handler := f.handlers[userID]
	f.mu.Unlock()
	if handler != nil {
		handler(op)
	}
}

func TestStoreManager(t *testing.T) {
	t.Run("one store per user", func(t *testing.T) {
		m := NewStoreManager(seededRemote(), nil, testClock)
		a := m.Store("u1")
		b := m.Store("u1")
		if a != b {
			t.Error("same user should get the same store")
		}
		if m.Store("u2") == a {
			t.Error("different users should get different stores")
		}
	})

	t.Run("local-only without a remote", func(t *testing.T) {
		m := NewStoreManager(nil, nil, testClock)
		if !m.LocalOnly() {
			t.Error("nil remote should mean local-only")
		}
		if err := m.Store("u1").Refresh(context.Background()); err == nil {
			t.Error("refresh should fail without a remote")
		}
	})

	t.Run("change feed invalidates the store", func(t *testing.T) {
		remote := seededRemote()
		feed := newFakeFeed()
		m := NewStoreManager(remote, feed, testClock)

		store := m.Store("u1")
		store.Refresh(context.Background())

		remote.mu.Lock()
		remote.habits = remote.habits[1:]
		remote.mu.Unlock()

		feed.fire("u1", "delete")

		if got := store.Snapshot(); len(got) != 1 {
			t.Errorf("after push got %d habits, want 1", len(got))
		}
	})

	t.Run("drop cancels the subscription and resets", func(t *testing.T) {
		feed := newFakeFeed()
		m := NewStoreManager(seededRemote(), feed, testClock)

		store := m.Store("u1")
		store.Refresh(context.Background())

		m.Drop("u1")

		feed.mu.Lock()
		ctx := feed.ctxs["u1"]
		feed.mu.Unlock()
		if ctx.Err() == nil {
			t.Error("subscription context should be cancelled after drop")
		}
		if store.State() != StateUninitialized {
			t.Error("dropped store should be reset")
		}
		if m.Store("u1") == store {
			t.Error("next sign-in should get a fresh store")
		}
	})
}
