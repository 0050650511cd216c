package services

import (
	"context"
	"sync"

	"main/utils"
)

// Feed is the full realtime contract: publish on write, subscribe per user.
type Feed interface {
	Publisher
	Subscribe(ctx context.Context, userID string, handler func(op string))
}

// StoreManager hands out one HabitStore per signed-in user and wires its
// change-feed subscription so pushes invalidate the store for its lifetime.
type StoreManager struct {
	mu      sync.Mutex
	remote  RemoteHabits
	feed    Feed
	clock   utils.Clock
	stores  map[string]*HabitStore
	cancels map[string]context.CancelFunc
}

func NewStoreManager(remote RemoteHabits, feed Feed, clock utils.Clock) *StoreManager {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &StoreManager{
		remote:  remote,
		feed:    feed,
		clock:   clock,
		stores:  make(map[string]*HabitStore),
		cancels: make(map[string]context.CancelFunc),
	}
}

// LocalOnly reports whether the manager was built without a remote store
// (missing or malformed configuration).
func (m *StoreManager) LocalOnly() bool {
	return m.remote == nil
}

// Store returns the user's habit store, creating and subscribing it on first
// use.
func (m *StoreManager) Store(userID string) *HabitStore {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[userID]; ok {
		return store
	}

	var publisher Publisher
	if m.feed != nil {
		publisher = m.feed
	}
	store := NewHabitStore(userID, m.remote, publisher, m.clock)
	m.stores[userID] = store

	if m.feed != nil {
		ctx, cancel := context.WithCancel(context.Background())
		m.cancels[userID] = cancel
		m.feed.Subscribe(ctx, userID, func(string) {
			store.HandleChange(context.Background())
		})
	}
	return store
}

// Drop tears down a user's store on sign-out: subscription cancelled, local
// state cleared.
func (m *StoreManager) Drop(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if cancel, ok := m.cancels[userID]; ok {
		cancel()
		delete(m.cancels, userID)
	}
	if store, ok := m.stores[userID]; ok {
		store.Reset()
		delete(m.stores, userID)
	}
}
