package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"main/model"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

// March 15th 2026.
var testClock = fixedClock{now: time.Date(2026, time.March, 15, 10, 0, 0, 0, time.Local)}

// fakeRemote is an in-memory RemoteHabits with switchable failures.
type fakeRemote struct {
	mu     sync.Mutex
	habits []model.Habit

	fetchErr  error
	insertErr error
	updateErr error
	deleteErr error

	fetchCount  int
	updateCalls int

	// blockNextUpdate stalls the next completion write until the channel is
	// closed. One-shot.
	blockNextUpdate chan struct{}
}

func (f *fakeRemote) FetchHabits(ctx context.Context, userID string) ([]model.Habit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCount++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	out := make([]model.Habit, 0, len(f.habits))
	for _, h := range f.habits {
		if h.UserID == userID {
			out = append(out, h.Clone())
		}
	}
	return out, nil
}

func (f *fakeRemote) InsertHabit(ctx context.Context, habit *model.Habit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.habits = append(f.habits, habit.Clone())
	return nil
}

func (f *fakeRemote) UpdateDetails(ctx context.Context, habitID, userID, name, goal, color string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.habits {
		if f.habits[i].HabitID == habitID && f.habits[i].UserID == userID {
			f.habits[i].Name = name
			f.habits[i].Goal = goal
			f.habits[i].Color = color
			return nil
		}
	}
	return errors.New("habit not found")
}

func (f *fakeRemote) UpdateCompletedDates(ctx context.Context, habitID, userID string, dates []string) error {
	f.mu.Lock()
	f.updateCalls++
	gate := f.blockNextUpdate
	f.blockNextUpdate = nil
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.habits {
		if f.habits[i].HabitID == habitID && f.habits[i].UserID == userID {
			f.habits[i].CompletedDates = append([]string(nil), dates...)
			return nil
		}
	}
	return errors.New("habit not found")
}

func (f *fakeRemote) DeleteHabit(ctx context.Context, habitID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.habits {
		if f.habits[i].HabitID == habitID && f.habits[i].UserID == userID {
			f.habits = append(f.habits[:i], f.habits[i+1:]...)
			return nil
		}
	}
	return errors.New("habit not found")
}

type fakePublisher struct {
	mu  sync.Mutex
	ops []string
}

func (f *fakePublisher) Publish(ctx context.Context, userID, op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakePublisher) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func seededRemote() *fakeRemote {
	return &fakeRemote{habits: []model.Habit{
		{HabitID: "h1", UserID: "u1", Name: "Read", Color: model.PastelColors[0],
			CompletedDates: []string{"2026-03-13", "2026-03-14"}},
		{HabitID: "h2", UserID: "u1", Name: "Run", Color: model.PastelColors[1],
			CompletedDates: []string{}},
		{HabitID: "h3", UserID: "u2", Name: "Other user", Color: model.PastelColors[2],
			CompletedDates: []string{}},
	}}
}

func newTestStore(remote *fakeRemote, feed Publisher) *HabitStore {
	return NewHabitStore("u1", remote, feed, testClock)
}

func TestStoreGuards(t *testing.T) {
	t.Run("no remote", func(t *testing.T) {
		store := NewHabitStore("u1", nil, nil, testClock)
		if err := store.Refresh(context.Background()); !errors.Is(err, ErrNoRemote) {
			t.Errorf("Refresh error = %v, want ErrNoRemote", err)
		}
		if _, err := store.ToggleDate(context.Background(), "h1", "2026-03-15"); !errors.Is(err, ErrNoRemote) {
			t.Errorf("ToggleDate error = %v, want ErrNoRemote", err)
		}
	})

	t.Run("no user", func(t *testing.T) {
		store := NewHabitStore("", seededRemote(), nil, testClock)
		if err := store.Refresh(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
			t.Errorf("Refresh error = %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestRefresh(t *testing.T) {
	t.Run("loads only the user's habits", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		if err := store.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh: %v", err)
		}
		if store.State() != StateReady {
			t.Errorf("state = %v, want ready", store.State())
		}
		habits := store.Snapshot()
		if len(habits) != 2 {
			t.Fatalf("got %d habits, want 2", len(habits))
		}
		for _, h := range habits {
			if h.UserID != "u1" {
				t.Errorf("leaked habit for user %s", h.UserID)
			}
		}
	})

	t.Run("failure preserves the last good list", func(t *testing.T) {
		remote := seededRemote()
		store := newTestStore(remote, nil)
		if err := store.Refresh(context.Background()); err != nil {
			t.Fatalf("Refresh: %v", err)
		}

		remote.mu.Lock()
		remote.fetchErr = errors.New("network down")
		remote.mu.Unlock()

		if err := store.Refresh(context.Background()); err == nil {
			t.Fatal("expected refresh error")
		}
		if store.State() != StateError {
			t.Errorf("state = %v, want error", store.State())
		}
		if got := store.Snapshot(); len(got) != 2 {
			t.Errorf("list was lost on failed refresh: %d habits", len(got))
		}
		loadErr, schemaMissing := store.LoadError()
		if loadErr == nil || schemaMissing {
			t.Errorf("LoadError = (%v, %v), want network error, not schema-missing", loadErr, schemaMissing)
		}
	})

	t.Run("missing table is classified separately", func(t *testing.T) {
		remote := seededRemote()
		remote.fetchErr = errors.New("ns not found")
		store := newTestStore(remote, nil)

		if err := store.Refresh(context.Background()); err == nil {
			t.Fatal("expected refresh error")
		}
		if _, schemaMissing := store.LoadError(); !schemaMissing {
			t.Error("missing-table error should set schemaMissing")
		}
	})

	t.Run("snapshot is isolated from store state", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())

		snap := store.Snapshot()
		snap[0].CompletedDates = append(snap[0].CompletedDates, "2099-01-01")

		if got := store.Snapshot(); len(got[0].CompletedDates) == len(snap[0].CompletedDates) {
			t.Error("mutating a snapshot leaked into the store")
		}
	})
}

func TestCreateLeavesMemoryUntouched(t *testing.T) {
	remote := seededRemote()
	feed := &fakePublisher{}
	store := newTestStore(remote, feed)
	store.Refresh(context.Background())

	if err := store.Create(context.Background(), "Meditate", "Calm", model.PastelColors[3]); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// The local list only picks up the insert on the next refresh.
	if got := store.Snapshot(); len(got) != 2 {
		t.Errorf("local list changed on create: %d habits", len(got))
	}

	store.Refresh(context.Background())
	if got := store.Snapshot(); len(got) != 3 {
		t.Errorf("after refresh got %d habits, want 3", len(got))
	}

	ops := feed.Ops()
	if len(ops) == 0 || ops[0] != "insert" {
		t.Errorf("feed ops = %v, want insert first", ops)
	}
}

func TestToggleDate(t *testing.T) {
	t.Run("optimistic apply is immediate", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())

		result, err := store.ToggleDate(context.Background(), "h2", "2026-03-15")
		if err != nil {
			t.Fatalf("ToggleDate: %v", err)
		}
		if !result.Completed {
			t.Error("toggle on should report completed")
		}

		// Visible before the async write settles.
		for _, h := range store.Snapshot() {
			if h.HabitID == "h2" && len(h.CompletedDates) != 1 {
				t.Errorf("optimistic apply missing: %v", h.CompletedDates)
			}
		}
		store.Wait()
	})

	t.Run("double toggle round-trips", func(t *testing.T) {
		remote := seededRemote()
		store := newTestStore(remote, nil)
		store.Refresh(context.Background())

		if _, err := store.ToggleDate(context.Background(), "h1", "2026-03-10"); err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		result, err := store.ToggleDate(context.Background(), "h1", "2026-03-10")
		if err != nil {
			t.Fatalf("second toggle: %v", err)
		}
		if result.Completed {
			t.Error("second toggle should report not completed")
		}
		store.Wait()

		remote.mu.Lock()
		var dates []string
		for _, h := range remote.habits {
			if h.HabitID == "h1" {
				dates = h.CompletedDates
			}
		}
		remote.mu.Unlock()
		if len(dates) != 2 {
			t.Errorf("remote dates after round-trip = %v, want the original two", dates)
		}
	})

	t.Run("writes land in application order", func(t *testing.T) {
		remote := seededRemote()
		store := newTestStore(remote, nil)
		store.Refresh(context.Background())

		gate := make(chan struct{})
		remote.mu.Lock()
		remote.blockNextUpdate = gate
		remote.mu.Unlock()

		// Toggle on then off while the first write is stalled. The second
		// write must queue behind it, not overtake it.
		if _, err := store.ToggleDate(context.Background(), "h2", "2026-03-15"); err != nil {
			t.Fatalf("first toggle: %v", err)
		}
		if _, err := store.ToggleDate(context.Background(), "h2", "2026-03-15"); err != nil {
			t.Fatalf("second toggle: %v", err)
		}

		deadline := time.Now().Add(time.Second)
		for {
			remote.mu.Lock()
			started := remote.updateCalls
			remote.mu.Unlock()
			if started >= 1 || time.Now().After(deadline) {
				break
			}
			time.Sleep(time.Millisecond)
		}
		time.Sleep(20 * time.Millisecond)
		remote.mu.Lock()
		started := remote.updateCalls
		remote.mu.Unlock()
		if started != 1 {
			t.Errorf("%d writes started while the first was stalled, want 1", started)
		}

		close(gate)
		store.Wait()

		remote.mu.Lock()
		var dates []string
		for _, h := range remote.habits {
			if h.HabitID == "h2" {
				dates = h.CompletedDates
			}
		}
		calls := remote.updateCalls
		remote.mu.Unlock()
		if calls != 2 {
			t.Errorf("update calls = %d, want 2", calls)
		}
		if len(dates) != 0 {
			t.Errorf("remote dates = %v, want the off state to win", dates)
		}
	})

	t.Run("remote failure triggers corrective refetch", func(t *testing.T) {
		remote := seededRemote()
		store := newTestStore(remote, nil)
		store.Refresh(context.Background())

		remote.mu.Lock()
		remote.updateErr = errors.New("write failed")
		before := remote.fetchCount
		remote.mu.Unlock()

		if _, err := store.ToggleDate(context.Background(), "h2", "2026-03-15"); err != nil {
			t.Fatalf("ToggleDate: %v", err)
		}
		store.Wait()

		remote.mu.Lock()
		after := remote.fetchCount
		remote.mu.Unlock()
		if after != before+1 {
			t.Errorf("fetch count %d -> %d, want one corrective refetch", before, after)
		}

		// The refetch restored the remote truth: no completion recorded.
		for _, h := range store.Snapshot() {
			if h.HabitID == "h2" && len(h.CompletedDates) != 0 {
				t.Errorf("optimistic write survived a failed remote update: %v", h.CompletedDates)
			}
		}
	})

	t.Run("unknown habit", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())
		if _, err := store.ToggleDate(context.Background(), "nope", "2026-03-15"); !errors.Is(err, ErrHabitNotFound) {
			t.Errorf("error = %v, want ErrHabitNotFound", err)
		}
	})
}

func TestCelebration(t *testing.T) {
	inSet := func(msg string) bool {
		for _, m := range motivationalMessages {
			if m == msg {
				return true
			}
		}
		return false
	}

	t.Run("fires on newly completing today", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())

		result, err := store.ToggleDate(context.Background(), "h2", "2026-03-15")
		if err != nil {
			t.Fatalf("ToggleDate: %v", err)
		}
		if result.Message == "" || !inSet(result.Message) {
			t.Errorf("message %q should be one of the stock messages", result.Message)
		}
		if store.Celebration() != result.Message {
			t.Error("store should retain the active celebration")
		}
		store.Wait()
	})

	t.Run("silent for past dates", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())

		result, _ := store.ToggleDate(context.Background(), "h2", "2026-03-10")
		if result.Message != "" {
			t.Errorf("past-date toggle produced message %q", result.Message)
		}
		store.Wait()
	})

	t.Run("silent when un-completing today", func(t *testing.T) {
		remote := seededRemote()
		remote.habits[1].CompletedDates = []string{"2026-03-15"}
		store := newTestStore(remote, nil)
		store.Refresh(context.Background())

		result, _ := store.ToggleDate(context.Background(), "h2", "2026-03-15")
		if result.Completed || result.Message != "" {
			t.Errorf("un-complete produced %+v", result)
		}
		store.Wait()
	})
}

func TestDelete(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())

		if err := store.Delete(context.Background(), "h1", false); !errors.Is(err, ErrConfirmationRequired) {
			t.Errorf("error = %v, want ErrConfirmationRequired", err)
		}
		if got := store.Snapshot(); len(got) != 2 {
			t.Errorf("unconfirmed delete touched the list: %d habits", len(got))
		}
	})

	t.Run("removes locally and remotely", func(t *testing.T) {
		remote := seededRemote()
		feed := &fakePublisher{}
		store := newTestStore(remote, feed)
		store.Refresh(context.Background())

		if err := store.Delete(context.Background(), "h1", true); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if got := store.Snapshot(); len(got) != 1 || got[0].HabitID != "h2" {
			t.Errorf("after delete: %+v", got)
		}
		ops := feed.Ops()
		if len(ops) == 0 || ops[len(ops)-1] != "delete" {
			t.Errorf("feed ops = %v, want delete last", ops)
		}
	})

	t.Run("failure restores the exact snapshot", func(t *testing.T) {
		remote := seededRemote()
		store := newTestStore(remote, nil)
		store.Refresh(context.Background())
		store.OpenDetail("h1")

		before := store.Snapshot()

		remote.mu.Lock()
		remote.deleteErr = errors.New("delete failed")
		remote.mu.Unlock()

		if err := store.Delete(context.Background(), "h1", true); err == nil {
			t.Fatal("expected delete error")
		}

		after := store.Snapshot()
		if len(after) != len(before) {
			t.Fatalf("rollback lost habits: %d vs %d", len(after), len(before))
		}
		for i := range before {
			if after[i].HabitID != before[i].HabitID ||
				len(after[i].CompletedDates) != len(before[i].CompletedDates) {
				t.Errorf("habit %d differs after rollback: %+v vs %+v", i, after[i], before[i])
			}
		}
		if _, ok := store.Detail(); !ok {
			t.Error("detail view should be restored with the snapshot")
		}
	})

	t.Run("deleting the open detail closes it", func(t *testing.T) {
		store := newTestStore(seededRemote(), nil)
		store.Refresh(context.Background())
		store.OpenDetail("h1")

		if err := store.Delete(context.Background(), "h1", true); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, ok := store.Detail(); ok {
			t.Error("detail should be closed after its habit is deleted")
		}
	})
}

func TestHandleChange(t *testing.T) {
	remote := seededRemote()
	store := newTestStore(remote, nil)
	store.Refresh(context.Background())
	store.OpenDetail("h1")

	// Another device deletes h1; the push triggers a wholesale refetch.
	remote.mu.Lock()
	remote.habits = remote.habits[1:]
	remote.mu.Unlock()

	store.HandleChange(context.Background())

	if got := store.Snapshot(); len(got) != 1 {
		t.Errorf("after push got %d habits, want 1", len(got))
	}
	if _, ok := store.Detail(); ok {
		t.Error("detail for a vanished habit should be cleared")
	}
}

func TestReset(t *testing.T) {
	store := newTestStore(seededRemote(), nil)
	store.Refresh(context.Background())
	store.OpenDetail("h1")

	store.Reset()

	if store.State() != StateUninitialized {
		t.Errorf("state = %v, want uninitialized", store.State())
	}
	if got := store.Snapshot(); len(got) != 0 {
		t.Errorf("list survived reset: %d habits", len(got))
	}
	if _, ok := store.Detail(); ok {
		t.Error("detail survived reset")
	}
}
