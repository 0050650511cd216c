package services

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/google/uuid"
)

func newHabitID() string {
	return uuid.New().String()
}

// RemoteHabits is the remote table store contract the sync core writes
// through. *repository.HabitsRepo satisfies it; tests substitute a fake.
type RemoteHabits interface {
	FetchHabits(ctx context.Context, userID string) ([]model.Habit, error)
	InsertHabit(ctx context.Context, habit *model.Habit) error
	UpdateDetails(ctx context.Context, habitID, userID, name, goal, color string) error
	UpdateCompletedDates(ctx context.Context, habitID, userID string, dates []string) error
	DeleteHabit(ctx context.Context, habitID, userID string) error
}

// Publisher announces row changes to the realtime change feed. A nil
// publisher means no realtime and is tolerated everywhere.
type Publisher interface {
	Publish(ctx context.Context, userID, op string) error
}

var (
	ErrNoRemote             = errors.New("remote store not configured")
	ErrNotAuthenticated     = errors.New("no authenticated user")
	ErrConfirmationRequired = errors.New("delete requires explicit confirmation")
	ErrHabitNotFound        = errors.New("habit not found")
)

type StoreState int

const (
	StateUninitialized StoreState = iota
	StateLoading
	StateReady
	StateError
)

func (s StoreState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "uninitialized"
	}
}

// Shown when a habit is completed for the current day.
var motivationalMessages = []string{
	"Consistency is key! Keep it up. ✨",
	"One step at a time. You're doing great! 🌱",
	"Another day, another victory! 🏆",
	"Your future self will thank you. 💖",
	"Small habits lead to big changes. 🚀",
	"You're on a roll! Keep that fire burning. 🔥",
	"Excellence is not an act, but a habit. 💫",
	"Bloom where you are planted. 🌸",
}

const celebrationWindow = 3 * time.Second

// HabitStore owns the canonical in-memory habit list for one signed-in user
// and keeps it consistent with the remote store. Mutations are optimistic:
// toggles apply locally before the remote write and reconcile by refetch on
// failure; deletes roll back to an exact snapshot. Every refresh replaces the
// list wholesale so readers never observe a merge of two remote snapshots.
type HabitStore struct {
	mu     sync.RWMutex
	userID string
	remote RemoteHabits
	feed   Publisher
	clock  utils.Clock
	rng    *rand.Rand

	habits        []model.Habit
	state         StoreState
	loadErr       error
	schemaMissing bool
	detailID      string

	celebration      string
	celebrationTimer *time.Timer

	// inflight tracks asynchronous remote writes so tests (and shutdown)
	// can wait for them to settle.
	inflight sync.WaitGroup

	// writeHead chains remote completion writes per habit: each write waits
	// for its predecessor, so a later toggle's write never overtakes an
	// earlier one.
	writeHead map[string]chan struct{}
}

func NewHabitStore(userID string, remote RemoteHabits, feed Publisher, clock utils.Clock) *HabitStore {
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &HabitStore{
		userID:    userID,
		remote:    remote,
		feed:      feed,
		clock:     clock,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		state:     StateUninitialized,
		writeHead: make(map[string]chan struct{}),
	}
}

// Clock exposes the store's time source so callers resolve "today" the same
// way the store does.
func (s *HabitStore) Clock() utils.Clock {
	return s.clock
}

func (s *HabitStore) guard() error {
	if s.remote == nil {
		return ErrNoRemote
	}
	if s.userID == "" {
		return ErrNotAuthenticated
	}
	return nil
}

// Refresh fetches the full list for the user and replaces the in-memory copy
// wholesale. On failure the previous list is preserved; only the error state
// changes. An open detail view is re-resolved by id and cleared if its habit
// no longer exists.
func (s *HabitStore) Refresh(ctx context.Context) error {
	if err := s.guard(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.state == StateUninitialized {
		s.state = StateLoading
	}
	s.mu.Unlock()

	habits, err := s.remote.FetchHabits(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.loadErr = err
		s.schemaMissing = repository.IsSchemaMissing(err)
		s.state = StateError
		utils.TrackError("habit_store", "refresh_failed")
		return err
	}

	s.habits = habits
	s.loadErr = nil
	s.schemaMissing = false
	s.state = StateReady
	if s.detailID != "" && s.findLocked(s.detailID) < 0 {
		s.detailID = ""
	}
	utils.TrackHabitOperation("refresh")
	return nil
}

// Create issues the remote insert only; the in-memory list is not touched.
// The new row arrives through the next change-feed refresh, the sole source
// of inserted entries.
func (s *HabitStore) Create(ctx context.Context, name, goal, color string) error {
	if err := s.guard(); err != nil {
		return err
	}

	habit := &model.Habit{
		HabitID:        newHabitID(),
		UserID:         s.userID,
		Name:           name,
		Goal:           goal,
		Color:          color,
		CompletedDates: []string{},
		CreatedAt:      s.clock.Now(),
	}
	if err := s.remote.InsertHabit(ctx, habit); err != nil {
		return err
	}
	utils.TrackHabitOperation("create")
	s.publish(ctx, "insert")
	return nil
}

// UpdateDetails changes name, goal and color remotely; the completion set is
// untouched and the in-memory copy waits for the feed-driven refresh.
func (s *HabitStore) UpdateDetails(ctx context.Context, habitID, name, goal, color string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if err := s.remote.UpdateDetails(ctx, habitID, s.userID, name, goal, color); err != nil {
		return err
	}
	utils.TrackHabitOperation("update")
	s.publish(ctx, "update")
	return nil
}

// ToggleResult reports the optimistic outcome of a toggle.
type ToggleResult struct {
	Completed bool     `json:"completed"`
	Dates     []string `json:"completed_dates"`
	Message   string   `json:"message,omitempty"`
}

// ToggleDate flips membership of one date in a habit's completion set. The
// in-memory copy changes synchronously, before any network I/O, so the caller
// sees zero-latency feedback. The remote write runs asynchronously and a
// failure triggers a corrective full refresh rather than a manual rollback.
func (s *HabitStore) ToggleDate(ctx context.Context, habitID, date string) (*ToggleResult, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	idx := s.findLocked(habitID)
	if idx < 0 {
		s.mu.Unlock()
		return nil, ErrHabitNotFound
	}

	habit := s.habits[idx]
	wasDone := false
	newDates := make([]string, 0, len(habit.CompletedDates)+1)
	for _, d := range habit.CompletedDates {
		if d == date {
			wasDone = true
			continue
		}
		newDates = append(newDates, d)
	}
	if !wasDone {
		newDates = append(newDates, date)
	}

	// Optimistic apply: visible immediately, confirmed (or corrected) later.
	s.habits[idx].CompletedDates = newDates

	result := &ToggleResult{
		Completed: !wasDone,
		Dates:     append([]string(nil), newDates...),
	}
	if !wasDone && date == utils.TodayString(s.clock) {
		result.Message = s.celebrateLocked()
		utils.TrackHabitCompletion()
	}

	// Chain this write behind the previous one for the habit while still
	// holding the lock, so remote writes land in application order.
	prev := s.writeHead[habitID]
	done := make(chan struct{})
	s.writeHead[habitID] = done
	s.mu.Unlock()

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer close(done)
		if prev != nil {
			<-prev
		}
		if err := s.remote.UpdateCompletedDates(context.Background(), habitID, s.userID, newDates); err != nil {
			log.Printf("completion update failed for habit %s, refreshing: %v", habitID, err)
			if refreshErr := s.Refresh(context.Background()); refreshErr != nil {
				log.Printf("corrective refresh failed: %v", refreshErr)
			}
			return
		}
		s.publish(context.Background(), "update")
	}()

	utils.TrackHabitOperation("toggle")
	return result, nil
}

// Delete removes a habit after explicit confirmation. Unlike toggle it has a
// well-defined single prior state, so a failure restores the exact pre-delete
// snapshot instead of refetching.
func (s *HabitStore) Delete(ctx context.Context, habitID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if err := s.guard(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.findLocked(habitID) < 0 {
		s.mu.Unlock()
		return ErrHabitNotFound
	}

	snapshot := model.CloneHabits(s.habits)
	snapshotDetail := s.detailID

	kept := make([]model.Habit, 0, len(s.habits)-1)
	for _, h := range s.habits {
		if h.HabitID != habitID {
			kept = append(kept, h)
		}
	}
	s.habits = kept
	if s.detailID == habitID {
		s.detailID = ""
	}
	s.mu.Unlock()

	if err := s.remote.DeleteHabit(ctx, habitID, s.userID); err != nil {
		s.mu.Lock()
		s.habits = snapshot
		s.detailID = snapshotDetail
		s.mu.Unlock()
		utils.TrackError("habit_store", "delete_rollback")
		return err
	}

	utils.TrackHabitOperation("delete")
	s.publish(ctx, "delete")
	return nil
}

// HandleChange is the realtime invalidation hook: any push scoped to this
// user triggers an unconditional full refresh. The payload is never patched
// in incrementally.
func (s *HabitStore) HandleChange(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		log.Printf("realtime refresh failed: %v", err)
	}
}

// Snapshot returns a deep copy of the current list. Callers never share
// slices with the store, so concurrent mutations cannot tear a read.
func (s *HabitStore) Snapshot() []model.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.CloneHabits(s.habits)
}

func (s *HabitStore) State() StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// LoadError returns the last fetch error and whether it indicated a missing
// habits table, which should route the UI to setup instead of an error banner.
func (s *HabitStore) LoadError() (error, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr, s.schemaMissing
}

// OpenDetail pins a habit id for the detail view; Refresh clears it if the
// habit disappears remotely.
func (s *HabitStore) OpenDetail(habitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findLocked(habitID) < 0 {
		return ErrHabitNotFound
	}
	s.detailID = habitID
	return nil
}

func (s *HabitStore) CloseDetail() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detailID = ""
}

// Detail resolves the open detail view against the current list.
func (s *HabitStore) Detail() (model.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.detailID == "" {
		return model.Habit{}, false
	}
	idx := s.findLocked(s.detailID)
	if idx < 0 {
		return model.Habit{}, false
	}
	return s.habits[idx].Clone(), true
}

// Celebration returns the active congratulation message, if its 3 second
// window has not elapsed.
func (s *HabitStore) Celebration() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.celebration
}

// Wait blocks until all in-flight remote writes have settled.
func (s *HabitStore) Wait() {
	s.inflight.Wait()
}

// Reset clears all local state; used on sign-out only. A transient fetch
// error never erases local data, but sign-out always does.
func (s *HabitStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.habits = nil
	s.state = StateUninitialized
	s.loadErr = nil
	s.schemaMissing = false
	s.detailID = ""
	s.writeHead = make(map[string]chan struct{})
	s.celebration = ""
	if s.celebrationTimer != nil {
		s.celebrationTimer.Stop()
		s.celebrationTimer = nil
	}
}

func (s *HabitStore) findLocked(habitID string) int {
	for i, h := range s.habits {
		if h.HabitID == habitID {
			return i
		}
	}
	return -1
}

// celebrateLocked picks a random message and arms the one-shot dismissal.
// Only fires on the today+newly-completed transition; the caller checks that.
func (s *HabitStore) celebrateLocked() string {
	msg := motivationalMessages[s.rng.Intn(len(motivationalMessages))]
	s.celebration = msg
	if s.celebrationTimer != nil {
		s.celebrationTimer.Stop()
	}
	s.celebrationTimer = time.AfterFunc(celebrationWindow, func() {
		s.mu.Lock()
		if s.celebration == msg {
			s.celebration = ""
		}
		s.mu.Unlock()
	})
	return msg
}

func (s *HabitStore) publish(ctx context.Context, op string) {
	if s.feed == nil {
		return
	}
	if err := s.feed.Publish(ctx, s.userID, op); err != nil {
		log.Printf("change feed publish failed: %v", err)
	}
}
