package usecase

import (
	"context"
	"errors"
	"strings"

	"main/model"
	"main/services"
	"main/utils"
)

// HabitsService validates and normalizes habit input before it reaches a
// user's store. All reads and writes go through the per-user HabitStore so
// the optimistic-update semantics apply uniformly.
type HabitsService struct {
	Stores *services.StoreManager
}

func (svc *HabitsService) validateHabit(habit *model.Habit) error {
	habit.Name = strings.TrimSpace(habit.Name)
	if habit.Name == "" {
		return errors.New("habit name is required")
	}
	if len(habit.Name) > 100 {
		return errors.New("habit name exceeds maximum length")
	}

	habit.Goal = strings.TrimSpace(habit.Goal)
	if len(habit.Goal) > 500 {
		return errors.New("habit goal exceeds maximum length")
	}

	if habit.Color == "" {
		habit.Color = model.PastelColors[0]
	}
	if !model.ValidColor(habit.Color) {
		return errors.New("habit color must be one of the palette colors")
	}
	return nil
}

func (svc *HabitsService) CreateHabit(ctx context.Context, userID string, habit *model.Habit) error {
	if err := svc.validateHabit(habit); err != nil {
		return err
	}
	return svc.Stores.Store(userID).Create(ctx, habit.Name, habit.Goal, habit.Color)
}

func (svc *HabitsService) UpdateHabit(ctx context.Context, userID, habitID string, habit *model.Habit) error {
	if err := svc.validateHabit(habit); err != nil {
		return err
	}
	return svc.Stores.Store(userID).UpdateDetails(ctx, habitID, habit.Name, habit.Goal, habit.Color)
}

// ToggleCompletion flips one calendar day on a habit. The date defaults to
// today when empty and must be a YYYY-MM-DD string otherwise.
func (svc *HabitsService) ToggleCompletion(ctx context.Context, userID, habitID, date string) (*services.ToggleResult, error) {
	store := svc.Stores.Store(userID)
	if date == "" {
		date = utils.TodayString(store.Clock())
	}
	if !utils.ValidDateString(date) {
		return nil, errors.New("date must be in YYYY-MM-DD format")
	}
	return store.ToggleDate(ctx, habitID, date)
}

func (svc *HabitsService) DeleteHabit(ctx context.Context, userID, habitID string, confirmed bool) error {
	return svc.Stores.Store(userID).Delete(ctx, habitID, confirmed)
}
