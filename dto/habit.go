package dto

import (
	"time"

	"main/model"
)

type HabitLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"` // Optional: GET, POST, PUT, PATCH, DELETE
}

type CreateHabitRequest struct {
	Name  string `json:"name" binding:"required"`
	Goal  string `json:"goal"`
	Color string `json:"color" binding:"habitcolor"`
}

type UpdateHabitRequest struct {
	Name  string `json:"name" binding:"required"`
	Goal  string `json:"goal"`
	Color string `json:"color" binding:"habitcolor"`
}

type ToggleHabitRequest struct {
	Date string `json:"date"` // YYYY-MM-DD; empty means today
}

type HabitResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Goal           string               `json:"goal,omitempty"`
	Color          string               `json:"color"`
	CompletedDates []string             `json:"completed_dates"`
	CreatedAt      time.Time            `json:"created_at"`
	Links          map[string]HabitLink `json:"_links,omitempty"`
}

// HabitListResponse carries the list plus the sync state of the user's store
// so clients can distinguish a stale-but-usable list from a healthy one.
type HabitListResponse struct {
	Habits        []HabitResponse      `json:"habits"`
	TotalCount    int                  `json:"total_count"`
	SyncState     string               `json:"sync_state"`
	SyncError     string               `json:"sync_error,omitempty"`
	SchemaMissing bool                 `json:"schema_missing,omitempty"`
	Links         map[string]HabitLink `json:"_links,omitempty"`
}

func ToHabitResponse(habit *model.Habit, links map[string]HabitLink) HabitResponse {
	return HabitResponse{
		ID:             habit.HabitID,
		Name:           habit.Name,
		Goal:           habit.Goal,
		Color:          habit.Color,
		CompletedDates: habit.CompletedDates,
		CreatedAt:      habit.CreatedAt,
		Links:          links,
	}
}

func ToHabitResponses(habits []model.Habit, getHabitLinks func(habit *model.Habit) map[string]HabitLink) []HabitResponse {
	responses := make([]HabitResponse, len(habits))
	for i := range habits {
		responses[i] = ToHabitResponse(&habits[i], getHabitLinks(&habits[i]))
	}
	return responses
}
