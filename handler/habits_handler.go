package handler

import (
	"errors"

	"main/dto"
	"main/model"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// storeError maps sync-core sentinels onto HTTP responses. Returns true when
// the error was handled.
func storeError(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, services.ErrNoRemote):
		utils.ServiceUnavailable(c, "Running in local-only mode; habit persistence is disabled")
	case errors.Is(err, services.ErrNotAuthenticated):
		utils.Unauthorized(c, "Not signed in")
	case errors.Is(err, services.ErrHabitNotFound):
		utils.NotFound(c, "Habit not found")
	case errors.Is(err, services.ErrConfirmationRequired):
		utils.Conflict(c, "Deleting a habit requires confirm=true")
	default:
		return false
	}
	return true
}

// GetHabitsHandler returns the user's habit list together with the sync state
// of their store. A load failure still returns the last good list.
func GetHabitsHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	// A failed load is retried on the next fetch; the error state is never
	// terminal. The last good list survives a failing retry.
	if state := store.State(); state == services.StateUninitialized || state == services.StateError {
		if err := store.Refresh(c.Request.Context()); err != nil && storeError(c, err) {
			return
		}
	}

	habits := store.Snapshot()
	loadErr, schemaMissing := store.LoadError()

	resp := dto.HabitListResponse{
		Habits: dto.ToHabitResponses(habits, func(*model.Habit) map[string]dto.HabitLink {
			return nil
		}),
		TotalCount:    len(habits),
		SyncState:     store.State().String(),
		SchemaMissing: schemaMissing,
	}
	if loadErr != nil {
		resp.SyncError = loadErr.Error()
	}
	utils.Success(c, resp)
}

func CreateHabitHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	var req dto.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	userID := c.GetString("user_id")
	habit := model.Habit{Name: req.Name, Goal: req.Goal, Color: req.Color}

	if err := habitsService.CreateHabit(c.Request.Context(), userID, &habit); err != nil {
		if storeError(c, err) {
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit created successfully"})
}

func UpdateHabitHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	habit := model.Habit{Name: req.Name, Goal: req.Goal, Color: req.Color}
	if err := habitsService.UpdateHabit(c.Request.Context(), userID, habitID, &habit); err != nil {
		if storeError(c, err) {
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit updated successfully"})
}

// ToggleHabitHandler flips a single day's completion. The response carries the
// optimistic result, including a celebration message when today was newly
// completed.
func ToggleHabitHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")

	var req dto.ToggleHabitRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.BadRequest(c, "Invalid request body")
			return
		}
	}

	result, err := habitsService.ToggleCompletion(c.Request.Context(), userID, habitID, req.Date)
	if err != nil {
		if storeError(c, err) {
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	utils.Success(c, result)
}

// DeleteHabitHandler removes a habit. The confirm=true query parameter is
// mandatory; without it nothing is touched.
func DeleteHabitHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")
	confirmed := c.Query("confirm") == "true"

	if err := habitsService.DeleteHabit(c.Request.Context(), userID, habitID, confirmed); err != nil {
		if storeError(c, err) {
			return
		}
		utils.InternalError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{"message": "Habit deleted successfully"})
}

// GetHabitDetailHandler opens the detail view for one habit and returns the
// habit with its streak data.
func GetHabitDetailHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	if err := store.OpenDetail(habitID); err != nil {
		if storeError(c, err) {
			return
		}
		utils.NotFound(c, "Habit not found")
		return
	}

	habit, ok := store.Detail()
	if !ok {
		utils.NotFound(c, "Habit not found")
		return
	}

	utils.Success(c, gin.H{
		"habit":  dto.ToHabitResponse(&habit, nil),
		"streak": usecase.CalculateStreak(store.Clock(), habit.CompletedDates),
	})
}

func CloseHabitDetailHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	userID := c.GetString("user_id")
	habitsService.Stores.Store(userID).CloseDetail()
	utils.Success(c, gin.H{"message": "Detail view closed"})
}

func GetHabitStreakHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	habits := store.Snapshot()
	for i := range habits {
		if habits[i].HabitID == habitID {
			utils.Success(c, usecase.CalculateStreak(store.Clock(), habits[i].CompletedDates))
			return
		}
	}
	utils.NotFound(c, "Habit not found")
}

// GetMasterStreakHandler computes the streak over the union of every habit's
// completions. A day counts if any habit was completed on it.
func GetMasterStreakHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)
	utils.Success(c, usecase.CalculateMasterStreak(store.Clock(), store.Snapshot()))
}

func GetHabitWeekHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	habitID := c.Param("id")
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	habits := store.Snapshot()
	for i := range habits {
		if habits[i].HabitID == habitID {
			utils.Success(c, usecase.WeekProgress(store.Clock(), habits[i]))
			return
		}
	}
	utils.NotFound(c, "Habit not found")
}
