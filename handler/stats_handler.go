package handler

import (
	"log"

	"main/model"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	userRepo    *repository.UserRepo
	sessionRepo *repository.SessionRepo
	habits      *usecase.HabitsService
}

func NewStatsHandler(
	userRepo *repository.UserRepo,
	sessionRepo *repository.SessionRepo,
	habits *usecase.HabitsService,
) *StatsHandler {
	return &StatsHandler{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		habits:      habits,
	}
}

// GetUserStats summarizes the account: habit counts, the master streak over
// all habits, and session activity.
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	if h.userRepo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
		return
	}

	user, err := h.userRepo.FindUser(userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	store := h.habits.Stores.Store(userID)
	habits := store.Snapshot()
	today := utils.TodayString(store.Clock())

	var stats model.UserStats
	stats.HabitStats.Total = len(habits)
	for _, habit := range habits {
		stats.HabitStats.TotalCompletions += len(habit.CompletedDates)
		for _, date := range habit.CompletedDates {
			if date == today {
				stats.HabitStats.CompletedToday++
				break
			}
		}
	}

	master := usecase.CalculateMasterStreak(store.Clock(), habits)
	stats.HabitStats.CurrentStreak = master.CurrentStreak
	stats.HabitStats.LongestStreak = master.LongestStreak

	stats.ActivityStats.AccountCreated = user.CreatedAt
	if h.sessionRepo != nil {
		sessions, err := h.sessionRepo.GetUserActiveSessions(userID)
		if err != nil {
			log.Printf("Error getting sessions: %v", err)
			utils.InternalError(c, "Failed to get sessions")
			return
		}
		stats.ActivityStats.TotalSessions = len(sessions)
		for _, session := range sessions {
			if session.LastActivityAt.After(stats.ActivityStats.LastActive) {
				stats.ActivityStats.LastActive = session.LastActivityAt
			}
		}
	}

	utils.Success(c, gin.H{
		"stats": stats,
	})
}
