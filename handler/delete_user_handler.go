package handler

import (
	"log"

	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// DeleteUserHandler removes the account along with its habits and sessions.
// Like habit deletion it demands confirm=true.
func DeleteUserHandler(c *gin.Context, userRepo *repository.UserRepo, habitsRepo *repository.HabitsRepo, sessionRepo *repository.SessionRepo, stores *services.StoreManager) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	if userRepo == nil || habitsRepo == nil || sessionRepo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
		return
	}

	if c.Query("confirm") != "true" {
		utils.Conflict(c, "Deleting an account requires confirm=true")
		return
	}

	ctx := c.Request.Context()

	if _, err := habitsRepo.DeleteAllUserHabits(ctx, userID); err != nil {
		log.Printf("Error deleting habits for user %s: %v", userID, err)
	}
	if err := sessionRepo.EndAllUserSessions(userID); err != nil {
		log.Printf("Error ending user sessions: %v", err)
	}

	deletedCount, err := userRepo.DeleteUserByID(userID)
	if err != nil {
		log.Printf("Failed to delete user %s: %v", userID, err)
		utils.InternalError(c, "Failed to delete user")
		return
	}
	if deletedCount == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	stores.Drop(userID)

	log.Printf("User deleted successfully: %s", userID)
	utils.Success(c, gin.H{"message": "User deleted successfully"})
}
