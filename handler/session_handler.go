package handler

import (
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetActiveSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if sessionRepo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; sessions are disabled")
		return
	}

	sessions, err := sessionRepo.GetUserActiveSessions(userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
	})
}

// LogoutAllSessions ends every device session and drops the user's habit
// store so the next sign-in starts from a clean fetch.
func LogoutAllSessions(c *gin.Context, sessionRepo *repository.SessionRepo, stores *services.StoreManager) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if sessionRepo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; sessions are disabled")
		return
	}

	if err := sessionRepo.EndAllUserSessions(userID); err != nil {
		utils.InternalError(c, "Failed to end all sessions")
		return
	}

	stores.Drop(userID)

	utils.Success(c, gin.H{
		"message": "Successfully logged out of all sessions",
	})
}
