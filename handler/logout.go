package handler

import (
	"log"
	"strings"

	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// LogoutHandler revokes the caller's tokens, ends their session record and
// tears down their in-memory habit store.
func LogoutHandler(c *gin.Context, sessionRepo *repository.SessionRepo, stores *services.StoreManager) {
	userID := c.GetString("user_id")

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		utils.Unauthorized(c, "Missing or invalid access token")
		return
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")
	refreshToken := c.GetHeader("Refresh-Token")

	if err := services.BlacklistTokens(accessToken, refreshToken); err != nil {
		// Without Redis the tokens simply expire on their own.
		log.Printf("token blacklist unavailable: %v", err)
	}

	if sessionID := c.GetHeader("Session-Id"); sessionID != "" && sessionRepo != nil {
		if err := sessionRepo.EndSession(sessionID); err != nil {
			utils.TrackError("sessions", "end_failed")
		}
	}

	stores.Drop(userID)

	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
