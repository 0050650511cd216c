package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// The single account allowed to view the registered-users panel.
const adminEmail = "ragulzoro1@gmail.com"

// GetAllProfilesHandler lists every registered user's public profile. Only
// the admin account may call it; everyone else gets a 403.
func GetAllProfilesHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("user_id")

	user, err := userRepo.FindUser(userID)
	if err != nil {
		utils.InternalError(c, "Failed to look up user")
		return
	}
	if user == nil || user.Email != adminEmail {
		utils.Forbidden(c, "Admin access required")
		return
	}

	profiles, err := userRepo.GetAllProfiles(c.Request.Context())
	if err != nil {
		utils.InternalError(c, "Failed to fetch profiles")
		return
	}

	utils.Success(c, gin.H{
		"profiles":    profiles,
		"total_count": len(profiles),
	})
}
