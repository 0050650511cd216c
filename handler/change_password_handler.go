package handler

import (
	"log"

	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func ChangePasswordHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	if userRepo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format")
		return
	}

	user, err := userRepo.FindUser(userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		utils.InternalError(c, "Failed to fetch user")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	match, err := services.VerifyPassword(user.Password, req.OldPassword)
	if err != nil || !match {
		utils.Unauthorized(c, "Current password is incorrect")
		return
	}

	if req.NewPassword == req.OldPassword {
		utils.BadRequest(c, "New password cannot be the same as current password")
		return
	}

	hashedPassword, err := services.HashPassword(req.NewPassword)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	result, err := userRepo.UpdateUserPassword(userID, hashedPassword)
	if err != nil {
		log.Printf("Failed to update password for user %s: %v", userID, err)
		utils.InternalError(c, "Failed to update password")
		return
	}
	if result == 0 {
		utils.NotFound(c, "User not found")
		return
	}

	log.Printf("Password changed successfully for user %s", userID)
	utils.Success(c, gin.H{"message": "Password updated successfully"})
}
