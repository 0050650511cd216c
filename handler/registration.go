package handler

import (
	"errors"

	"main/dto"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler creates a new account and signs the user in with a
// fresh token pair.
func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := userService.CreateUser(c.Request.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "registration")
		if errors.Is(err, usecase.ErrEmailTaken) {
			utils.Conflict(c, "Email already registered")
			return
		}
		utils.BadRequest(c, err.Error())
		return
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	utils.TrackAuthAttempt("success", "registration")
	utils.Created(c, gin.H{
		"user":    dto.ToUserProfileResponse(user, nil),
		"token":   token,
		"refresh": refreshToken,
	})
}
