package handler

import (
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionLifetime = 24 * time.Hour

// LoginHandler checks credentials, records a session for the device and
// returns a token pair.
func LoginHandler(c *gin.Context, userService *usecase.UserService, sessionRepo *repository.SessionRepo) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	user, err := userService.Authenticate(req.Email, req.Password)
	if err != nil {
		utils.TrackAuthAttempt("failure", "login")
		utils.Unauthorized(c, "Invalid email or password")
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

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         user.UserID,
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(sessionLifetime),
		LastActivityAt: time.Now(),
		DeviceInfo:     utils.SessionDeviceInfo(c.Request.UserAgent()),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}
	if err := sessionRepo.CreateSession(session); err != nil {
		// A failed session record should not block sign-in.
		utils.TrackError("sessions", "create_failed")
	}

	utils.TrackAuthAttempt("success", "login")
	utils.Success(c, gin.H{
		"message":    "Login successful",
		"user":       dto.ToUserProfileResponse(user, nil),
		"token":      token,
		"refresh":    refreshToken,
		"session_id": session.SessionID,
	})
}
