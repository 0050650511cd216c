package handler

import (
	"net/http"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context, userService *usecase.UserService) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.Unauthorized(c, "Unauthorized")
		return
	}
	if userService.Repo == nil {
		utils.ServiceUnavailable(c, "Running in local-only mode; accounts are disabled")
		return
	}

	user, err := userService.Repo.FindUser(userID)
	if err != nil {
		utils.InternalError(c, "Could not fetch user details")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	baseURL := utils.GetBaseURL(c)
	links := map[string]dto.UserLink{
		"self":   {Href: baseURL + "/user/profile", Method: http.MethodGet},
		"habits": {Href: baseURL + "/habits", Method: http.MethodGet},
		"logout": {Href: baseURL + "/user/logout", Method: http.MethodPost},
	}

	utils.Success(c, dto.ToUserProfileResponse(user, links))
}
