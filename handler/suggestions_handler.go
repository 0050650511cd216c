package handler

import (
	"log"

	"main/services"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetGrowthPlanHandler asks the generative service for coaching advice based
// on the user's current habits. When the service is unconfigured or fails the
// response carries no plan rather than an error.
func GetGrowthPlanHandler(c *gin.Context, habitsService *usecase.HabitsService, growth *services.GrowthService) {
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	habits := store.Snapshot()
	if len(habits) == 0 {
		utils.BadRequest(c, "Add at least one habit before requesting a growth plan")
		return
	}

	if !growth.Enabled() {
		utils.Success(c, gin.H{"plan": nil})
		return
	}

	plan, err := growth.GeneratePlan(c.Request.Context(), habits)
	if err != nil {
		log.Printf("growth plan generation failed for user %s: %v", userID, err)
		utils.TrackError("suggestions", "generation_failed")
		utils.Success(c, gin.H{"plan": nil})
		return
	}

	utils.Success(c, gin.H{"plan": plan})
}
