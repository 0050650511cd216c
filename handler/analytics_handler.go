package handler

import (
	"strconv"
	"time"

	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetMonthlyAnalyticsHandler aggregates the dashboard view for one calendar
// month: consistency percentage, average daily rate, heatmap and the chart
// paths. The month parameter is zero-based, matching the heatmap grid.
func GetMonthlyAnalyticsHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	now := store.Clock().Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		utils.BadRequest(c, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month())-1)))
	if err != nil {
		utils.BadRequest(c, "month must be an integer")
		return
	}
	if month < 0 || month > 11 {
		utils.BadRequest(c, "month must be between 0 and 11")
		return
	}
	if year < 1970 || year > now.Year()+100 {
		utils.BadRequest(c, "year out of range")
		return
	}

	utils.Success(c, usecase.MonthlyAnalyticsFor(store.Snapshot(), year, month))
}

// GetCalendarGridHandler returns the month's grid cells with leading blanks
// so the first day lands on its weekday column.
func GetCalendarGridHandler(c *gin.Context, habitsService *usecase.HabitsService) {
	userID := c.GetString("user_id")
	store := habitsService.Stores.Store(userID)

	now := store.Clock().Now()
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month())-1)))
	if month < 0 || month > 11 {
		utils.BadRequest(c, "month must be between 0 and 11")
		return
	}

	utils.Success(c, gin.H{
		"year":  year,
		"month": month,
		"grid":  utils.CalendarGrid(year, month),
		"label": time.Month(month + 1).String(),
	})
}
