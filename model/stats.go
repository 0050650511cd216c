package model

import "time"

type UserStats struct {
	HabitStats struct {
		Total            int `json:"total"`
		TotalCompletions int `json:"total_completions"`
		CompletedToday   int `json:"completed_today"`
		CurrentStreak    int `json:"current_streak"`
		LongestStreak    int `json:"longest_streak"`
	} `json:"habit_stats"`
	ActivityStats struct {
		LastActive     time.Time `json:"last_active"`
		AccountCreated time.Time `json:"account_created"`
		TotalSessions  int       `json:"total_sessions"`
	} `json:"activity_stats"`
}
