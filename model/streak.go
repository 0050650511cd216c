package model

// StreakData is derived from a completion-date set on demand and never
// persisted.
type StreakData struct {
	CurrentStreak    int  `json:"current_streak"`
	LongestStreak    int  `json:"longest_streak"`
	IsCompletedToday bool `json:"is_completed_today"`
}

// HeatmapDay is one cell of the monthly density map. Intensity is the
// fraction of habits completed on that day, in [0,1].
type HeatmapDay struct {
	Day            int     `json:"day"`
	DateString     string  `json:"date"`
	Intensity      float64 `json:"intensity"`
	CompletedCount int     `json:"completed_count"`
}

type DayProgress struct {
	Date        string `json:"date"`
	DayName     string `json:"day_name"`
	IsToday     bool   `json:"is_today"`
	IsCompleted bool   `json:"is_completed"`
}

// MonthlyAnalytics bundles everything the dashboard renders for one month.
type MonthlyAnalytics struct {
	Year        int          `json:"year"`
	Month       int          `json:"month"` // 0-based, January = 0
	Consistency int          `json:"consistency"`
	AverageRate int          `json:"average_rate"`
	Heatmap     []HeatmapDay `json:"heatmap"`
	ChartPath   string       `json:"chart_path"`
	AreaPath    string       `json:"area_path"`
}

type SuggestedHabit struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// GrowthPlan is the structured reply from the generative suggestion service.
type GrowthPlan struct {
	Advice          string           `json:"advice"`
	SuggestedHabits []SuggestedHabit `json:"suggestedHabits"`
}
