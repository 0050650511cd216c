package usecase

import (
	"math"
	"strconv"
	"strings"
	"time"

	"main/model"
	"main/utils"
)

// Chart viewbox shared with the dashboard front end.
const (
	chartWidth   = 1000.0
	chartHeight  = 150.0
	chartPadding = 20.0
)

// MonthlyConsistency is the percentage of possible completions achieved in a
// month, rounded to the nearest integer. month is 0-based. Matching is on the
// YYYY-MM prefix so it holds for any day count.
func MonthlyConsistency(habits []model.Habit, year, month int) int {
	days := utils.DaysInMonth(year, month)
	totalPossible := len(habits) * days
	if totalPossible == 0 {
		return 0
	}

	prefix := monthPrefix(year, month)
	completed := 0
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if strings.HasPrefix(d, prefix) {
				completed++
			}
		}
	}
	return int(math.Round(float64(completed) / float64(totalPossible) * 100))
}

// HeatmapForMonth produces one cell per calendar day, in day order.
func HeatmapForMonth(habits []model.Habit, year, month int) []model.HeatmapDay {
	days := utils.DaysInMonth(year, month)
	out := make([]model.HeatmapDay, 0, days)
	for day := 1; day <= days; day++ {
		dateStr := utils.GridDate(year, month, day)
		completedCount := 0
		for _, h := range habits {
			if containsDate(h.CompletedDates, dateStr) {
				completedCount++
			}
		}
		intensity := 0.0
		if len(habits) > 0 {
			intensity = float64(completedCount) / float64(len(habits))
		}
		out = append(out, model.HeatmapDay{
			Day:            day,
			DateString:     dateStr,
			Intensity:      intensity,
			CompletedCount: completedCount,
		})
	}
	return out
}

// IntensityTier maps an intensity to one of five color bands:
// 0 empty, 1 for >0, 2 for >0.4, 3 for >0.7, 4 for a perfect day.
func IntensityTier(intensity float64) int {
	tier := 0
	if intensity > 0 {
		tier = 1
	}
	if intensity > 0.4 {
		tier = 2
	}
	if intensity > 0.7 {
		tier = 3
	}
	if intensity == 1 {
		tier = 4
	}
	return tier
}

// ChartPath builds the smoothed SVG line for the month's intensity curve.
// Only active days are drawn; a zero-intensity day breaks the run and the
// line restarts with a fresh M command rather than dropping to the baseline.
// Consecutive points are joined with a cubic segment whose control x sits at
// the midpoint between the two x coordinates.
func ChartPath(days []model.HeatmapDay) string {
	if len(days) < 2 {
		return ""
	}

	step := (chartWidth - chartPadding*2) / float64(len(days)-1)
	var b strings.Builder
	drawing := false
	for i, d := range days {
		if d.Intensity <= 0 {
			drawing = false
			continue
		}
		x := chartPadding + float64(i)*step
		y := chartHeight - chartPadding - d.Intensity*(chartHeight-chartPadding*2)
		if !drawing {
			b.WriteString("M " + ftoa(x) + " " + ftoa(y))
			drawing = true
			continue
		}
		prevX := chartPadding + float64(i-1)*step
		prevY := chartHeight - chartPadding - days[i-1].Intensity*(chartHeight-chartPadding*2)
		cpX := (prevX + x) / 2
		b.WriteString(" C " + ftoa(cpX) + " " + ftoa(prevY) + ", " + ftoa(cpX) + " " + ftoa(y) + ", " + ftoa(x) + " " + ftoa(y))
	}
	return b.String()
}

// AreaPath is the filled variant of ChartPath: the same curve closed down to
// the baseline between the first and last active days of the month.
func AreaPath(days []model.HeatmapDay) string {
	line := ChartPath(days)
	if line == "" {
		return ""
	}

	step := (chartWidth - chartPadding*2) / float64(len(days)-1)
	firstX, lastX := -1.0, -1.0
	for i, d := range days {
		if d.Intensity > 0 {
			x := chartPadding + float64(i)*step
			if firstX < 0 {
				firstX = x
			}
			lastX = x
		}
	}
	if firstX < 0 {
		return ""
	}

	baseline := ftoa(chartHeight - chartPadding)
	return line + " L " + ftoa(lastX) + " " + baseline + " L " + ftoa(firstX) + " " + baseline + " Z"
}

// AverageDailyRate is the mean of each day's completion percentage across the
// month, rounded. Zero when there are no habits.
func AverageDailyRate(habits []model.Habit, year, month int) int {
	if len(habits) == 0 {
		return 0
	}
	days := HeatmapForMonth(habits, year, month)
	sum := 0.0
	for _, d := range days {
		sum += d.Intensity * 100
	}
	return int(math.Round(sum / float64(len(days))))
}

// MonthlyAnalyticsFor assembles the full dashboard payload for one month.
func MonthlyAnalyticsFor(habits []model.Habit, year, month int) model.MonthlyAnalytics {
	heatmap := HeatmapForMonth(habits, year, month)
	return model.MonthlyAnalytics{
		Year:        year,
		Month:       month,
		Consistency: MonthlyConsistency(habits, year, month),
		AverageRate: AverageDailyRate(habits, year, month),
		Heatmap:     heatmap,
		ChartPath:   ChartPath(heatmap),
		AreaPath:    AreaPath(heatmap),
	}
}

// WeekProgress reports a habit's completions for the current Sunday-anchored
// week, for the weekly strip above the monthly grid.
func WeekProgress(clock utils.Clock, habit model.Habit) []model.DayProgress {
	today := utils.TodayString(clock)
	week := utils.CurrentWeek(clock)
	out := make([]model.DayProgress, 0, len(week))
	for _, date := range week {
		t, _ := time.Parse("2006-01-02", date)
		out = append(out, model.DayProgress{
			Date:        date,
			DayName:     t.Format("Mon"),
			IsToday:     date == today,
			IsCompleted: containsDate(habit.CompletedDates, date),
		})
	}
	return out
}

func containsDate(dates []string, date string) bool {
	for _, d := range dates {
		if d == date {
			return true
		}
	}
	return false
}

func monthPrefix(year, month int) string {
	m := strconv.Itoa(month + 1)
	if len(m) < 2 {
		m = "0" + m
	}
	return strconv.Itoa(year) + "-" + m
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
