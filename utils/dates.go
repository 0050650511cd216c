package utils

import (
	"fmt"
	"time"
)

// Clock abstracts "now" so streak and calendar math can be pinned in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// DateString renders a time as the canonical YYYY-MM-DD key in its own
// location. Components are taken individually rather than truncating to UTC,
// which would shift the day boundary in non-UTC zones.
func DateString(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

func TodayString(clock Clock) string {
	return DateString(clock.Now())
}

func YesterdayString(clock Clock) string {
	return DateString(clock.Now().AddDate(0, 0, -1))
}

// DaysInMonth counts the days in a month. month is 0-based (January = 0).
// Day zero of the following month normalizes to the last day we want.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month+2), 0, 0, 0, 0, 0, time.Local).Day()
}

// GridDate formats a single cell of the monthly grid. month is 0-based.
func GridDate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month+1, day)
}

// CalendarGrid returns the cells of a 7-column month view: empty strings for
// the leading padding slots (one per weekday before the 1st, Sunday = 0),
// then one date string per day of the month.
func CalendarGrid(year, month int) []string {
	firstWeekday := int(time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.Local).Weekday())
	days := DaysInMonth(year, month)

	grid := make([]string, 0, firstWeekday+days)
	for i := 0; i < firstWeekday; i++ {
		grid = append(grid, "")
	}
	for day := 1; day <= days; day++ {
		grid = append(grid, GridDate(year, month, day))
	}
	return grid
}

// CurrentWeek returns exactly seven date strings, the most recent Sunday
// through the following Saturday.
func CurrentWeek(clock Clock) []string {
	now := clock.Now()
	start := now.AddDate(0, 0, -int(now.Weekday()))

	week := make([]string, 7)
	for i := range week {
		week[i] = DateString(start.AddDate(0, 0, i))
	}
	return week
}
