package usecase

import (
	"math"
	"sort"
	"time"

	"main/model"
	"main/utils"
)

// CalculateStreak derives streak statistics from a habit's completion dates.
// It is a total function: any input, including an empty or unsorted list with
// duplicates, yields a defined result.
//
// The current streak uses a one-day grace period: a run that ends yesterday
// still counts until today's chance to act has passed. A gap of two or more
// days breaks it to zero.
func CalculateStreak(clock utils.Clock, completedDates []string) model.StreakData {
	if len(completedDates) == 0 {
		return model.StreakData{}
	}

	completed := make(map[string]bool, len(completedDates))
	for _, d := range completedDates {
		completed[d] = true
	}

	today := utils.TodayString(clock)
	yesterday := utils.YesterdayString(clock)
	isCompletedToday := completed[today]

	currentStreak := 0
	if isCompletedToday || completed[yesterday] {
		cursor := clock.Now()
		if !isCompletedToday {
			cursor = cursor.AddDate(0, 0, -1)
		}
		for completed[utils.DateString(cursor)] {
			currentStreak++
			cursor = cursor.AddDate(0, 0, -1)
		}
	}

	uniqueSorted := make([]string, 0, len(completed))
	for d := range completed {
		uniqueSorted = append(uniqueSorted, d)
	}
	sort.Strings(uniqueSorted) // lexicographic == chronological for YYYY-MM-DD

	longestStreak := 1
	runningStreak := 1
	for i := 1; i < len(uniqueSorted); i++ {
		if dayGap(uniqueSorted[i-1], uniqueSorted[i]) == 1 {
			runningStreak++
		} else {
			runningStreak = 1
		}
		if runningStreak > longestStreak {
			longestStreak = runningStreak
		}
	}

	return model.StreakData{
		CurrentStreak:    currentStreak,
		LongestStreak:    longestStreak,
		IsCompletedToday: isCompletedToday,
	}
}

// CalculateMasterStreak runs the streak algorithm over the union of every
// habit's completions: one completion anywhere keeps the master streak alive.
func CalculateMasterStreak(clock utils.Clock, habits []model.Habit) model.StreakData {
	seen := make(map[string]bool)
	var all []string
	for _, h := range habits {
		for _, d := range h.CompletedDates {
			if !seen[d] {
				seen[d] = true
				all = append(all, d)
			}
		}
	}
	return CalculateStreak(clock, all)
}

// dayGap measures whole calendar days between two date strings, rounding the
// raw duration up so sub-day drift still counts as one day. Dates parse as
// UTC midnights; unparseable dates report an impossible gap and simply reset
// the running streak.
func dayGap(prev, curr string) int {
	p, err := time.Parse("2006-01-02", prev)
	if err != nil {
		return -1
	}
	c, err := time.Parse("2006-01-02", curr)
	if err != nil {
		return -1
	}
	diff := math.Abs(c.Sub(p).Hours())
	return int(math.Ceil(diff / 24))
}
