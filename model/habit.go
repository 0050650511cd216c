package model

import "time"

// Habit is one tracked ritual. Completions are stored as local-calendar
// YYYY-MM-DD strings with no duplicates; membership tests are string-exact.
type Habit struct {
	HabitID        string    `bson:"_id,omitempty" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	Name           string    `bson:"name" json:"name" binding:"required"`
	Goal           string    `bson:"goal" json:"goal"`
	Color          string    `bson:"color" json:"color"`
	CompletedDates []string  `bson:"completed_dates" json:"completed_dates"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}

// PastelColors is the fixed palette; the color column holds one of these
// tokens verbatim.
var PastelColors = []string{
	"bg-pink-100 text-pink-700 border-pink-200",
	"bg-blue-100 text-blue-700 border-blue-200",
	"bg-green-100 text-green-700 border-green-200",
	"bg-purple-100 text-purple-700 border-purple-200",
	"bg-orange-100 text-orange-700 border-orange-200",
	"bg-indigo-100 text-indigo-700 border-indigo-200",
	"bg-rose-100 text-rose-700 border-rose-200",
	"bg-teal-100 text-teal-700 border-teal-200",
}

func ValidColor(color string) bool {
	for _, c := range PastelColors {
		if c == color {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so readers never share the completion slice
// with the store's canonical list.
func (h Habit) Clone() Habit {
	out := h
	if h.CompletedDates != nil {
		out.CompletedDates = make([]string, len(h.CompletedDates))
		copy(out.CompletedDates, h.CompletedDates)
	}
	return out
}

func CloneHabits(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}
