package models

import (
	"strconv"
	"time"

	"github.com/julianstephens/betterhabits/internal/constants"
)

// DayState is the tracked state of a habit on a single calendar date.
// For any habit/date pair the state is exactly one of the three values,
// derived by membership test against the date sets, never stored as a
// separate field.
type DayState string

const (
	StateNone      DayState = "none"
	StateCompleted DayState = "completed"
	StateFailed    DayState = "failed"
)

// ParseDayState validates a state string coming from a collaborator.
func ParseDayState(s string) (DayState, bool) {
	switch DayState(s) {
	case StateNone, StateCompleted, StateFailed:
		return DayState(s), true
	}
	return StateNone, false
}

// Habit represents a user-defined recurring activity tracked per calendar
// date. CompletedDates and FailedDates are sorted ascending, each date
// appears at most once, and the two sets are disjoint. The JSON field names
// are the backup payload wire format and must not change.
type Habit struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Icon           string   `json:"icon,omitempty"`
	CreatedAt      string   `json:"createdAt"` // RFC3339
	CompletedDates []string `json:"completedDates"`
	FailedDates    []string `json:"failedDates"`
	SortOrder      float64  `json:"sortOrder"`
	Streak         int      `json:"streak"`
}

// NewID derives a habit identifier from the creation instant. Identifiers
// only need to be unique within a single user's collection, so millisecond
// resolution is sufficient.
func NewID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	t, err := time.Parse(constants.DateFormat, s)
	return err == nil && t.Format(constants.DateFormat) == s
}

// StateOn derives the habit's state for the given date. Pure function, no
// I/O. Storage keeps a single date-to-state mapping so the two sets cannot
// overlap and the first match wins unambiguously.
func StateOn(h Habit, date string) DayState {
	for _, d := range h.CompletedDates {
		if d == date {
			return StateCompleted
		}
	}
	for _, d := range h.FailedDates {
		if d == date {
			return StateFailed
		}
	}
	return StateNone
}

// CalculateStreak counts consecutive completed days ending at today,
// walking backwards one day at a time. A habit not completed today has a
// streak of zero.
func CalculateStreak(completedDates []string, today time.Time) int {
	if len(completedDates) == 0 {
		return 0
	}

	completed := make(map[string]bool, len(completedDates))
	for _, d := range completedDates {
		completed[d] = true
	}

	streak := 0
	for day := today; completed[day.Format(constants.DateFormat)]; day = day.AddDate(0, 0, -1) {
		streak++
	}

	return streak
}
