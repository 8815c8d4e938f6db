package models

import (
	"testing"
	"time"
)

func TestParseDayState(t *testing.T) {
	for _, valid := range []string{"none", "completed", "failed"} {
		st, ok := ParseDayState(valid)
		if !ok {
			t.Errorf("ParseDayState(%q) not ok", valid)
		}
		if string(st) != valid {
			t.Errorf("ParseDayState(%q) = %q", valid, st)
		}
	}

	for _, invalid := range []string{"", "done", "COMPLETED", "skip"} {
		if _, ok := ParseDayState(invalid); ok {
			t.Errorf("ParseDayState(%q) unexpectedly ok", invalid)
		}
	}
}

func TestValidDate(t *testing.T) {
	cases := map[string]bool{
		"2024-06-15": true,
		"2024-01-01": true,
		"2024-13-01": false,
		"2024-06-1":  false,
		"06-15-2024": false,
		"2024-06-15T00:00:00Z": false,
		"":          false,
		"not-a-day": false,
	}
	for input, want := range cases {
		if got := ValidDate(input); got != want {
			t.Errorf("ValidDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewID(t *testing.T) {
	at := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	if got := NewID(at); got != "1718447400000" {
		t.Errorf("NewID = %q", got)
	}
}

func TestStateOn(t *testing.T) {
	h := Habit{
		CompletedDates: []string{"2024-06-01", "2024-06-03"},
		FailedDates:    []string{"2024-06-02"},
	}

	if got := StateOn(h, "2024-06-01"); got != StateCompleted {
		t.Errorf("StateOn completed date = %q", got)
	}
	if got := StateOn(h, "2024-06-02"); got != StateFailed {
		t.Errorf("StateOn failed date = %q", got)
	}
	if got := StateOn(h, "2024-06-04"); got != StateNone {
		t.Errorf("StateOn untracked date = %q", got)
	}
}

func TestCalculateStreak(t *testing.T) {
	today := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		completed []string
		want      int
	}{
		{"empty", nil, 0},
		{"today only", []string{"2024-06-15"}, 1},
		{"three consecutive", []string{"2024-06-13", "2024-06-14", "2024-06-15"}, 3},
		{"gap resets", []string{"2024-06-12", "2024-06-14", "2024-06-15"}, 2},
		{"not completed today", []string{"2024-06-13", "2024-06-14"}, 0},
		{"old dates only", []string{"2024-05-31", "2024-06-01"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.completed, today); got != tt.want {
				t.Errorf("CalculateStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreakAcrossMonthBoundary(t *testing.T) {
	today := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	completed := []string{"2024-05-30", "2024-05-31", "2024-06-01"}
	if got := CalculateStreak(completed, today); got != 3 {
		t.Errorf("CalculateStreak = %d, want 3", got)
	}
}
