package storage

import "github.com/julianstephens/betterhabits/internal/models"

// NewHabit carries the caller-supplied fields for habit creation. ID,
// timestamps, date sets and sort order are assigned by the store.
type NewHabit struct {
	Name        string
	Description string
	Icon        string
}

// HabitUpdate is a partial update; nil fields are left unchanged.
type HabitUpdate struct {
	Name        *string
	Description *string
	Icon        *string
	SortOrder   *float64
}

// Provider is the durable store for habits and settings.
//
// Concurrency note: a Provider is not safe for concurrent use by multiple
// goroutines without external synchronization. Racing mutations are
// last-write-wins, which is the accepted consistency model for a
// single-user local app.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Habits
	AddHabit(h NewHabit) (models.Habit, error)
	GetHabit(id string) (models.Habit, error)
	GetAllHabits() ([]models.Habit, error)
	UpdateHabit(id string, update HabitUpdate) (models.Habit, error)
	// DeleteHabit removes the habit and all of its per-date records.
	// Deleting a non-existent id is a no-op, not an error.
	DeleteHabit(id string) error
	// PutHabit upserts a habit verbatim, date sets included. Used by the
	// reconciliation engine; collaborators should prefer the granular ops.
	PutHabit(h models.Habit) error
	// DeleteAllHabits removes every habit. Used by replace-style restore.
	DeleteAllHabits() error
	// ReplaceAllHabits swaps the entire collection for habits in a single
	// transaction: readers see the old collection or the new one, never a
	// partially replaced state.
	ReplaceAllHabits(habits []models.Habit) error
	// ReorderHabits rewrites each habit's sort order to its position in
	// ids, atomically with respect to concurrent reads.
	ReorderHabits(ids []string) error

	// Day states
	SetDayState(id, date string, state models.DayState) (models.Habit, error)
	ToggleCompletion(id, date string) (models.Habit, error)

	// Settings
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error

	// Utils
	GetConfigPath() string
}
