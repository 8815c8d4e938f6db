package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/betterhabits/internal/models"
	"github.com/julianstephens/betterhabits/internal/storage"
)

func (s *Store) AddHabit(h storage.NewHabit) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotLoaded
	}
	if strings.TrimSpace(h.Name) == "" {
		return models.Habit{}, fmt.Errorf("%w: habit name must not be empty", storage.ErrValidation)
	}

	now := s.now()
	habit := models.Habit{
		ID:             models.NewID(now),
		Name:           h.Name,
		Description:    h.Description,
		Icon:           h.Icon,
		CreatedAt:      now.Format(time.RFC3339),
		CompletedDates: []string{},
		FailedDates:    []string{},
		SortOrder:      float64(now.Unix()),
	}

	// Timestamp-derived IDs can collide when habits are created within the
	// same millisecond. Bump until free.
	for {
		var one int
		err := s.db.QueryRow("SELECT 1 FROM habits WHERE id = ?", habit.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			return models.Habit{}, err
		}
		now = now.Add(time.Millisecond)
		habit.ID = models.NewID(now)
	}

	_, err := s.db.Exec(`
		INSERT INTO habits (id, name, description, icon, created_at, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Name, habit.Description, habit.Icon, habit.CreatedAt, habit.SortOrder)
	if err != nil {
		return models.Habit{}, err
	}

	return habit, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotLoaded
	}

	row := s.db.QueryRow(`
		SELECT id, name, description, icon, created_at, sort_order
		FROM habits WHERE id = ?`, id)

	h, err := s.scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Habit{}, fmt.Errorf("%w: habit %s", storage.ErrNotFound, id)
		}
		return models.Habit{}, err
	}

	if err := s.attachDays(&h); err != nil {
		return models.Habit{}, err
	}

	return h, nil
}

// GetAllHabits returns all habits sorted by sort order ascending, ties
// broken by insertion order. Habits left without a sort order by an
// interrupted upgrade are repaired first.
func (s *Store) GetAllHabits() ([]models.Habit, error) {
	if s.db == nil {
		return nil, storage.ErrNotLoaded
	}

	if err := s.repairSortOrders(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT id, name, description, icon, created_at, sort_order
		FROM habits ORDER BY sort_order, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	index := map[string]int{}
	for rows.Next() {
		h, err := s.scanHabit(rows)
		if err != nil {
			return nil, err
		}
		index[h.ID] = len(habits)
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.db.Query(`
		SELECT habit_id, day, state FROM habit_days ORDER BY habit_id, day`)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var habitID, day, state string
		if err := dayRows.Scan(&habitID, &day, &state); err != nil {
			return nil, err
		}
		i, ok := index[habitID]
		if !ok {
			continue
		}
		switch models.DayState(state) {
		case models.StateCompleted:
			habits[i].CompletedDates = append(habits[i].CompletedDates, day)
		case models.StateFailed:
			habits[i].FailedDates = append(habits[i].FailedDates, day)
		}
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	today := s.now()
	for i := range habits {
		habits[i].Streak = models.CalculateStreak(habits[i].CompletedDates, today)
	}

	return habits, nil
}

func (s *Store) UpdateHabit(id string, update storage.HabitUpdate) (models.Habit, error) {
	h, err := s.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}

	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return models.Habit{}, fmt.Errorf("%w: habit name must not be empty", storage.ErrValidation)
		}
		h.Name = *update.Name
	}
	if update.Description != nil {
		h.Description = *update.Description
	}
	if update.Icon != nil {
		h.Icon = *update.Icon
	}
	if update.SortOrder != nil {
		h.SortOrder = *update.SortOrder
	}

	_, err = s.db.Exec(`
		UPDATE habits SET name = ?, description = ?, icon = ?, sort_order = ?
		WHERE id = ?`,
		h.Name, h.Description, h.Icon, h.SortOrder, id)
	if err != nil {
		return models.Habit{}, err
	}

	return h, nil
}

func (s *Store) DeleteHabit(id string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	// Idempotent: deleting an unknown id is a no-op, matching the delete
	// semantics collaborators already rely on.
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_days WHERE habit_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits WHERE id = ?", id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) PutHabit(h models.Habit) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := putHabitTx(tx, h); err != nil {
		return err
	}

	return tx.Commit()
}

func putHabitTx(tx *sql.Tx, h models.Habit) error {
	_, err := tx.Exec(`
		INSERT INTO habits (id, name, description, icon, created_at, sort_order)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			icon = excluded.icon,
			created_at = excluded.created_at,
			sort_order = excluded.sort_order`,
		h.ID, h.Name, h.Description, h.Icon, h.CreatedAt, h.SortOrder)
	if err != nil {
		return err
	}

	if _, err := tx.Exec("DELETE FROM habit_days WHERE habit_id = ?", h.ID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO habit_days (habit_id, day, state) VALUES (?, ?, ?)
		ON CONFLICT(habit_id, day) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	// Completed rows go first so that a payload violating the disjointness
	// invariant resolves to completed.
	for _, day := range h.CompletedDates {
		if _, err := stmt.Exec(h.ID, day, string(models.StateCompleted)); err != nil {
			return err
		}
	}
	for _, day := range h.FailedDates {
		if _, err := stmt.Exec(h.ID, day, string(models.StateFailed)); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) DeleteAllHabits() error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_days"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) ReplaceAllHabits(habits []models.Habit) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_days"); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM habits"); err != nil {
		return err
	}
	for _, h := range habits {
		if err := putHabitTx(tx, h); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ReorderHabits rewrites each habit's sort order to its index in ids. The
// whole rewrite happens in one transaction, so concurrent readers see
// either the old ordering or the new one, never an interleaving.
func (s *Store) ReorderHabits(ids []string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, id := range ids {
		result, err := tx.Exec("UPDATE habits SET sort_order = ? WHERE id = ?", float64(i), id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: habit %s", storage.ErrNotFound, id)
		}
	}

	return tx.Commit()
}

// SetDayState moves the habit/date pair directly to the requested state.
// The single-row-per-day schema removes the date from whichever state it
// held before inserting the new one.
func (s *Store) SetDayState(id, date string, state models.DayState) (models.Habit, error) {
	if s.db == nil {
		return models.Habit{}, storage.ErrNotLoaded
	}
	if !models.ValidDate(date) {
		return models.Habit{}, fmt.Errorf("%w: invalid date %q", storage.ErrValidation, date)
	}
	if _, ok := models.ParseDayState(string(state)); !ok {
		return models.Habit{}, fmt.Errorf("%w: invalid state %q", storage.ErrValidation, state)
	}

	var one int
	err := s.db.QueryRow("SELECT 1 FROM habits WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("%w: habit %s", storage.ErrNotFound, id)
	}
	if err != nil {
		return models.Habit{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Habit{}, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM habit_days WHERE habit_id = ? AND day = ?", id, date); err != nil {
		return models.Habit{}, err
	}
	if state != models.StateNone {
		if _, err := tx.Exec(
			"INSERT INTO habit_days (habit_id, day, state) VALUES (?, ?, ?)",
			id, date, string(state)); err != nil {
			return models.Habit{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Habit{}, err
	}

	return s.GetHabit(id)
}

// ToggleCompletion flips the date between completed and none; a failed
// date toggles to completed.
func (s *Store) ToggleCompletion(id, date string) (models.Habit, error) {
	h, err := s.GetHabit(id)
	if err != nil {
		return models.Habit{}, err
	}

	next := models.StateCompleted
	if models.StateOn(h, date) == models.StateCompleted {
		next = models.StateNone
	}

	return s.SetDayState(id, date, next)
}

// repairSortOrders assigns a sort order to habits left with NULL by the
// schema upgrade (created_at did not parse as a timestamp). Assignment is
// current time plus a positional offset, preserving relative insertion
// order. Idempotent: habits with a sort order are never touched.
func (s *Store) repairSortOrders() error {
	rows, err := s.db.Query("SELECT id FROM habits WHERE sort_order IS NULL ORDER BY rowid")
	if err != nil {
		return err
	}

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	base := float64(s.now().Unix())
	for i, id := range ids {
		if _, err := tx.Exec("UPDATE habits SET sort_order = ? WHERE id = ?", base+float64(i), id); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanHabit(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var sortOrder sql.NullFloat64

	if err := row.Scan(&h.ID, &h.Name, &h.Description, &h.Icon, &h.CreatedAt, &sortOrder); err != nil {
		return models.Habit{}, err
	}

	if sortOrder.Valid {
		h.SortOrder = sortOrder.Float64
	}
	h.CompletedDates = []string{}
	h.FailedDates = []string{}

	return h, nil
}

func (s *Store) attachDays(h *models.Habit) error {
	rows, err := s.db.Query(
		"SELECT day, state FROM habit_days WHERE habit_id = ? ORDER BY day", h.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var day, state string
		if err := rows.Scan(&day, &state); err != nil {
			return err
		}
		switch models.DayState(state) {
		case models.StateCompleted:
			h.CompletedDates = append(h.CompletedDates, day)
		case models.StateFailed:
			h.FailedDates = append(h.FailedDates, day)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	h.Streak = models.CalculateStreak(h.CompletedDates, s.now())
	return nil
}
