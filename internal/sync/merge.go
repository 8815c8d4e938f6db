// Package sync reconciles the local habit collection with remote backups
// and decides, once per calendar day, whether to pull the remote backup
// automatically.
package sync

import (
	"errors"
	"fmt"
	"sort"

	"github.com/julianstephens/betterhabits/internal/logger"
	"github.com/julianstephens/betterhabits/internal/models"
	"github.com/julianstephens/betterhabits/internal/storage"
)

// Strategy selects how a downloaded backup is combined with local data.
type Strategy string

const (
	// StrategyReplace discards all local habits and inserts the backup
	// verbatim.
	StrategyReplace Strategy = "replace"
	// StrategyMerge unions per-habit date sets and keeps local-only
	// habits untouched.
	StrategyMerge Strategy = "merge"
)

// ErrEmptyBackup is returned when a replace would run against a backup
// with zero habits. Replace must never silently wipe local data.
var ErrEmptyBackup = errors.New("backup contains no habits")

// Result counts the outcome of a reconciliation per remote habit.
type Result struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Reconcile combines remoteHabits into the store under the given strategy.
//
// Merge is commutative and idempotent in the date-set-union sense:
// re-applying the same backup reports zero Updated. When the same date is
// completed in one source and failed in the other, completed wins; the
// rule is order-independent, which is what keeps merge commutative.
func Reconcile(store storage.Provider, remoteHabits []models.Habit, strategy Strategy) (Result, error) {
	switch strategy {
	case StrategyReplace:
		return reconcileReplace(store, remoteHabits)
	case StrategyMerge:
		return reconcileMerge(store, remoteHabits)
	default:
		return Result{}, fmt.Errorf("unknown merge strategy %q", strategy)
	}
}

func reconcileReplace(store storage.Provider, remoteHabits []models.Habit) (Result, error) {
	if len(remoteHabits) == 0 {
		return Result{}, ErrEmptyBackup
	}

	replacement := make([]models.Habit, 0, len(remoteHabits))
	for _, r := range remoteHabits {
		replacement = append(replacement, sanitize(r))
	}

	if err := store.ReplaceAllHabits(replacement); err != nil {
		return Result{}, err
	}

	logger.Info("replaced local habits from backup", "count", len(replacement))
	return Result{Added: len(replacement)}, nil
}

func reconcileMerge(store storage.Provider, remoteHabits []models.Habit) (Result, error) {
	locals, err := store.GetAllHabits()
	if err != nil {
		return Result{}, err
	}

	byID := make(map[string]models.Habit, len(locals))
	for _, l := range locals {
		byID[l.ID] = l
	}

	result := Result{}
	for _, r := range remoteHabits {
		local, ok := byID[r.ID]
		if !ok {
			if err := store.PutHabit(sanitize(r)); err != nil {
				return result, err
			}
			result.Added++
			continue
		}

		completed, failed := unionDates(local, r)
		if equalDates(completed, local.CompletedDates) && equalDates(failed, local.FailedDates) {
			result.Skipped++
			continue
		}

		merged := local
		merged.CompletedDates = completed
		merged.FailedDates = failed
		// Remote values only fill fields the local record never had.
		if merged.Name == "" {
			merged.Name = r.Name
		}
		if merged.Description == "" {
			merged.Description = r.Description
		}
		if merged.Icon == "" {
			merged.Icon = r.Icon
		}

		if err := store.PutHabit(merged); err != nil {
			return result, err
		}
		result.Updated++
	}

	logger.Info("merged backup into local habits",
		"added", result.Added, "updated", result.Updated, "skipped", result.Skipped)

	return result, nil
}

// sanitize normalizes an incoming habit: date sets deduplicated, sorted,
// and made disjoint (completed wins) before they touch storage.
func sanitize(h models.Habit) models.Habit {
	h.CompletedDates, h.FailedDates = unionDates(h, models.Habit{})
	return h
}

// unionDates merges the date sets of two habit records into one
// date-to-state mapping and splits it back into sorted slices. A date
// completed on either side ends up completed, even if the other side
// recorded it as failed.
func unionDates(a, b models.Habit) (completed, failed []string) {
	states := make(map[string]models.DayState, len(a.CompletedDates)+len(b.CompletedDates))
	for _, d := range a.FailedDates {
		states[d] = models.StateFailed
	}
	for _, d := range b.FailedDates {
		states[d] = models.StateFailed
	}
	for _, d := range a.CompletedDates {
		states[d] = models.StateCompleted
	}
	for _, d := range b.CompletedDates {
		states[d] = models.StateCompleted
	}

	completed = []string{}
	failed = []string{}
	for d, st := range states {
		if st == models.StateCompleted {
			completed = append(completed, d)
		} else {
			failed = append(failed, d)
		}
	}
	sort.Strings(completed)
	sort.Strings(failed)

	return completed, failed
}

func equalDates(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
