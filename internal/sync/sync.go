package sync

import (
	"context"
	"errors"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/julianstephens/betterhabits/internal/constants"
	"github.com/julianstephens/betterhabits/internal/logger"
	"github.com/julianstephens/betterhabits/internal/models"
	"github.com/julianstephens/betterhabits/internal/remote"
	"github.com/julianstephens/betterhabits/internal/storage"
)

// SkipReason explains why an automatic sync did not run.
type SkipReason string

const (
	SkipNotAuthenticated   SkipReason = "not_authenticated"
	SkipAlreadySyncedToday SkipReason = "already_synced_today"
	SkipNoBackupFound      SkipReason = "no_backup_found"
)

// SyncResult is the outcome of AutoSyncIfNeeded. Exactly one of Skipped
// and Err is set when no merge ran; Merged carries the counts otherwise.
type SyncResult struct {
	Skipped SkipReason
	Merged  Result
	Err     error
}

// Syncer decides once per calendar day whether to pull the remote backup
// and feed it to the merge engine. It never runs concurrently with itself:
// the already-synced-today check plus a single daily trigger is the
// de-facto mutual exclusion.
type Syncer struct {
	store  storage.Provider
	remote remote.Store

	// now is swappable in tests to pin the calendar day.
	now func() time.Time
}

func NewSyncer(store storage.Provider, remoteStore remote.Store) *Syncer {
	return &Syncer{
		store:  store,
		remote: remoteStore,
		now:    time.Now,
	}
}

// SetNowFunc overrides the syncer's clock. Test hook.
func (s *Syncer) SetNowFunc(now func() time.Time) {
	s.now = now
}

// AutoSyncIfNeeded runs the daily pull-and-merge. All remote failures are
// soft: they land in SyncResult.Err and never propagate, so sync cannot
// block or corrupt app startup.
func (s *Syncer) AutoSyncIfNeeded(ctx context.Context) SyncResult {
	if !s.remote.IsAuthenticated() {
		logger.Debug("auto-sync skipped", "reason", SkipNotAuthenticated)
		return SyncResult{Skipped: SkipNotAuthenticated}
	}

	today := s.now().Format(constants.DateFormat)
	last, err := s.store.GetSetting(constants.SettingLastSyncDate)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return SyncResult{Err: err}
	}
	if err == nil && last == today {
		logger.Debug("auto-sync skipped", "reason", SkipAlreadySyncedToday)
		return SyncResult{Skipped: SkipAlreadySyncedToday}
	}

	files, err := s.remote.ListBackups(ctx)
	if err != nil {
		logger.Warn("auto-sync failed to list backups", "error", err)
		return SyncResult{Err: err}
	}
	if len(files) == 0 {
		// Record the attempt so we do not retry on every load today.
		if err := s.recordSync(today); err != nil {
			return SyncResult{Err: err}
		}
		logger.Debug("auto-sync skipped", "reason", SkipNoBackupFound)
		return SyncResult{Skipped: SkipNoBackupFound}
	}

	payload, err := s.remote.Download(ctx, files[0].ID)
	if err != nil {
		logger.Warn("auto-sync failed to download backup", "error", err)
		return SyncResult{Err: err}
	}

	merged, err := Reconcile(s.store, payload.Habits, StrategyMerge)
	if err != nil {
		return SyncResult{Err: err}
	}

	if err := s.recordSync(today); err != nil {
		return SyncResult{Err: err}
	}

	logger.Info("auto-sync merged remote backup",
		"added", merged.Added, "updated", merged.Updated, "skipped", merged.Skipped)

	return SyncResult{Merged: merged}
}

// BackupNow builds the backup payload from the store and uploads it,
// overwriting the canonical remote file.
func (s *Syncer) BackupNow(ctx context.Context) (remote.BackupFile, error) {
	payload, err := s.BuildPayload()
	if err != nil {
		return remote.BackupFile{}, err
	}
	return s.remote.Upload(ctx, payload)
}

// BuildPayload snapshots habits and exported settings into the wire shape.
func (s *Syncer) BuildPayload() (models.BackupPayload, error) {
	habits, err := s.store.GetAllHabits()
	if err != nil {
		return models.BackupPayload{}, err
	}

	return models.BackupPayload{
		ExportDate: s.now().Format(time.RFC3339),
		Version:    constants.BackupVersion,
		Habits:     habits,
		Settings: models.BackupSettings{
			SelectedTheme:   s.settingPtr(constants.SettingSelectedTheme),
			ReminderEnabled: s.settingPtr(constants.SettingReminderEnabled),
			ReminderTime:    s.settingPtr(constants.SettingReminderTime),
		},
		Metadata: models.BackupMetadata{
			TotalHabits:  len(habits),
			ExportSource: constants.ExportSource,
		},
	}, nil
}

// Restore explicitly downloads the backup with the given ID and
// reconciles it under the chosen strategy. Unlike AutoSyncIfNeeded this
// surfaces errors: the caller asked for it and should see failures.
// Backup settings fill local settings that were never written.
func (s *Syncer) Restore(ctx context.Context, id string, strategy Strategy) (Result, error) {
	payload, err := s.remote.Download(ctx, id)
	if err != nil {
		return Result{}, err
	}

	result, err := Reconcile(s.store, payload.Habits, strategy)
	if err != nil {
		return Result{}, err
	}

	s.fillSetting(constants.SettingSelectedTheme, payload.Settings.SelectedTheme)
	s.fillSetting(constants.SettingReminderEnabled, payload.Settings.ReminderEnabled)
	s.fillSetting(constants.SettingReminderTime, payload.Settings.ReminderTime)

	return result, nil
}

// habitFingerprint is the hashed subset of a habit used for difference
// detection. Sort order and streak are excluded: neither warrants
// prompting the user to restore.
type habitFingerprint struct {
	Name        string
	Description string
	Icon        string
	Completed   []string
	Failed      []string
}

// NeedsRestore reports whether the backup differs from the local
// collection enough that a restore would change anything: a habit present
// on one side only, or differing date sets or properties for a shared id.
func NeedsRestore(local, backup []models.Habit) bool {
	if len(backup) == 0 {
		return false
	}
	if len(local) != len(backup) {
		return true
	}

	localHashes := make(map[string]uint64, len(local))
	for _, h := range local {
		localHashes[h.ID] = fingerprint(h)
	}

	for _, b := range backup {
		lh, ok := localHashes[b.ID]
		if !ok {
			return true
		}
		if lh != fingerprint(b) {
			return true
		}
	}

	return false
}

func fingerprint(h models.Habit) uint64 {
	fp := habitFingerprint{
		Name:        h.Name,
		Description: h.Description,
		Icon:        h.Icon,
		Completed:   h.CompletedDates,
		Failed:      h.FailedDates,
	}
	hash, err := hashstructure.Hash(fp, hashstructure.FormatV2, nil)
	if err != nil {
		// Hashing a plain struct of strings cannot fail; treat a failure
		// as "differs" so the user is asked rather than data ignored.
		return 0
	}
	return hash
}

func (s *Syncer) recordSync(today string) error {
	return s.store.SetSetting(constants.SettingLastSyncDate, today)
}

func (s *Syncer) settingPtr(key string) *string {
	value, err := s.store.GetSetting(key)
	if err != nil {
		return nil
	}
	return &value
}

func (s *Syncer) fillSetting(key string, value *string) {
	if value == nil {
		return
	}
	if _, err := s.store.GetSetting(key); err == nil {
		return
	}
	if err := s.store.SetSetting(key, *value); err != nil {
		logger.Warn("failed to restore setting from backup", "key", key, "error", err)
	}
}
