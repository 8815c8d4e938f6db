package models

// BackupPayload is the canonical JSON snapshot uploaded to remote storage.
// The shape is shared with other clients of the same account and must stay
// wire-compatible.
type BackupPayload struct {
	ExportDate string         `json:"exportDate"` // RFC3339
	Version    string         `json:"version"`
	Habits     []Habit        `json:"habits"`
	Settings   BackupSettings `json:"settings"`
	Metadata   BackupMetadata `json:"metadata"`
}

// BackupSettings carries the app-level settings included in a backup.
// Values are nullable strings: a nil field means the setting was never
// written on the exporting device.
type BackupSettings struct {
	SelectedTheme   *string `json:"selectedTheme"`
	ReminderEnabled *string `json:"reminderEnabled"`
	ReminderTime    *string `json:"reminderTime"`
}

// BackupMetadata describes the exporting side of a backup.
type BackupMetadata struct {
	TotalHabits  int    `json:"totalHabits"`
	ExportSource string `json:"exportSource"`
}
