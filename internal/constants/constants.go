package constants

const (
	AppName            = "betterhabits"
	DefaultKeyringUser = "backup-credentials"
	DefaultConfigPath  = "~/.config/betterhabits/habits.db"

	// DateFormat is the standard calendar-date format used throughout the
	// application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	BackupFileName   = "better-habits-backup.json"
	BackupFolderName = "better-habits"
	BackupVersion    = "1.1"
	ExportSource     = "Better Habits App"

	// Settings keys
	SettingLastSyncDate    = "last_sync_date"
	SettingSelectedTheme   = "selected_theme"
	SettingReminderEnabled = "reminder_enabled"
	SettingReminderTime    = "reminder_time"
	SettingAutoBackupTime  = "auto_backup_time"
)
