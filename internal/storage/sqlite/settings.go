package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/julianstephens/betterhabits/internal/storage"
)

// GetSetting returns the stored value for key, or storage.ErrNotFound if
// the key was never written.
func (s *Store) GetSetting(key string) (string, error) {
	if s.db == nil {
		return "", storage.ErrNotLoaded
	}

	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: setting %s", storage.ErrNotFound, key)
	}
	if err != nil {
		return "", err
	}

	return value, nil
}

// SetSetting writes key lazily on first use and overwrites on subsequent
// writes. Last write wins.
func (s *Store) SetSetting(key, value string) error {
	if s.db == nil {
		return storage.ErrNotLoaded
	}

	_, err := s.db.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}
