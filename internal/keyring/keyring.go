// Package keyring stores the remote backup credentials in the OS keyring
// so they never live in the config file.
package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/betterhabits/internal/constants"
)

var (
	// ErrNotFound is returned when no credentials are stored in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Credentials is the access key pair for the S3-compatible backup target.
type Credentials struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

// GetCredentials retrieves the backup credentials from the OS keyring.
// Returns ErrNotFound if none are stored.
func GetCredentials() (Credentials, error) {
	raw, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}

	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to parse stored credentials: %w", err)
	}
	return creds, nil
}

// SetCredentials stores the backup credentials in the OS keyring.
func SetCredentials(creds Credentials) error {
	if creds.AccessKey == "" {
		return errors.New("access key cannot be empty")
	}

	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, string(raw)); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

// DeleteCredentials removes the backup credentials from the OS keyring.
func DeleteCredentials() error {
	err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if err == keyring.ErrNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable checks if the OS keyring is usable on the current system.
// Best-effort; headless systems without a secret service report false.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || err == keyring.ErrNotFound
}
