// Package config loads the library configuration from a YAML file with
// environment-variable overrides for secrets. The zero Config is usable:
// local storage under the default path, no remote backend.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/betterhabits/internal/constants"
)

// Config is the root configuration structure. Read-only after Load.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Remote  RemoteConfig  `yaml:"remote"`
	Log     LogConfig     `yaml:"log"`
}

// StorageConfig contains local database settings.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// RemoteConfig selects and configures the backup backend.
// Backend is one of "s3", "dir", or "" for no remote backup.
type RemoteConfig struct {
	Backend string   `yaml:"backend"`
	S3      S3Config `yaml:"s3"`
	Dir     string   `yaml:"dir"`
}

// S3Config contains S3-compatible object store settings. The key pair is
// never read from YAML: it comes from the environment or the OS keyring.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    *bool  `yaml:"use_ssl"`
	AccessKey string `yaml:"-"` // env or keyring only
	SecretKey string `yaml:"-"` // env or keyring only
}

// LogConfig contains logging settings.
type LogConfig struct {
	Debug bool `yaml:"debug"`
}

// Load reads the config file at path, applies defaults and environment
// overrides. A missing file is not an error; defaults apply.
func Load(path string) (Config, error) {
	cfg := Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Storage.Path == "" {
		c.Storage.Path = expandHome(constants.DefaultConfigPath)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BETTERHABITS_DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("BETTERHABITS_S3_ACCESS_KEY"); v != "" {
		c.Remote.S3.AccessKey = v
	}
	if v := os.Getenv("BETTERHABITS_S3_SECRET_KEY"); v != "" {
		c.Remote.S3.SecretKey = v
	}
	if v := os.Getenv("BETTERHABITS_DEBUG"); v == "1" || strings.EqualFold(v, "true") {
		c.Log.Debug = true
	}
}

func (c *Config) validate() error {
	switch c.Remote.Backend {
	case "", "dir":
	case "s3":
		if c.Remote.S3.Endpoint == "" || c.Remote.S3.Bucket == "" {
			return errors.New("remote.s3 requires endpoint and bucket")
		}
	default:
		return fmt.Errorf("unknown remote backend %q", c.Remote.Backend)
	}
	return nil
}

// ConfigDir returns the directory holding the database, used for logs.
func (c *Config) ConfigDir() string {
	return filepath.Dir(c.Storage.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
