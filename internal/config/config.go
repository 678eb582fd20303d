package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// State contains directory configuration for persisted tool state.
type State struct {
	Dir string `toml:"dir"`
}

// Logging contains configuration for the persistent JSON log file. Console
// output always goes to stdout in the NZBGet line format regardless of these
// settings.
type Logging struct {
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// History contains configuration for the per-run SQLite ledger.
type History struct {
	Enabled       bool `toml:"enabled"`
	RetentionDays int  `toml:"retention_days"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Cleanup        bool   `toml:"cleanup"`
	Errors         bool   `toml:"errors"`
}

// Lock contains configuration for the per-destination run lock.
type Lock struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates the ambient settings of the extension.
type Config struct {
	State         State         `toml:"state"`
	Logging       Logging       `toml:"logging"`
	History       History       `toml:"history"`
	Notifications Notifications `toml:"notifications"`
	Lock          Lock          `toml:"lock"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/removesamples/config.toml")
}

// Load locates, parses, and validates the configuration file. The returned
// config has all path fields expanded. A missing file is not an error; the
// defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.State.Dir) == "" {
		c.State.Dir = defaultStateDir
	}
	if c.State.Dir, err = expandPath(c.State.Dir); err != nil {
		return fmt.Errorf("state.dir: %w", err)
	}
	if trimmed := strings.TrimSpace(c.Logging.File); trimmed != "" {
		if c.Logging.File, err = expandPath(trimmed); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	} else {
		c.Logging.File = ""
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = defaultLogMaxAgeDays
	}
	if c.History.RetentionDays <= 0 {
		c.History.RetentionDays = defaultHistoryRetentionDays
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
	return nil
}

// Validate checks configuration invariants that normalization cannot repair.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.State.Dir) == "" {
		return errors.New("state.dir must not be empty")
	}
	if topic := c.Notifications.NtfyTopic; topic != "" {
		if !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
			return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
		}
	}
	return nil
}

// EnsureDirectories creates the directories required for a run.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.State.Dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.State.Dir, err)
	}
	if c.Logging.File != "" {
		if err := os.MkdirAll(filepath.Dir(c.Logging.File), 0o755); err != nil {
			return fmt.Errorf("create log directory %q: %w", filepath.Dir(c.Logging.File), err)
		}
	}
	return nil
}

// HistoryDBPath returns the path of the run-history database.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.State.Dir, "history.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
