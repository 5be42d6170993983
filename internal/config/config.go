// Package config handles the XDG configuration directory and settings.
//
// Settings precedence is flags > TASKCHAT_* environment variables >
// config.yaml in the config directory > built-in defaults.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskchat"

	// SessionFile is the persisted credential filename.
	SessionFile = "session.json"

	// HistoryFile is the local chat history database filename.
	HistoryFile = "history.db"

	// SettingsFile is the optional settings filename.
	SettingsFile = "config.yaml"

	// DefaultBaseURL is the API base URL when nothing else is configured.
	DefaultBaseURL = "http://localhost:8000"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the API base URL; endpoint paths are relative to it.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// Load creates a Config for the given directory, reading config.yaml
// and TASKCHAT_* environment variables when present. If configDir is
// empty, uses XDG_CONFIG_HOME/taskchat or $HOME/.config/taskchat.
func Load(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetDefault("api_base_url", DefaultBaseURL)
	v.SetDefault("debug", false)
	v.SetDefault("quiet", false)
	v.SetEnvPrefix("TASKCHAT")
	v.AutomaticEnv()

	v.SetConfigFile(filepath.Join(dir, SettingsFile))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		// A missing settings file is fine; a malformed one is not.
		if !errors.Is(err, fs.ErrNotExist) {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		}
	}

	return &Config{
		Dir:     dir,
		BaseURL: v.GetString("api_base_url"),
		Debug:   v.GetBool("debug"),
		Quiet:   v.GetBool("quiet"),
	}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the persisted credential file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// HistoryPath returns the path to the chat history database.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Dir, HistoryFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the credential file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
