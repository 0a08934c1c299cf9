// Package config handles configuration and file locations for chatull.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/diogo/chatull/internal/models"
)

// Storage backends for the transcript store
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// DefaultTheme is the TUI color scheme used when none is configured
const DefaultTheme = "ull"

// HomeEnv overrides the configuration directory (defaults to ~/.chatull)
const HomeEnv = "CHATULL_HOME"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`             // "dark", "light", or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji"`      // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"` // Preserve original line breaks
}

// Config represents the user configuration
type Config struct {
	// BaseURL is the scheme+host of the answer service.
	BaseURL string `json:"base_url" env:"CHATULL_BASE_URL"`
	// Subjects populates the subject menu, in display order.
	Subjects []string `json:"subjects" env:"CHATULL_SUBJECTS" envSeparator:";"`
	// Storage selects the transcript backend: file, sqlite or memory.
	Storage string `json:"storage" env:"CHATULL_STORAGE"`
	// RequestTimeout in seconds. Zero waits for the answer indefinitely.
	RequestTimeout  int            `json:"request_timeout" env:"CHATULL_REQUEST_TIMEOUT"`
	Verbose         bool           `json:"verbose" env:"CHATULL_VERBOSE"`
	CopyToClipboard bool           `json:"copy_to_clipboard"`
	// Theme names the TUI color scheme.
	Theme    string         `json:"theme" env:"CHATULL_THEME"`
	Markdown MarkdownConfig `json:"markdown,omitempty"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:         models.DefaultBaseURL,
		Subjects:        models.DefaultSubjects(),
		Storage:         StorageFile,
		RequestTimeout:  0,
		Verbose:         false,
		CopyToClipboard: false,
		Theme:           DefaultTheme,
		Markdown:        DefaultMarkdownConfig(),
	}
}

// Validate checks values that would otherwise fail much later
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("invalid storage %q: expected %s, %s or %s", c.Storage, StorageFile, StorageSQLite, StorageMemory)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if len(c.Subjects) == 0 {
		return fmt.Errorf("at least one subject is required")
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".chatull"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	// 0o700: holds the session token and the transcripts
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	return pathInConfigDir("config.json")
}

// GetSessionPath returns the path to the session token file
func GetSessionPath() (string, error) {
	return pathInConfigDir("session.json")
}

// GetStorageDir returns the directory used by the file transcript backend
func GetStorageDir() (string, error) {
	return pathInConfigDir("storage")
}

// GetDatabasePath returns the sqlite database path
func GetDatabasePath() (string, error) {
	return pathInConfigDir("chatull.db")
}

// GetLogPath returns the log file path
func GetLogPath() (string, error) {
	return pathInConfigDir("chatull.log")
}

func pathInConfigDir(name string) (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, name), nil
}

// LoadConfig loads the configuration from disk, then applies environment
// overrides (including a .env file in the working directory).
func LoadConfig() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return cfg, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadFile loads the configuration file over the defaults, without
// environment overrides.
func LoadFile() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	return cfg, nil
}

// ApplyEnv overrides cfg with CHATULL_* environment variables. Variables that
// are not set leave the current values untouched.
func ApplyEnv(cfg *Config) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// AvailableStorages returns the storage backend names
func AvailableStorages() []string {
	return []string{
		StorageFile,
		StorageSQLite,
		StorageMemory,
	}
}
