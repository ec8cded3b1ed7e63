package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the complete configuration for bookmarks-curses
type Config struct {
	// Database configuration
	Database DatabaseConfig `toml:"database"`

	// TUI configuration
	TUI TUIConfig `toml:"tui"`

	// External editor configuration
	Editor EditorConfig `toml:"editor"`

	// HTML import configuration
	Import ImportConfig `toml:"import"`

	// CLI output configuration
	Output OutputConfig `toml:"output"`

	// Sentry configuration
	Sentry SentryConfig `toml:"sentry"`

	// Directory paths (computed, not stored in TOML)
	DataDir   string `toml:"-"`
	ConfigDir string `toml:"-"`
}

// DatabaseConfig contains database-related settings
type DatabaseConfig struct {
	// Path to the SQLite database file
	Path string `toml:"path"`

	// Connection pool settings; the application is single-user and
	// synchronous, so one connection is enough
	MaxOpenConns int `toml:"max_open_conns"`
	MaxIdleConns int `toml:"max_idle_conns"`

	// WAL mode settings
	WALMode bool `toml:"wal_mode"`

	// Synchronous mode (NORMAL, FULL)
	SyncMode string `toml:"sync_mode"`
}

// TUIConfig contains TUI interface settings
type TUIConfig struct {
	// Default sort key (modified, created, title, url)
	DefaultSort string `toml:"default_sort"`

	// Start with the deleted view visible
	ShowDeleted bool `toml:"show_deleted"`

	// Enable bleve-backed fuzzy search by default
	FuzzySearch bool `toml:"fuzzy_search"`

	// Date layout for the ModTime/Created columns
	TimeLayout string `toml:"time_layout"`
}

// EditorConfig contains external editor settings
type EditorConfig struct {
	// Editor command; empty means $VISUAL, then $EDITOR, then vi
	Command string `toml:"command"`

	// Directory for the edit scratch file; empty picks /dev/shm when
	// available so record text never touches persistent storage
	TempDir string `toml:"temp_dir"`
}

// ImportConfig contains HTML bookmark import settings
type ImportConfig struct {
	// Records inserted per transaction during large imports
	BatchSize int `toml:"batch_size"`
}

// OutputConfig contains CLI output formatting settings
type OutputConfig struct {
	// Enable colored output
	ColorsEnabled bool `toml:"colors_enabled"`

	// Automatically disable colors when not in a TTY
	AutoDetectTTY bool `toml:"auto_detect_tty"`
}

// SentryConfig contains Sentry error monitoring settings
type SentryConfig struct {
	// Enable Sentry error monitoring; off unless a DSN is configured
	Enabled bool `toml:"enabled"`

	// Sentry DSN for error reporting
	DSN string `toml:"dsn"`

	// Environment name (development, staging, production)
	Environment string `toml:"environment"`

	// Sample rate for error reporting (0.0 to 1.0)
	SampleRate float64 `toml:"sample_rate"`

	// Release version for error grouping
	Release string `toml:"release"`

	// Debug mode for Sentry SDK
	Debug bool `toml:"debug"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	configDir := filepath.Join(homeDir, ".config", "bookmarks-curses")
	dataDir := filepath.Join(homeDir, ".local", "share", "bookmarks-curses")

	return &Config{
		Database: DatabaseConfig{
			Path:         filepath.Join(dataDir, "bookmarks.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			WALMode:      true,
			SyncMode:     "NORMAL",
		},
		TUI: TUIConfig{
			DefaultSort: "modified",
			ShowDeleted: false,
			FuzzySearch: false,
			TimeLayout:  "2006-01-02 15:04:05",
		},
		Editor: EditorConfig{
			Command: "",
			TempDir: "",
		},
		Import: ImportConfig{
			BatchSize: 500,
		},
		Output: OutputConfig{
			ColorsEnabled: true,
			AutoDetectTTY: true,
		},
		Sentry: SentryConfig{
			Enabled:     false,
			DSN:         "",
			Environment: "development",
			SampleRate:  1.0,
			Debug:       false,
			Release:     "",
		},
		DataDir:   dataDir,
		ConfigDir: configDir,
	}
}

// Load loads configuration from the specified file path
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	// If no config path specified, try default location
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return config, nil // Return defaults if can't determine home dir
		}
		configPath = filepath.Join(homeDir, ".config", "bookmarks-curses", "config.toml")
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return defaults
		return config, nil
	}

	// Load and parse the TOML file
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	// Validate the configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the specified file path
func (c *Config) Save(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config as TOML: %w", err)
	}

	return nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns must be non-negative")
	}
	switch c.Database.SyncMode {
	case "NORMAL", "FULL":
	default:
		return fmt.Errorf("database.sync_mode must be NORMAL or FULL, got %s", c.Database.SyncMode)
	}

	switch c.TUI.DefaultSort {
	case "modified", "created", "title", "url":
	default:
		return fmt.Errorf("tui.default_sort must be one of modified, created, title, url, got %s", c.TUI.DefaultSort)
	}
	if c.TUI.TimeLayout == "" {
		return fmt.Errorf("tui.time_layout must not be empty")
	}

	if c.Import.BatchSize <= 0 {
		return fmt.Errorf("import.batch_size must be positive")
	}

	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		return fmt.Errorf("sentry.sample_rate must be between 0.0 and 1.0")
	}

	return nil
}

// EnsureDirectories creates the data and config directories
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.DataDir, c.ConfigDir, filepath.Dir(c.Database.Path)} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
