package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pdxmph/tasklist-tui/internal/storage"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
)

// Config holds the application configuration
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Tasks   TasksConfig   `toml:"tasks"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// StorageConfig selects where the task list is kept
type StorageConfig struct {
	Backend string `toml:"backend"` // sqlite, file or memory; empty tries sqlite then file
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

// TasksConfig holds defaults for new tasks and list behaviour
type TasksConfig struct {
	DefaultStatus   string `toml:"default_status"`
	DefaultPriority string `toml:"default_priority"`
	Seed            bool   `toml:"seed"`
	PersistSort     bool   `toml:"persist_sort"`
}

// UIConfig holds terminal layout settings
type UIConfig struct {
	// Terminals narrower than this render cards instead of the table
	CardBreakpoint int `toml:"card_breakpoint"`
}

// LogConfig holds logging settings
type LogConfig struct {
	File string `toml:"file"`
}

// Default returns the default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Storage: StorageConfig{
			// empty lets storage.Open try sqlite and fall back to the JSON file
			Backend: "",
			Path:    filepath.Join(configDir(homeDir), "tasks.db"),
			Key:     tasks.DefaultKey,
		},
		Tasks: TasksConfig{
			DefaultStatus:   string(tasks.StatusPending),
			DefaultPriority: string(tasks.PriorityMedium),
			Seed:            true,
			PersistSort:     false,
		},
		UI: UIConfig{
			CardBreakpoint: 100,
		},
	}
}

// DefaultPath returns the standard config file location
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	return filepath.Join(configDir(homeDir), "config.toml"), nil
}

// configDir holds both the config file and the default task database
func configDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", "tasklist-tui")
}

// Load loads configuration from the standard location
func Load() (*Config, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(configPath string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// No config file, return defaults
		return cfg, nil
	}

	// Read and parse config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand home directory in paths
	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// Validate checks that names and enum values in the config are known
func (c *Config) Validate() error {
	if c.Storage.Backend != "" && !storage.IsRegistered(c.Storage.Backend) {
		return fmt.Errorf("unknown storage backend %q (available: %v)", c.Storage.Backend, storage.ListBackends())
	}
	if c.Storage.Backend != "memory" && c.Storage.Path == "" {
		if c.Storage.Backend == "" {
			return fmt.Errorf("storage.path is required")
		}
		return fmt.Errorf("storage.path is required for the %q backend", c.Storage.Backend)
	}
	if _, err := tasks.ParseStatus(c.Tasks.DefaultStatus); err != nil {
		return fmt.Errorf("tasks.default_status: %w", err)
	}
	if _, err := tasks.ParsePriority(c.Tasks.DefaultPriority); err != nil {
		return fmt.Errorf("tasks.default_priority: %w", err)
	}
	if c.UI.CardBreakpoint < 0 {
		return fmt.Errorf("ui.card_breakpoint must not be negative")
	}
	return nil
}

// StoreOptions converts the task settings into store options. Call Validate first.
func (c *Config) StoreOptions() tasks.Options {
	opts := tasks.DefaultOptions()
	opts.Key = c.Storage.Key
	opts.Seed = c.Tasks.Seed
	if s, err := tasks.ParseStatus(c.Tasks.DefaultStatus); err == nil {
		opts.DefaultStatus = s
	}
	if p, err := tasks.ParsePriority(c.Tasks.DefaultPriority); err == nil {
		opts.DefaultPriority = p
	}
	return opts
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// Save saves the configuration to the standard location
func (c *Config) Save() error {
	configPath, err := DefaultPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return nil
}
