package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pdxmph/tasklist-tui/internal/storage"
	"github.com/pdxmph/tasklist-tui/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Storage.Backend, "no backend named so sqlite can fall back to the file")
	assert.Equal(t, tasks.DefaultKey, cfg.Storage.Key)
	assert.True(t, cfg.Tasks.Seed)
	assert.False(t, cfg.Tasks.PersistSort, "sorting only reorders the view by default")
	assert.Equal(t, 100, cfg.UI.CardBreakpoint)
	assert.NoError(t, cfg.Validate())
}

func TestDefault_StorageOpensWithFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := Default()
	assert.Equal(t, filepath.Join(home, ".config", "tasklist-tui", "tasks.db"), cfg.Storage.Path)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), filepath.Dir(cfg.Storage.Path), "data and config share a directory")

	// sqlite when cgo is available, otherwise the JSON file next to it
	backend, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	require.NoError(t, err)
	defer backend.Close()
	assert.Contains(t, []string{"sqlite", "file"}, backend.Name())
}

func TestValidate_MissingPath(t *testing.T) {
	cfg := Default()
	cfg.Storage.Path = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t, "storage.path is required", err.Error())

	cfg.Storage.Backend = "file"
	assert.EqualError(t, cfg.Validate(), `storage.path is required for the "file" backend`)
}

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFrom_OverridesAndExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[storage]
backend = "file"
path = "~/tasks.json"
key = "todo"

[tasks]
default_status = "in progress"
default_priority = "high"
seed = false
persist_sort = true

[ui]
card_breakpoint = 80

[log]
file = "~/tasklist.log"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "tasks.json"), cfg.Storage.Path)
	assert.Equal(t, filepath.Join(home, "tasklist.log"), cfg.Log.File)
	assert.False(t, cfg.Tasks.Seed)
	assert.True(t, cfg.Tasks.PersistSort)
	assert.Equal(t, 80, cfg.UI.CardBreakpoint)

	opts := cfg.StoreOptions()
	assert.Equal(t, tasks.Options{
		Key:             "todo",
		Seed:            false,
		DefaultStatus:   tasks.StatusInProgress,
		DefaultPriority: tasks.PriorityHigh,
	}, opts)
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad toml":       "[storage\n",
		"unknown":        "[storage]\nbackend = \"redis\"\n",
		"no path":        "[storage]\nbackend = \"file\"\npath = \"\"\n",
		"bad status":     "[tasks]\ndefault_status = \"done\"\n",
		"bad priority":   "[tasks]\ndefault_priority = \"urgent\"\n",
		"bad breakpoint": "[ui]\ncard_breakpoint = -1\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			_, err := LoadFrom(path)
			assert.Error(t, err)
		})
	}
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Storage.Backend = "memory"
	cfg.UI.CardBreakpoint = 120
	require.NoError(t, cfg.SaveTo(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[storage]")
	assert.Contains(t, string(data), "card_breakpoint = 120")

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "tasklist-tui", "config.toml"), path)
}
