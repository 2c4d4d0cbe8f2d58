package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdxmph/tasklist-tui/internal/tasks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every backend must satisfy the store's persistence port
var (
	_ tasks.Storage = (*MemoryBackend)(nil)
	_ tasks.Storage = (*FileBackend)(nil)
	_ tasks.Storage = (*SQLiteBackend)(nil)
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()

	_, ok, err := b.Get("tasks")
	require.NoError(t, err)
	require.False(t, ok, "empty backend reported a value")

	require.NoError(t, b.Set("tasks", `[{"id":1}]`))
	require.NoError(t, b.Set("tasks", `[{"id":2}]`))
	v, ok, err := b.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, v)

	require.NoError(t, b.Set("empty", ""))
	v, ok, err = b.Get("empty")
	require.NoError(t, err)
	assert.True(t, ok, "an empty value is still present")
	assert.Equal(t, "", v)

	require.NoError(t, b.Remove("tasks"))
	_, ok, err = b.Get("tasks")
	require.NoError(t, err)
	assert.False(t, ok, "key still present after Remove")
	assert.NoError(t, b.Remove("missing"))
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	exerciseBackend(t, b)

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Set("k", "v"), ErrClosed)
	_, _, err := b.Get("k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tasks.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	defer b.Close()

	exerciseBackend(t, b)
}

func TestFileBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	b, err := NewFileBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Set("tasks", "[]"))
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Set("tasks", "[]"), ErrClosed)

	reopened, err := NewFileBackend(path)
	require.NoError(t, err)
	v, ok, err := reopened.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasSuffix(e.Name(), ".tmp"), "temp file left behind: %s", e.Name())
	}
}

func TestFileBackend_RejectsBadFile(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))
	_, err = NewFileBackend(path)
	assert.Error(t, err)
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, "sqlite", b.Name())
	exerciseBackend(t, b)
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	b, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	require.NoError(t, b.Set("tasks", `[{"id":1}]`))
	require.NoError(t, b.Close())

	reopened, err := NewSQLiteBackend(path)
	require.NoError(t, err)
	defer reopened.Close()

	v, ok, err := reopened.Get("tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	factory := func(string) (Backend, error) { return NewMemoryBackend(), nil }

	require.NoError(t, r.Register("mem", factory))
	assert.Error(t, r.Register("mem", factory), "duplicate registration")
	assert.True(t, r.Has("mem"))
	assert.False(t, r.Has("nope"))

	_, err := r.Create("nope", "")
	assert.Error(t, err)

	b, err := r.Create("mem", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", b.Name())
	assert.Equal(t, []string{"mem"}, r.List())
}

func TestGlobalRegistryHasBuiltins(t *testing.T) {
	assert.Equal(t, []string{"file", "memory", "sqlite"}, ListBackends())
	assert.True(t, IsRegistered("sqlite"))
}

func TestOpen_Named(t *testing.T) {
	b, err := Open("file", filepath.Join(t.TempDir(), "tasks.json"))
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "file", b.Name())

	_, err = Open("redis", "")
	assert.Error(t, err)
}

func TestOpen_PreferenceFallsBack(t *testing.T) {
	dir := t.TempDir()
	// A directory where the database should be makes sqlite fail
	dbPath := filepath.Join(dir, "tasks.db")
	require.NoError(t, os.Mkdir(dbPath, 0700))

	b, err := Open("", dbPath)
	require.NoError(t, err)
	defer b.Close()

	fb, ok := b.(*FileBackend)
	require.True(t, ok, "backend = %s, want file fallback", b.Name())
	assert.Equal(t, filepath.Join(dir, "tasks.json"), fb.Path())
}

func TestOpen_PreferenceUsesSQLite(t *testing.T) {
	b, err := Open("", filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, "sqlite", b.Name())
}
