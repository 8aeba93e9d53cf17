package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	assert.False(t, s.Has("a"))
	_, err := s.Get("a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Set("a", "1"))
	assert.True(t, s.Has("a"))
	value, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func TestFileStore_PersistsAcrossReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.False(t, s.Has("entry"))
	require.NoError(t, s.Set("entry", "2024-01-01T10:00:00Z"))

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Has("entry"))
	value, err := reloaded.Get("entry")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T10:00:00Z", value)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	assert.False(t, s.Has("entry"))
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_SetRollsBackOnSaveFailure(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "state.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)

	// The temporary file cannot be created once the directory is gone.
	require.NoError(t, os.Remove(dir))

	assert.Error(t, s.Set("entry", "x"))
	assert.False(t, s.Has("entry"))
}
