package localstorage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.GetItem("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem("greeting", "hello"))
	value, ok, err := s.GetItem("greeting")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hello", value)

	require.NoError(t, s.SetItem("greeting", "bye"))
	value, _, err = s.GetItem("greeting")
	require.NoError(t, err)
	assert.Equal(t, "bye", value)

	require.NoError(t, s.RemoveItem("greeting"))
	_, ok, err = s.GetItem("greeting")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, s.RemoveItem("never-set"))
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.json")
	s, err := NewFileStorage(path)
	require.NoError(t, err)

	exerciseStorage(t, s)
	assert.Equal(t, path, s.Path())
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	first, err := NewFileStorage(path)
	require.NoError(t, err)
	require.NoError(t, first.SetItem("key", `[{"id":"1"}]`))

	second, err := NewFileStorage(path)
	require.NoError(t, err)
	value, ok, err := second.GetItem("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, value)
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := NewFileStorage(path)
	require.NoError(t, err)

	value, ok, err := s.GetItem("key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, value)

	require.NoError(t, s.SetItem("key", "value"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"value"}`, string(data))

	value, ok, err = s.GetItem("key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "value", value)
}

func TestOpen(t *testing.T) {
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	s, err = Open(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, s)

	_, err = Open("")
	assert.Error(t, err)
}
