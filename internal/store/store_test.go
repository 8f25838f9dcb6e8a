package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "store.json"), nil)
	require.NoError(t, err)
	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.True(t, s.Set("key", payload{Name: "spx", Count: 3}))

	var got payload
	require.True(t, s.Get("key", &got))
	assert.Equal(t, "spx", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestGet_MissingKey(t *testing.T) {
	s := newTestStore(t)

	var got string
	assert.False(t, s.Get("absent", &got))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Set("key", "value"))
	assert.True(t, s.Delete("key"))
	assert.False(t, s.Delete("key"), "second delete reports the key was absent")

	var got string
	assert.False(t, s.Get("key", &got))
}

func TestPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	first, err := New(path, nil)
	require.NoError(t, err)
	require.True(t, first.Set("key", 42))

	second, err := New(path, nil)
	require.NoError(t, err)

	var got int
	require.True(t, second.Get("key", &got))
	assert.Equal(t, 42, got)
}

func TestNew_CorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s, err := New(path, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Keys())

	// The store is still writable after recovery
	assert.True(t, s.Set("key", "value"))
}

func TestNew_MissingFile(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "nope", "store.json"), nil)
	require.NoError(t, err)
	assert.Empty(t, s.Keys())

	// First Set creates the parent directory
	assert.True(t, s.Set("key", "value"))
}

func TestKeys(t *testing.T) {
	s := newTestStore(t)

	require.True(t, s.Set("a", 1))
	require.True(t, s.Set("b", 2))
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}
