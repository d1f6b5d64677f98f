package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	prompt := "You are Hitesh.\nSpeak Hinglish.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hitesh.txt"), []byte(prompt), 0o644))

	s := NewStore(dir, DefaultCatalog(testDefaults))

	got, err := s.Load("hitesh")
	require.NoError(t, err)
	assert.Equal(t, prompt, got, "newlines are preserved")

	// cached: deleting the file does not matter any more
	require.NoError(t, os.Remove(filepath.Join(dir, "hitesh.txt")))
	got, err = s.Load("hitesh")
	require.NoError(t, err)
	assert.Equal(t, prompt, got)
}

func TestStore_NotFound(t *testing.T) {
	s := NewStore(t.TempDir(), DefaultCatalog(testDefaults))

	_, err := s.Load("unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	// declared but no prompt file
	_, err = s.Load("piyush")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_UnreadableIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	// a directory where the prompt file should be
	require.NoError(t, os.Mkdir(filepath.Join(dir, "hitesh.txt"), 0o755))

	s := NewStore(dir, DefaultCatalog(testDefaults))
	_, err := s.Load("hitesh")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestStore_Warm(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hitesh.txt"), []byte("h"), 0o644))

	s := NewStore(dir, DefaultCatalog(testDefaults))
	assert.ErrorIs(t, s.Warm(), ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "piyush.txt"), []byte("p"), 0o644))
	assert.NoError(t, s.Warm())
}
