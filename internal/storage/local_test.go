package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalStore(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		tempDir := filepath.Join(t.TempDir(), "uploads")

		store, err := NewLocalStore(tempDir)
		require.NoError(t, err)
		assert.Equal(t, tempDir, store.TempDir())

		info, err := os.Stat(tempDir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		store, err := NewLocalStore("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(os.TempDir(), "serviceonboard"), store.TempDir())
	})
}

func TestLocalStore_SaveTemp(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("saves data and keeps extension", func(t *testing.T) {
		path, err := store.SaveTemp(context.Background(), "garage.jpg", bytes.NewReader([]byte("image bytes")))
		require.NoError(t, err)

		assert.Equal(t, ".jpg", filepath.Ext(path))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "image bytes", string(content))
	})

	t.Run("sanitizes hostile filenames", func(t *testing.T) {
		path, err := store.SaveTemp(context.Background(), "../../etc/passwd", bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		assert.Equal(t, store.TempDir(), filepath.Dir(path))
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := store.SaveTemp(ctx, "late.jpg", bytes.NewReader([]byte("x")))
		assert.Error(t, err)
	})
}

func TestLocalStore_Remove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.SaveTemp(context.Background(), "a.png", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	// Removing an already-removed file is a no-op.
	assert.NoError(t, store.Remove(path))
}

func TestLocalStore_Cleanup(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	var paths []string
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		p, err := store.SaveTemp(context.Background(), name, bytes.NewReader([]byte("x")))
		require.NoError(t, err)
		paths = append(paths, p)
	}

	// Mix in a path that is already gone.
	paths = append(paths, filepath.Join(store.TempDir(), "ghost.jpg"))

	require.NoError(t, store.Cleanup(context.Background(), paths))
	for _, p := range paths {
		_, statErr := os.Stat(p)
		assert.True(t, os.IsNotExist(statErr), p)
	}
}
