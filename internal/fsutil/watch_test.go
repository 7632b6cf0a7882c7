package fsutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changes struct {
	mu    sync.Mutex
	calls [][]string
}

func (c *changes) record(changed []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, changed)
}

func (c *changes) snapshot() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.calls...)
}

func TestWatch_DebouncesDirectoryChanges(t *testing.T) {
	t.Parallel()
	// Arrange
	dir := t.TempDir()
	var got changes
	w, err := Watch(context.Background(), []string{dir}, ".hcl", 50*time.Millisecond, got.record)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Act
	a := filepath.Join(dir, "a.hcl")
	b := filepath.Join(dir, "b.hcl")
	require.NoError(t, os.WriteFile(a, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("y"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("z"), 0o600))

	// Assert
	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	var seen []string
	for _, call := range got.snapshot() {
		seen = append(seen, call...)
	}
	assert.Contains(t, seen, a)
	assert.Contains(t, seen, b)
	assert.NotContains(t, seen, filepath.Join(dir, "notes.txt"))
}

func TestWatch_SingleFile(t *testing.T) {
	t.Parallel()
	// Arrange
	dir := t.TempDir()
	target := filepath.Join(dir, "library.hcl")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	var got changes
	w, err := Watch(context.Background(), []string{target}, ".hcl", 20*time.Millisecond, got.record)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// Act
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.hcl"), []byte("y"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("z"), 0o600))

	// Assert
	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 }, 2*time.Second, 10*time.Millisecond)
	for _, call := range got.snapshot() {
		assert.Equal(t, []string{target}, call)
	}
}

func TestWatch_MissingPath(t *testing.T) {
	t.Parallel()
	_, err := Watch(context.Background(), []string{filepath.Join(t.TempDir(), "absent")}, ".hcl", time.Millisecond, func([]string) {})
	assert.ErrorContains(t, err, "failed to watch")
}

func TestWatch_CloseIsIdempotent(t *testing.T) {
	t.Parallel()
	w, err := Watch(context.Background(), []string{t.TempDir()}, ".hcl", time.Millisecond, func([]string) {})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "b.hcl"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), nil, 0o600))

	files, err := FindFilesByExtension(dir, ".hcl")

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.hcl"), filepath.Join(dir, "nested", "b.hcl")}, files)
}
