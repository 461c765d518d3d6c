package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"filechooser/internal/errors"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStarted(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := New(WithDebounce(50 * time.Millisecond))
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	// Allow a brief moment for fsnotify to initialize watches
	time.Sleep(50 * time.Millisecond)
	return w
}

func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c, ok := <-w.Changes():
		require.True(t, ok, "changes channel closed")
		return c
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change")
	}
	return Change{}
}

func TestWatcherReportsCreate(t *testing.T) {
	dir := t.TempDir()
	w := newStarted(t, dir)
	assert.True(t, w.IsRunning())
	assert.Equal(t, dir, w.Dir())

	path := filepath.Join(dir, "new.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	c := waitChange(t, w)
	assert.Equal(t, dir, c.Dir)
	assert.Contains(t, c.Paths, path)
	assert.True(t, c.Op.Has(fsnotify.Create))
	assert.False(t, c.Timestamp.IsZero())
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w := newStarted(t, dir)

	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(rune('a'+i))), nil, 0644))
	}

	c := waitChange(t, w)
	assert.Len(t, c.Paths, 10)

	select {
	case extra := <-w.Changes():
		t.Fatalf("unexpected second change: %+v", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherFollowsOneDirectory(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	w := newStarted(t, first)

	require.NoError(t, w.Watch(second))
	assert.Equal(t, second, w.Dir())
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(first, "old.txt"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(second, "cur.txt"), nil, 0644))

	c := waitChange(t, w)
	assert.Equal(t, second, c.Dir)
	assert.Equal(t, []string{filepath.Join(second, "cur.txt")}, c.Paths)
}

func TestWatchRejectsNonDirectories(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	defer w.Stop()

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	for _, p := range []string{file, filepath.Join(t.TempDir(), "missing")} {
		err := w.Watch(p)
		require.Error(t, err)
		assert.True(t, errors.IsNotADirectory(err))
	}
	assert.Empty(t, w.Dir())
}

func TestStartStopLifecycle(t *testing.T) {
	w, err := New()
	require.NoError(t, err)

	require.NoError(t, w.Start())
	assert.Error(t, w.Start(), "double start")

	w.Stop()
	assert.False(t, w.IsRunning())
	w.Stop()

	_, ok := <-w.Changes()
	assert.False(t, ok, "changes closed after stop")
	assert.Error(t, w.Start(), "restart after stop")
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New()
	require.NoError(t, err)
	w.Stop()
	_, ok := <-w.Changes()
	assert.False(t, ok)
}
