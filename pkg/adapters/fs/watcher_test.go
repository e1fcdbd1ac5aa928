package fs_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/gather/pkg/adapters/fs"
)

func TestWatcher_ReportsMatchingChanges(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan []string, 10)

	w := fs.NewWatcher([]string{filepath.Join(dir, "**", "*.json")},
		func(ctx context.Context, paths []string) { changes <- paths },
		fs.WithDebounce(20*time.Millisecond),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))

	writeFile(t, filepath.Join(dir, "ignored.txt"), "x")
	writeFile(t, filepath.Join(dir, "jobs.json"), `{"id": "1"}`)

	select {
	case paths := <-changes:
		assert.Contains(t, paths, filepath.Join(dir, "jobs.json"))
		assert.NotContains(t, paths, filepath.Join(dir, "ignored.txt"))
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}

	state, ok := w.State().(fs.WatcherState)
	require.True(t, ok)
	assert.True(t, state.Active)
	assert.Equal(t, "watcher", w.ComponentType())

	cancel()
	select {
	case <-w.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_StartTwice(t *testing.T) {
	w := fs.NewWatcher([]string{filepath.Join(t.TempDir(), "*.json")},
		func(ctx context.Context, paths []string) {})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))
	assert.Error(t, w.Start(ctx))
}

func TestWatcher_NoRestartAfterStop(t *testing.T) {
	w := fs.NewWatcher([]string{filepath.Join(t.TempDir(), "*.json")},
		func(ctx context.Context, paths []string) {})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	cancel()
	select {
	case <-w.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop")
	}

	err := w.Start(context.Background())
	assert.ErrorIs(t, err, fs.ErrWatcherStopped)
	state := w.State().(fs.WatcherState)
	assert.False(t, state.Active)
}

func TestWatcher_Matches(t *testing.T) {
	w := fs.NewWatcher([]string{"data/**/*.yaml"}, nil)

	assert.True(t, w.Matches("data/a/b/jobs.yaml"))
	assert.True(t, w.Matches("data/jobs.yaml"))
	assert.False(t, w.Matches("data/jobs.json"))
	assert.False(t, w.Matches("other/jobs.yaml"))
}
