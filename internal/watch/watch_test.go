package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchFiltersEvents(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "src.yaml")
	w, err := New([]string{watched}, nil)
	require.NoError(t, err)
	defer w.watcher.Close()

	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: watched, Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: watched, Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: watched, Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: watched, Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: filepath.Join(dir, "other.yaml"), Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		_, got := w.match(tt.event)
		assert.Equal(t, tt.want, got, tt.event.String())
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "file.md")}, nil)
	assert.Error(t, err)
}

func TestRunReportsChanges(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "src.yaml")
	require.NoError(t, os.WriteFile(watched, []byte("a: 1\n"), 0644))

	w, err := New([]string{watched}, nil)
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []string, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(paths []string) {
			select {
			case got <- paths:
			default:
			}
			cancel()
		})
	}()

	timeout := time.After(5 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case paths := <-got:
			abs, _ := filepath.Abs(watched)
			assert.Equal(t, []string{abs}, paths)
			require.NoError(t, <-done)
			return
		case <-ticker.C:
			require.NoError(t, os.WriteFile(watched, []byte("a: 2\n"), 0644))
			require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))
		case <-timeout:
			t.Fatal("no change reported before timeout")
		}
	}
}

func TestRunTwice(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "f")}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx, func([]string) {}))
	assert.Error(t, w.Run(ctx, func([]string) {}))
}
