package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tvandinther/gitvault/internal/util"

	"github.com/stretchr/testify/require"
)

func TestWatcherBatchesBurstIntoOneCallback(t *testing.T) {
	tempfs, err := util.NewTempFS()
	require.NoError(t, err)
	t.Cleanup(func() { tempfs.Clear() })

	dir, err := tempfs.Mkdir("store")
	require.NoError(t, err)

	var calls atomic.Int64
	fired := make(chan []string, 1)

	w := New(dir, func(paths []string) {
		calls.Add(1)
		select {
		case fired <- paths:
		default:
		}
	}, &Options{Debounce: 100 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Watch(ctx)
		close(done)
	}()

	// Give the watcher time to install its watches.
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "field"), []byte("value"), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a callback after the burst settled")
	}

	// The burst settled within one debounce window, so exactly one callback.
	time.Sleep(300 * time.Millisecond)
	require.EqualValues(t, 1, calls.Load())

	cancel()
	<-done
}

func TestWatcherIgnoresGitAndLock(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))

	fired := make(chan []string, 1)
	w := New(dir, func(paths []string) {
		select {
		case fired <- paths:
		default:
		}
	}, &Options{Debounce: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Watch(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lock"), []byte("{}"), 0o644))

	select {
	case paths := <-fired:
		t.Fatalf("expected no callback for ignored paths, got %v", paths)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	dir := t.TempDir()

	fired := make(chan []string, 4)
	w := New(dir, func(paths []string) {
		fired <- paths
	}, &Options{Debounce: 50 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		w.Watch(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "branches", "branch_1", "target"), 0o755))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a callback for the new directory")
	}

	// A write inside the new directory must also be seen.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "branches", "branch_1", "target", "sha"), []byte("abc"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a callback for the nested write")
	}

	cancel()
	<-done
}
