package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLock(t *testing.T) *fileLock {
	t.Helper()
	return newFileLock(filepath.Join(t.TempDir(), LockFileName), time.Millisecond)
}

func TestLockAcquireRelease(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, lock.Acquire())

	_, err := os.Stat(lock.path)
	assert.NoError(t, err, "lock file should exist while held")

	require.NoError(t, lock.Release())

	_, err = os.Stat(lock.path)
	assert.True(t, os.IsNotExist(err), "lock file should be gone after release")
}

func TestLockReacquireAfterRelease(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
	require.NoError(t, lock.Acquire())
	require.NoError(t, lock.Release())
}

func TestLockBlocksUntilReleased(t *testing.T) {
	lock := testLock(t)

	require.NoError(t, lock.Acquire())

	acquired := make(chan struct{})
	go func() {
		second := newFileLock(lock.path, time.Millisecond)
		if err := second.Acquire(); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire should block while the lock is held")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, lock.Release())

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire should succeed after release")
	}
}

func TestLockCleansStaleLock(t *testing.T) {
	lock := testLock(t)

	// A lock held by a process that no longer exists is stale.
	stale, err := json.Marshal(lockInfo{
		PID:        1 << 22,
		Hostname:   "elsewhere",
		AcquiredAt: time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(lock.path, stale, 0o644))

	done := make(chan error, 1)
	go func() {
		done <- lock.Acquire()
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("acquire should clean the stale lock and proceed")
	}

	require.NoError(t, lock.Release())
}

func TestLockCleansCorruptLock(t *testing.T) {
	lock := testLock(t)

	// A crash between creating the lock file and writing its info leaves an
	// empty file with no holder to check for liveness.
	require.NoError(t, os.WriteFile(lock.path, nil, 0o644))
	old := time.Now().Add(-time.Minute)
	require.NoError(t, os.Chtimes(lock.path, old, old))

	done := make(chan error, 1)
	go func() {
		done <- lock.Acquire()
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire should clean the corrupt lock and proceed")
	}

	require.NoError(t, lock.Release())
}

func TestLockKeepsFreshCorruptLock(t *testing.T) {
	lock := testLock(t)

	// A just-created empty file may be a live holder mid-write; it is only
	// removed once past the grace age.
	require.NoError(t, os.WriteFile(lock.path, nil, 0o644))

	acquired, err := lock.tryAcquire()
	require.NoError(t, err)
	assert.False(t, acquired)

	_, err = os.Stat(lock.path)
	assert.NoError(t, err, "fresh unparsable lock file should be left in place")
}

func TestLockReleaseWhenNotHeld(t *testing.T) {
	lock := testLock(t)

	assert.NoError(t, lock.Release())
}
