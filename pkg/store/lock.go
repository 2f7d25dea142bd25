package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"
	"time"
)

// LockFileName is the name of the lock file at the store root.
const LockFileName = ".lock"

const defaultLockRetryInterval = 50 * time.Millisecond

// A holder that crashed between creating the lock file and writing its info
// leaves an unparsable file behind. Such a file is removed once it is old
// enough that a live holder cannot still be mid-write.
const corruptLockGraceAge = time.Second

type lockInfo struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// fileLock is an exclusive store-wide lock backed by a lock file created with
// O_EXCL. Acquisition blocks until the file can be created; lock files left
// behind by dead processes are treated as stale and removed.
type fileLock struct {
	path          string
	retryInterval time.Duration
}

func newFileLock(path string, retryInterval time.Duration) *fileLock {
	if retryInterval <= 0 {
		retryInterval = defaultLockRetryInterval
	}
	return &fileLock{
		path:          path,
		retryInterval: retryInterval,
	}
}

// Acquire blocks until the lock is held by the calling process. It is not
// reentrant: a second Acquire from the holder blocks until Release.
func (l *fileLock) Acquire() error {
	for {
		acquired, err := l.tryAcquire()
		if err != nil {
			return err
		}
		if acquired {
			return nil
		}
		time.Sleep(l.retryInterval)
	}
}

func (l *fileLock) tryAcquire() (bool, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	info := lockInfo{
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now(),
	}

	data, err := json.Marshal(info)
	if err != nil {
		return false, fmt.Errorf("failed to marshal lock info: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if !os.IsExist(err) {
			return false, fmt.Errorf("failed to create lock file: %w", err)
		}

		holder, readErr := l.read()
		if readErr != nil {
			if os.IsNotExist(readErr) {
				// Holder released between our attempt and the read; retry.
				return false, nil
			}
			// An unreadable or truncated lock file has no recoverable holder.
			// Treat it like a dead one once it is past the grace age.
			if stat, statErr := os.Stat(l.path); statErr == nil && time.Since(stat.ModTime()) >= corruptLockGraceAge {
				slog.Warn("removing corrupt lock", "path", l.path, "error", readErr)
				if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
					return false, fmt.Errorf("failed to remove corrupt lock: %w", removeErr)
				}
			}
			return false, nil
		}
		if holder.PID != os.Getpid() && !isProcessAlive(holder.PID) {
			slog.Warn("removing stale lock", "path", l.path, "pid", holder.PID)
			if removeErr := os.Remove(l.path); removeErr != nil && !os.IsNotExist(removeErr) {
				return false, fmt.Errorf("failed to remove stale lock: %w", removeErr)
			}
		}
		return false, nil
	}
	defer f.Close()

	_, err = f.Write(data)
	if err != nil {
		os.Remove(l.path)
		return false, fmt.Errorf("failed to write lock file: %w", err)
	}

	return true, nil
}

// Release removes the lock file. Releasing a lock that is not held is not an
// error.
func (l *fileLock) Release() error {
	holder, err := l.read()
	if err != nil {
		return nil
	}
	if holder.PID != os.Getpid() {
		return fmt.Errorf("lock is held by pid %d on %s", holder.PID, holder.Hostname)
	}

	err = os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}

	return nil
}

func (l *fileLock) read() (*lockInfo, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}

	var info lockInfo
	err = json.Unmarshal(data, &info)
	if err != nil {
		return nil, fmt.Errorf("failed to parse lock file: %w", err)
	}

	return &info, nil
}

// Sending signal 0 checks process existence without affecting it. EPERM means
// the process exists but belongs to another user.
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
