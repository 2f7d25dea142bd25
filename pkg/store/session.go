package store

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	igit "github.com/tvandinther/gitvault/internal/git"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/google/uuid"
)

const (
	sessionMetaDir   = "session/meta"
	sessionIDPath    = sessionMetaDir + "/id"
	sessionStartPath = sessionMetaDir + "/start_timestamp_ms"
	sessionLastPath  = sessionMetaDir + "/last_timestamp_ms"
)

// Session is the unit of work mutations are grouped under. Exactly one
// session is current at a time; flushing commits its tree into history and
// retires it.
type Session struct {
	ID               string
	StartTimestampMS int64
	LastTimestampMS  int64
}

// GetOrCreateCurrentSession returns the current session, opening a new one if
// none exists. It is idempotent and safe against concurrent callers.
func (s *Store) GetOrCreateCurrentSession() (*Session, error) {
	err := s.Lock()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := s.Unlock(); err != nil {
			slog.Error("failed to unlock store", "error", err)
		}
	}()

	session, err := s.readCurrentSession()
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, ErrNoSession) {
		return nil, err
	}

	now := time.Now().UnixMilli()
	session = &Session{
		ID:               uuid.NewString(),
		StartTimestampMS: now,
		LastTimestampMS:  now,
	}

	slog.Debug("opening session", "id", session.ID)

	err = s.writer.WriteString(sessionIDPath, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to write session id: %w", err)
	}
	err = s.writer.WriteString(sessionStartPath, strconv.FormatInt(session.StartTimestampMS, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to write session start timestamp: %w", err)
	}
	err = s.writer.WriteString(sessionLastPath, strconv.FormatInt(session.LastTimestampMS, 10))
	if err != nil {
		return nil, fmt.Errorf("failed to write session last timestamp: %w", err)
	}

	return session, nil
}

// CurrentSession returns the current session, or ErrNoSession if none is
// open.
func (s *Store) CurrentSession() (*Session, error) {
	return s.readCurrentSession()
}

func (s *Store) readCurrentSession() (*Session, error) {
	id, err := s.reader.ReadString(sessionIDPath)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}

	start, err := s.readTimestamp(sessionStartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session start timestamp: %w", err)
	}

	last, err := s.readTimestamp(sessionLastPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read session last timestamp: %w", err)
	}

	return &Session{
		ID:               id,
		StartTimestampMS: start,
		LastTimestampMS:  last,
	}, nil
}

func (s *Store) readTimestamp(relativePath string) (int64, error) {
	value, err := s.reader.ReadString(relativePath)
	if err != nil {
		return 0, err
	}

	timestamp, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return timestamp, nil
}

// TouchSession advances the current session's last-activity timestamp.
func (s *Store) TouchSession() error {
	err := s.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := s.Unlock(); err != nil {
			slog.Error("failed to unlock store", "error", err)
		}
	}()

	_, err = s.readCurrentSession()
	if err != nil {
		return err
	}

	return s.writer.WriteString(sessionLastPath, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// FlushSession commits the store tree, including the session record that
// produced it, and retires the current session. The next mutation opens a
// fresh one.
func (s *Store) FlushSession() (plumbing.Hash, error) {
	err := s.Lock()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	defer func() {
		if err := s.Unlock(); err != nil {
			slog.Error("failed to unlock store", "error", err)
		}
	}()

	session, err := s.readCurrentSession()
	if err != nil {
		return plumbing.ZeroHash, err
	}

	wt, err := s.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get worktree: %w", err)
	}

	objectCount, err := igit.StageAll(wt)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	slog.Debug("flushing session", "id", session.ID, "objectCount", objectCount)

	subject := fmt.Sprintf("Session %s", session.ID)
	body := fmt.Sprintf("Flushed %d objects", objectCount)
	err = igit.Commit(s.repo, wt, s.author, subject, body, true)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to commit session: %w", err)
	}

	err = s.writer.Remove(sessionMetaDir)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to retire session: %w", err)
	}

	head, err := s.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to get store HEAD: %w", err)
	}

	return head.Hash(), nil
}
