package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	igit "github.com/tvandinther/gitvault/internal/git"

	"github.com/go-git/go-git/v5"
)

// Store is a directory tree of field files backed by a git repository. Every
// mutation happens under the store's exclusive lock and inside a session, so
// that flushing a session snapshots a consistent tree into history.
type Store struct {
	root   string
	repo   *git.Repository
	author *igit.Author
	lock   *fileLock
	writer *DirWriter
	reader *DirReader

	lockRetryInterval time.Duration
}

func Open(root string, opts ...func(*Store)) (*Store, error) {
	s := &Store{
		root: root,
		author: &igit.Author{
			Name:  "gitvault",
			Email: "gitvault@localhost",
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	err := os.MkdirAll(root, os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("failed to make store root: %w", err)
	}

	err = ensureIgnoreFile(root)
	if err != nil {
		return nil, err
	}

	repo, err := igit.OpenOrInit(root, s.author)
	if err != nil {
		return nil, fmt.Errorf("failed to open store repository: %w", err)
	}

	s.repo = repo
	s.lock = newFileLock(filepath.Join(root, LockFileName), s.lockRetryInterval)
	s.writer = NewDirWriter(root)
	s.reader = NewDirReader(root)

	return s, nil
}

func WithAuthor(author *igit.Author) func(*Store) {
	return func(s *Store) {
		s.author = author
	}
}

func WithLockRetryInterval(interval time.Duration) func(*Store) {
	return func(s *Store) {
		s.lockRetryInterval = interval
	}
}

func (s *Store) Root() string {
	return s.root
}

func (s *Store) Writer() *DirWriter {
	return s.writer
}

func (s *Store) Reader() *DirReader {
	return s.reader
}

// Lock acquires the store-wide exclusive lock, blocking until it is held.
// Callers must pair every Lock with an Unlock on all exit paths.
func (s *Store) Lock() error {
	return s.lock.Acquire()
}

func (s *Store) Unlock() error {
	return s.lock.Release()
}

// Push replicates the store's history to the named remote at the given URL.
func (s *Store) Push(remoteName, remoteURL string) error {
	err := igit.EnsureRemote(s.repo, remoteName, remoteURL)
	if err != nil {
		return err
	}

	head, err := s.repo.Head()
	if err != nil {
		return fmt.Errorf("failed to get store HEAD: %w", err)
	}

	return igit.Push(s.repo, remoteName, head.Name())
}

// The lock file lives inside the store root but must never be captured in a
// session snapshot.
func ensureIgnoreFile(root string) error {
	ignorePath := filepath.Join(root, ".gitignore")
	_, err := os.Stat(ignorePath)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat ignore file: %w", err)
	}

	err = os.WriteFile(ignorePath, []byte(LockFileName+"\n"), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write ignore file: %w", err)
	}

	return nil
}
