package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by read operations when no value exists at the
// requested path.
var ErrNotFound = errors.New("not found")

// ErrNoSession is returned by session operations that require a current
// session when none is open.
var ErrNoSession = errors.New("no current session")

// DefaultScope identifies writes that are not scoped to a branch identifier.
const DefaultScope = "default"

// SessionError reports a failure to ensure a current session is open.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("failed to get or create current session: %v", e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// LockError reports a failure to acquire the store's exclusive lock.
type LockError struct {
	Err error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("failed to lock store: %v", e.Err)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// WriteError reports a failed field write, identifying the field and the
// scope (DefaultScope or a branch identifier) it belongs to.
type WriteError struct {
	Scope string
	Field string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write %s for scope %s: %v", e.Field, e.Scope, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
