package vbranch

import (
	"log/slog"
	"path"

	"github.com/tvandinther/gitvault/pkg/store"
)

// StringWriter writes a string value at a path relative to the store root.
type StringWriter interface {
	WriteString(relativePath string, content string) error
}

// TargetWriter persists Target records into a store. Each write ensures a
// session is open, then performs its field writes under the store's exclusive
// lock. Field writes are sequential and best-effort: the first failure aborts
// the rest, already-written fields stay written, and the lock is released on
// every exit path.
type TargetWriter struct {
	store  *store.Store
	writer StringWriter
}

func NewTargetWriter(s *store.Store) *TargetWriter {
	return &TargetWriter{
		store:  s,
		writer: s.Writer(),
	}
}

// WriteDefault persists the store's singleton default target at
// branches/target/.
func (w *TargetWriter) WriteDefault(target *Target) error {
	return w.write(store.DefaultScope, "branches/target", target)
}

// Write persists the target for the given branch identifier at
// branches/{id}/target/. The identifier is opaque and not validated.
func (w *TargetWriter) Write(id string, target *Target) error {
	return w.write(id, path.Join("branches", id, "target"), target)
}

func (w *TargetWriter) write(scope, dir string, target *Target) error {
	_, err := w.store.GetOrCreateCurrentSession()
	if err != nil {
		return &store.SessionError{Err: err}
	}

	err = w.store.Lock()
	if err != nil {
		return &store.LockError{Err: err}
	}
	defer func() {
		if err := w.store.Unlock(); err != nil {
			slog.Error("failed to unlock store", "error", err)
		}
	}()

	fields := []struct {
		name  string
		value string
	}{
		{"branch_name", target.BranchName},
		{"remote_name", target.RemoteName},
		{"remote_url", target.RemoteURL},
		{"sha", target.SHA.String()},
	}

	for _, field := range fields {
		err = w.writer.WriteString(path.Join(dir, field.name), field.value)
		if err != nil {
			return &store.WriteError{Scope: scope, Field: field.name, Err: err}
		}
	}

	return nil
}
