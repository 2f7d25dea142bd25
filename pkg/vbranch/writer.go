package vbranch

import (
	"fmt"
	"log/slog"
	"path"
	"strconv"

	"github.com/tvandinther/gitvault/pkg/store"
)

// Writer persists Branch metadata with the same session and lock protocol as
// TargetWriter. The two write to disjoint path suffixes (meta/ and target/)
// under the same branch directory.
type Writer struct {
	store  *store.Store
	writer StringWriter
}

func NewWriter(s *store.Store) *Writer {
	return &Writer{
		store:  s,
		writer: s.Writer(),
	}
}

func (w *Writer) Write(branch *Branch) error {
	if branch.ID == "" {
		return fmt.Errorf("branch id is required")
	}

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

	dir := path.Join("branches", branch.ID, "meta")

	fields := []struct {
		name  string
		value string
	}{
		{"name", branch.Name},
		{"applied", strconv.FormatBool(branch.Applied)},
		{"upstream", branch.Upstream},
		{"created_timestamp_ms", strconv.FormatInt(branch.CreatedTimestampMS, 10)},
		{"updated_timestamp_ms", strconv.FormatInt(branch.UpdatedTimestampMS, 10)},
		{"head", branch.Head.String()},
		{"tree", branch.Tree.String()},
		{"ownership", branch.Ownership.String()},
		{"order", strconv.Itoa(branch.Order)},
	}

	for _, field := range fields {
		err = w.writer.WriteString(path.Join(dir, field.name), field.value)
		if err != nil {
			return &store.WriteError{Scope: branch.ID, Field: field.name, Err: err}
		}
	}

	return nil
}
