package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// DirWriter maps relative paths onto files beneath a root directory. Content
// is written byte-exact with no added framing, creating parent directories as
// needed and overwriting whatever was there before.
type DirWriter struct {
	root string
}

func NewDirWriter(root string) *DirWriter {
	return &DirWriter{root: root}
}

func (w *DirWriter) Root() string {
	return w.root
}

func (w *DirWriter) WriteString(relativePath string, content string) error {
	absolutePath := filepath.Join(w.root, filepath.FromSlash(relativePath))

	err := os.MkdirAll(filepath.Dir(absolutePath), os.ModePerm)
	if err != nil {
		return fmt.Errorf("failed to make parent directory: %w", err)
	}

	err = os.WriteFile(absolutePath, []byte(content), 0o644)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	slog.Debug("wrote value", "path", relativePath, "bytes", len(content))

	return nil
}

// Remove deletes the file or directory tree at the relative path. Removing a
// path that does not exist is not an error.
func (w *DirWriter) Remove(relativePath string) error {
	absolutePath := filepath.Join(w.root, filepath.FromSlash(relativePath))

	err := os.RemoveAll(absolutePath)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", relativePath, err)
	}

	return nil
}
