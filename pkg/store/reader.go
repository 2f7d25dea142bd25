package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirReader is the read-side counterpart of DirWriter. Reads do not take the
// store lock; callers that need a consistent multi-field view must hold it
// themselves.
type DirReader struct {
	root string
}

func NewDirReader(root string) *DirReader {
	return &DirReader{root: root}
}

func (r *DirReader) ReadString(relativePath string) (string, error) {
	absolutePath := filepath.Join(r.root, filepath.FromSlash(relativePath))

	data, err := os.ReadFile(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	return string(data), nil
}

func (r *DirReader) Exists(relativePath string) bool {
	absolutePath := filepath.Join(r.root, filepath.FromSlash(relativePath))

	_, err := os.Stat(absolutePath)

	return err == nil
}

// ListDirs returns the names of directories directly beneath the relative
// path, in lexical order.
func (r *DirReader) ListDirs(relativePath string) ([]string, error) {
	absolutePath := filepath.Join(r.root, filepath.FromSlash(relativePath))

	entries, err := os.ReadDir(absolutePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}
