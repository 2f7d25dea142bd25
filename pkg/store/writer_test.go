package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirWriterWriteString(t *testing.T) {
	root := t.TempDir()
	writer := NewDirWriter(root)

	err := writer.WriteString("branches/target/branch_name", "main")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "branches", "target", "branch_name"))
	require.NoError(t, err)
	assert.Equal(t, "main", string(data))
}

func TestDirWriterWritesExactBytes(t *testing.T) {
	root := t.TempDir()
	writer := NewDirWriter(root)

	content := "with\nnewlines\nand no trailing delimiter"
	err := writer.WriteString("value", content)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "value"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestDirWriterOverwrites(t *testing.T) {
	root := t.TempDir()
	writer := NewDirWriter(root)

	require.NoError(t, writer.WriteString("field", "long original value"))
	require.NoError(t, writer.WriteString("field", "short"))

	data, err := os.ReadFile(filepath.Join(root, "field"))
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}

func TestDirReaderReadString(t *testing.T) {
	root := t.TempDir()
	writer := NewDirWriter(root)
	reader := NewDirReader(root)

	require.NoError(t, writer.WriteString("branches/id/target/sha", "0123456789abcdef0123456789abcdef01234567"))

	value, err := reader.ReadString("branches/id/target/sha")
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", value)
}

func TestDirReaderNotFound(t *testing.T) {
	reader := NewDirReader(t.TempDir())

	_, err := reader.ReadString("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDirReaderListDirs(t *testing.T) {
	root := t.TempDir()
	writer := NewDirWriter(root)
	reader := NewDirReader(root)

	require.NoError(t, writer.WriteString("branches/branch_1/meta/name", "one"))
	require.NoError(t, writer.WriteString("branches/branch_2/meta/name", "two"))
	require.NoError(t, writer.WriteString("branches/target/branch_name", "main"))

	dirs, err := reader.ListDirs("branches")
	require.NoError(t, err)
	assert.Equal(t, []string{"branch_1", "branch_2", "target"}, dirs)
}

func TestDirWriterRemoveMissingPath(t *testing.T) {
	writer := NewDirWriter(t.TempDir())

	assert.NoError(t, writer.Remove("does/not/exist"))
}
