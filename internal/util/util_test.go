package util

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempFSMkdirAndClear(t *testing.T) {
	tempfs, err := NewTempFS()
	require.NoError(t, err)

	dir, err := tempfs.Mkdir("a", "b")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempfs.Root, "a", "b"), dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, tempfs.Clear())

	_, err = os.Stat(tempfs.Root)
	assert.True(t, os.IsNotExist(err))
}

func TestMap(t *testing.T) {
	out := Map([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, out)
}
