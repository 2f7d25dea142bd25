package vbranch

import (
	"testing"

	"github.com/tvandinther/gitvault/pkg/store"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchRoundTrip(t *testing.T) {
	s := testStore(t)

	branch := testBranch()
	require.NoError(t, NewWriter(s).Write(branch))

	got, err := NewReader(s).Read(branch.ID)
	require.NoError(t, err)
	assert.Equal(t, branch, got)
}

func TestBranchReadNotFound(t *testing.T) {
	s := testStore(t)

	_, err := NewReader(s).Read("missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBranchListOrdersByOrder(t *testing.T) {
	s := testStore(t)
	writer := NewWriter(s)

	first := testBranch()
	first.Order = 2
	second := testBranch()
	second.Order = 1

	require.NoError(t, writer.Write(first))
	require.NoError(t, writer.Write(second))

	// The default target directory must not show up as a branch.
	require.NoError(t, NewTargetWriter(s).WriteDefault(&Target{
		BranchName: "main",
		RemoteName: "origin",
		RemoteURL:  "https://example.com/repo.git",
		SHA:        plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
	}))

	branches, err := NewReader(s).List()
	require.NoError(t, err)

	require.Len(t, branches, 2)
	assert.Equal(t, second.ID, branches[0].ID)
	assert.Equal(t, first.ID, branches[1].ID)
}

func TestBranchListEmptyStore(t *testing.T) {
	s := testStore(t)

	branches, err := NewReader(s).List()
	require.NoError(t, err)
	assert.Empty(t, branches)
}

func TestTargetReaderRoundTrip(t *testing.T) {
	s := testStore(t)

	target := &Target{
		BranchName: "main",
		RemoteName: "origin",
		RemoteURL:  "https://example.com/repo.git",
		SHA:        plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
	}
	require.NoError(t, NewTargetWriter(s).Write("branch_1", target))

	got, err := NewTargetReader(s).Read("branch_1")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestTargetReaderFallsBackToDefault(t *testing.T) {
	s := testStore(t)

	target := &Target{
		BranchName: "main",
		RemoteName: "origin",
		RemoteURL:  "https://example.com/repo.git",
		SHA:        plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
	}
	require.NoError(t, NewTargetWriter(s).WriteDefault(target))

	got, err := NewTargetReader(s).Read("branch_without_own_target")
	require.NoError(t, err)
	assert.Equal(t, target, got)
}

func TestTargetReaderNotFound(t *testing.T) {
	s := testStore(t)

	_, err := NewTargetReader(s).ReadDefault()
	assert.ErrorIs(t, err, store.ErrNotFound)
}
