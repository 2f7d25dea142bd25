package vbranch

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// Target records the upstream remote branch a virtual branch integrates
// against: the remote, the branch on it, and the last commit seen there.
type Target struct {
	BranchName string
	RemoteName string
	RemoteURL  string
	SHA        plumbing.Hash

	// Behind counts commits the local branch lags the upstream by. It is
	// computed against the upstream on read and never persisted.
	Behind int
}
