package vbranch

import (
	"errors"
	"fmt"
	"path"

	"github.com/tvandinther/gitvault/pkg/store"

	"github.com/go-git/go-git/v5/plumbing"
)

// TargetReader reads Target records back out of a store. Reads do not take
// the store lock and may observe a write in progress; callers needing a
// stable view coordinate through the lock themselves.
type TargetReader struct {
	reader *store.DirReader
}

func NewTargetReader(s *store.Store) *TargetReader {
	return &TargetReader{
		reader: s.Reader(),
	}
}

// ReadDefault returns the store's default target, or store.ErrNotFound when
// none has been written.
func (r *TargetReader) ReadDefault() (*Target, error) {
	return r.read("branches/target")
}

// Read returns the target for the given branch identifier, falling back to
// the default target when the branch has none of its own.
func (r *TargetReader) Read(id string) (*Target, error) {
	target, err := r.read(path.Join("branches", id, "target"))
	if errors.Is(err, store.ErrNotFound) {
		return r.ReadDefault()
	}
	return target, err
}

func (r *TargetReader) read(dir string) (*Target, error) {
	branchName, err := r.reader.ReadString(path.Join(dir, "branch_name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read target branch name: %w", err)
	}

	remoteName, err := r.reader.ReadString(path.Join(dir, "remote_name"))
	if err != nil {
		return nil, fmt.Errorf("failed to read target remote name: %w", err)
	}

	remoteURL, err := r.reader.ReadString(path.Join(dir, "remote_url"))
	if err != nil {
		return nil, fmt.Errorf("failed to read target remote url: %w", err)
	}

	sha, err := r.reader.ReadString(path.Join(dir, "sha"))
	if err != nil {
		return nil, fmt.Errorf("failed to read target sha: %w", err)
	}

	return &Target{
		BranchName: branchName,
		RemoteName: remoteName,
		RemoteURL:  remoteURL,
		SHA:        plumbing.NewHash(sha),
	}, nil
}
