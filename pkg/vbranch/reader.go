package vbranch

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strconv"

	"github.com/tvandinther/gitvault/pkg/store"

	"github.com/go-git/go-git/v5/plumbing"
)

// Reader reads Branch metadata back out of a store.
type Reader struct {
	reader *store.DirReader
}

func NewReader(s *store.Store) *Reader {
	return &Reader{
		reader: s.Reader(),
	}
}

// Read returns the branch with the given identifier, or store.ErrNotFound if
// no metadata has been written for it.
func (r *Reader) Read(id string) (*Branch, error) {
	dir := path.Join("branches", id, "meta")

	name, err := r.reader.ReadString(path.Join(dir, "name"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read branch name: %w", err)
	}

	branch := &Branch{
		ID:   id,
		Name: name,
	}

	applied, err := r.reader.ReadString(path.Join(dir, "applied"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch applied: %w", err)
	}
	branch.Applied, err = strconv.ParseBool(applied)
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch applied: %w", err)
	}

	branch.Upstream, err = r.reader.ReadString(path.Join(dir, "upstream"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch upstream: %w", err)
	}

	branch.CreatedTimestampMS, err = r.readTimestamp(path.Join(dir, "created_timestamp_ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch created timestamp: %w", err)
	}

	branch.UpdatedTimestampMS, err = r.readTimestamp(path.Join(dir, "updated_timestamp_ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch updated timestamp: %w", err)
	}

	head, err := r.reader.ReadString(path.Join(dir, "head"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch head: %w", err)
	}
	branch.Head = plumbing.NewHash(head)

	tree, err := r.reader.ReadString(path.Join(dir, "tree"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch tree: %w", err)
	}
	branch.Tree = plumbing.NewHash(tree)

	ownership, err := r.reader.ReadString(path.Join(dir, "ownership"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch ownership: %w", err)
	}
	branch.Ownership, err = ParseOwnership(ownership)
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch ownership: %w", err)
	}

	order, err := r.reader.ReadString(path.Join(dir, "order"))
	if err != nil {
		return nil, fmt.Errorf("failed to read branch order: %w", err)
	}
	branch.Order, err = strconv.Atoi(order)
	if err != nil {
		return nil, fmt.Errorf("failed to parse branch order: %w", err)
	}

	return branch, nil
}

// List returns every branch with metadata in the store, ordered by their
// Order field.
func (r *Reader) List() ([]*Branch, error) {
	ids, err := r.reader.ListDirs("branches")
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list branch directories: %w", err)
	}

	branches := make([]*Branch, 0, len(ids))
	for _, id := range ids {
		if id == "target" {
			// The default target directory is not a branch.
			continue
		}

		branch, err := r.Read(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, err
		}

		branches = append(branches, branch)
	}

	sort.Slice(branches, func(i, j int) bool {
		return branches[i].Order < branches[j].Order
	})

	return branches, nil
}

func (r *Reader) readTimestamp(relativePath string) (int64, error) {
	value, err := r.reader.ReadString(relativePath)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(value, 10, 64)
}
