package vbranch

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
)

// Branch is the descriptive metadata of a virtual branch, persisted
// field-per-file under branches/{id}/meta/. The target a branch tracks lives
// beside it under branches/{id}/target/.
type Branch struct {
	ID                 string
	Name               string
	Applied            bool
	Upstream           string
	CreatedTimestampMS int64
	UpdatedTimestampMS int64
	Head               plumbing.Hash
	Tree               plumbing.Hash
	Ownership          Ownership
	Order              int
}

// Ownership is the set of file claims a branch holds over the working
// directory.
type Ownership struct {
	Files []FileOwnership
}

// FileOwnership claims a file, optionally narrowed to a set of hunk ranges.
type FileOwnership struct {
	FilePath string
	Hunks    []string
}

// String encodes the ownership one claim per line as "path" or
// "path:hunk,hunk".
func (o Ownership) String() string {
	lines := make([]string, 0, len(o.Files))
	for _, file := range o.Files {
		if len(file.Hunks) == 0 {
			lines = append(lines, file.FilePath)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s:%s", file.FilePath, strings.Join(file.Hunks, ",")))
	}

	return strings.Join(lines, "\n")
}

// ParseOwnership decodes the line-per-claim encoding produced by String.
func ParseOwnership(encoded string) (Ownership, error) {
	ownership := Ownership{Files: make([]FileOwnership, 0)}

	for _, line := range strings.Split(encoded, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		filePath, hunksPart, found := strings.Cut(line, ":")
		if filePath == "" {
			return Ownership{}, fmt.Errorf("invalid ownership claim: %q", line)
		}

		file := FileOwnership{FilePath: filePath, Hunks: make([]string, 0)}
		if found && hunksPart != "" {
			file.Hunks = strings.Split(hunksPart, ",")
		}

		ownership.Files = append(ownership.Files, file)
	}

	return ownership, nil
}
