package git

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type Author struct {
	Name  string
	Email string
}

// OpenOrInit opens the repository at directory, initialising a fresh one with
// an empty initial commit if none exists there yet.
func OpenOrInit(directory string, author *Author) (*git.Repository, error) {
	repo, err := git.PlainOpen(directory)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	slog.Debug("initialising repository", "directory", directory)

	repo, err = git.PlainInit(directory, false)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	err = Commit(repo, wt, author, "Initialise store", "", true)
	if err != nil {
		return nil, fmt.Errorf("failed to make initial commit: %w", err)
	}

	return repo, nil
}

func Commit(repo *git.Repository, wt *git.Worktree, author *Author, commitSubject, commitBody string, allowEmpty bool) error {
	var err error

	if wt == nil {
		wt, err = repo.Worktree()
		if err != nil {
			return fmt.Errorf("failed to get worktree: %w", err)
		}
	}

	commitMsg := commitSubject
	if commitBody != "" {
		commitMsg = fmt.Sprintf("%s\n\n%s", commitSubject, commitBody)
	}

	commit, err := wt.Commit(commitMsg, &git.CommitOptions{
		AllowEmptyCommits: allowEmpty,
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to prepare commit: %w", err)
	}

	obj, err := repo.CommitObject(commit)
	if err != nil {
		return fmt.Errorf("failed to commit object: %w", err)
	}

	slog.Debug("created commit object", "hash", obj.Hash.String(), "authorEmail", obj.Author.Email)

	return nil
}

// StageAll stages every change under the worktree root and returns the number
// of changed objects.
func StageAll(wt *git.Worktree) (int, error) {
	err := wt.AddGlob(".")
	if err != nil && err != git.ErrGlobNoMatches {
		return 0, fmt.Errorf("failed to add files: %w", err)
	}

	status, err := wt.Status()
	if err != nil {
		return 0, fmt.Errorf("failed to get git status: %w", err)
	}

	return len(status), nil
}

func Push(repo *git.Repository, remoteName string, branchRefName plumbing.ReferenceName) error {
	slog.Info("pushing refs", "localRef", branchRefName.Short(), "remote", remoteName)
	err := repo.Push(&git.PushOptions{
		RemoteName: remoteName,
		Progress:   nil,
		RefSpecs: []config.RefSpec{
			config.RefSpec(fmt.Sprintf("+%s:%s", branchRefName, branchRefName)),
		},
	})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return fmt.Errorf("failed to push: %w", err)
	}

	return nil
}

// EnsureRemote creates the named remote with the given URL, replacing an
// existing remote of the same name if its URL differs.
func EnsureRemote(repo *git.Repository, name, url string) error {
	remote, err := repo.Remote(name)
	if err == nil {
		if len(remote.Config().URLs) > 0 && remote.Config().URLs[0] == url {
			return nil
		}
		err = repo.DeleteRemote(name)
		if err != nil {
			return fmt.Errorf("failed to replace remote %s: %w", name, err)
		}
	} else if err != git.ErrRemoteNotFound {
		return fmt.Errorf("failed to get remote %s: %w", name, err)
	}

	_, err = repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return fmt.Errorf("failed to create remote %s: %w", name, err)
	}

	return nil
}
