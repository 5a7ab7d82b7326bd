package repository

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xperimental/commit-blog/internal/config"
	"github.com/xperimental/commit-blog/internal/data"
)

var (
	// ErrNoHead is returned when the repository does not have a commit checked out.
	ErrNoHead = errors.New("repository has no HEAD commit")
)

// backend is the part of a go-git repository used for reading history.
type backend interface {
	Head() (*plumbing.Reference, error)
	Log(o *git.LogOptions) (object.CommitIter, error)
	CommitObject(h plumbing.Hash) (*object.Commit, error)
}

// Repository provides read-only access to the commit history of a Git repository.
type Repository struct {
	log  config.Logger
	path string
	repo backend
}

// Open opens the repository located at path.
func Open(log config.Logger, path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("can not open repository at %q: %w", path, err)
	}
	log.Debugf("Opened repository at %s", path)

	return &Repository{
		log:  log,
		path: path,
		repo: repo,
	}, nil
}

// Path returns the location the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// Log returns an iterator over all commits reachable from HEAD, newest commit first.
// When the time-based order can not be set up, the iterator falls back to the
// default order of the backend.
func (r *Repository) Log() (object.CommitIter, error) {
	head, err := r.repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		return nil, ErrNoHead
	case err != nil:
		return nil, fmt.Errorf("can not resolve HEAD: %w", err)
	default:
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err == nil {
		return iter, nil
	}
	r.log.Warnf("Failed to sort history by commit time, using default order: %s", err)

	iter, err = r.repo.Log(&git.LogOptions{
		From: head.Hash(),
	})
	if err != nil {
		return nil, fmt.Errorf("can not traverse history: %w", err)
	}

	return iter, nil
}

// Content looks up a commit and returns the publishable parts of its message.
func (r *Repository) Content(hash plumbing.Hash) (data.CommitContent, error) {
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return data.CommitContent{}, fmt.Errorf("can not find commit %s: %w", hash, err)
	}

	return data.ParseMessage(c.Message), nil
}
