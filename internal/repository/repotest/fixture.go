// Package repotest builds throwaway Git repositories for tests.
package repotest

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Fixture creates commits in a repository on disk for tests that need real history.
type Fixture struct {
	Path string

	t    testing.TB
	repo *git.Repository
	now  time.Time
}

// New initializes an empty repository in a temporary directory.
func New(t testing.TB) *Fixture {
	t.Helper()

	path := t.TempDir()
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)

	return &Fixture{
		Path: path,
		t:    t,
		repo: repo,
		now:  time.Date(2020, time.January, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Commit adds an empty commit with the given message on top of HEAD.
// Each commit is dated one minute after the previous one.
func (f *Fixture) Commit(message string) plumbing.Hash {
	f.t.Helper()

	wt, err := f.repo.Worktree()
	require.NoError(f.t, err)

	f.now = f.now.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: true,
		Author: &object.Signature{
			Name:  "Test Author",
			Email: "author@example.com",
			When:  f.now,
		},
	})
	require.NoError(f.t, err)

	return hash
}

// Commits adds one commit per message, oldest first, and returns their hashes in the same order.
func (f *Fixture) Commits(messages ...string) []plumbing.Hash {
	f.t.Helper()

	hashes := make([]plumbing.Hash, 0, len(messages))
	for _, m := range messages {
		hashes = append(hashes, f.Commit(m))
	}

	return hashes
}
