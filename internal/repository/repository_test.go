package repository

import (
	"errors"
	"io"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xperimental/commit-blog/internal/data"
	"github.com/xperimental/commit-blog/internal/repository/repotest"
)

func TestOpenInvalidPath(t *testing.T) {
	log, _ := test.NewNullLogger()

	_, err := Open(log, t.TempDir())
	assert.Error(t, err)
}

func TestLogWithoutHead(t *testing.T) {
	log, _ := test.NewNullLogger()
	fixture := repotest.New(t)

	repo, err := Open(log, fixture.Path)
	require.NoError(t, err)

	_, err = repo.Log()
	assert.ErrorIs(t, err, ErrNoHead)
}

func TestLogNewestFirst(t *testing.T) {
	log, _ := test.NewNullLogger()
	fixture := repotest.New(t)
	hashes := fixture.Commits("first", "second", "third")

	repo, err := Open(log, fixture.Path)
	require.NoError(t, err)
	assert.Equal(t, fixture.Path, repo.Path())

	iter, err := repo.Log()
	require.NoError(t, err)
	defer iter.Close()

	var got []plumbing.Hash
	for {
		c, err := iter.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, c.Hash)
	}

	assert.Equal(t, []plumbing.Hash{hashes[2], hashes[1], hashes[0]}, got)
}

func TestContent(t *testing.T) {
	log, _ := test.NewNullLogger()
	fixture := repotest.New(t)
	hash := fixture.Commit("POST: Hello\n\nFirst line.\n\nSecond line.\n")

	repo, err := Open(log, fixture.Path)
	require.NoError(t, err)

	content, err := repo.Content(hash)
	require.NoError(t, err)
	assert.Equal(t, data.CommitContent{
		Summary: "POST: Hello",
		Body:    "First line.\n\nSecond line.",
	}, content)

	_, err = repo.Content(plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"))
	assert.Error(t, err)
}

// orderFailingBackend rejects every non-default traversal order.
type orderFailingBackend struct {
	backend
	failDefault bool
	orders      []git.LogOrder
}

func (b *orderFailingBackend) Log(o *git.LogOptions) (object.CommitIter, error) {
	b.orders = append(b.orders, o.Order)
	if o.Order != git.LogOrderDefault || b.failDefault {
		return nil, errors.New("order not supported")
	}

	return b.backend.Log(o)
}

func TestLogSortFallback(t *testing.T) {
	fixture := repotest.New(t)
	hashes := fixture.Commits("first", "second")

	t.Run("falls back to default order", func(t *testing.T) {
		log, hook := test.NewNullLogger()
		repo, err := Open(log, fixture.Path)
		require.NoError(t, err)
		failing := &orderFailingBackend{backend: repo.repo}
		repo.repo = failing

		iter, err := repo.Log()
		require.NoError(t, err)
		defer iter.Close()

		c, err := iter.Next()
		require.NoError(t, err)
		assert.Equal(t, hashes[1], c.Hash)

		assert.Equal(t, []git.LogOrder{git.LogOrderCommitterTime, git.LogOrderDefault}, failing.orders)
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Contains(t, hook.LastEntry().Message, "using default order")
	})

	t.Run("default order fails too", func(t *testing.T) {
		log, _ := test.NewNullLogger()
		repo, err := Open(log, fixture.Path)
		require.NoError(t, err)
		repo.repo = &orderFailingBackend{backend: repo.repo, failDefault: true}

		_, err = repo.Log()
		assert.Error(t, err)
	})
}
