package history

import (
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/xperimental/commit-blog/internal/config"
)

// maxIterErrors is the number of consecutive iterator failures after which the walk is abandoned.
const maxIterErrors = 16

// Source provides the commit history of a repository.
type Source interface {
	Log() (object.CommitIter, error)
}

// Walker publishes the hashes of all commits reachable from HEAD onto a queue.
type Walker struct {
	log    config.Logger
	source Source
	queue  chan<- plumbing.Hash

	iter object.CommitIter
}

func New(log config.Logger, source Source, queue chan<- plumbing.Hash) *Walker {
	return &Walker{
		log:    log,
		source: source,
		queue:  queue,
	}
}

// Prepare sets up the traversal. Errors returned by Prepare mean the history
// can not be read at all; the queue is closed in that case.
func (w *Walker) Prepare() error {
	iter, err := w.source.Log()
	if err != nil {
		close(w.queue)
		return fmt.Errorf("can not start history walk: %w", err)
	}

	w.iter = iter
	return nil
}

// Abort releases a prepared traversal which is not going to be started.
func (w *Walker) Abort() {
	if w.iter == nil {
		return
	}

	w.iter.Close()
	w.iter = nil
	close(w.queue)
}

// Start walks the prepared history in the background.
// The queue is closed once the traversal is done.
func (w *Walker) Start(wg *sync.WaitGroup) error {
	if w.iter == nil {
		if err := w.Prepare(); err != nil {
			return err
		}
	}
	iter := w.iter
	w.iter = nil

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(w.queue)
		defer iter.Close()

		count := w.walk(iter)
		w.log.Debugf("History walk done, %d commits queued.", count)
	}()

	return nil
}

func (w *Walker) walk(iter object.CommitIter) int {
	count := 0
	failures := 0
	for {
		c, err := iter.Next()
		switch {
		case err == io.EOF:
			return count
		case err != nil:
			w.log.Errorf("Error reading commit from history: %s", err)

			failures++
			if failures >= maxIterErrors {
				w.log.Errorf("Giving up history walk after %d consecutive errors.", failures)
				return count
			}
			continue
		default:
		}
		failures = 0

		w.queue <- c.Hash
		count++
	}
}
