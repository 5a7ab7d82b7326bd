package build

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xperimental/commit-blog/internal/config"
	"github.com/xperimental/commit-blog/internal/data"
	"github.com/xperimental/commit-blog/internal/render"
)

const (
	postsDir       = "posts"
	indexFile      = "index.html"
	stylesheetFile = "style.css"

	dirPerm  = 0o755
	filePerm = 0o644
)

// ContentSource resolves commit hashes to their message content.
type ContentSource interface {
	Content(hash plumbing.Hash) (data.CommitContent, error)
}

// Stats summarizes a finished build.
type Stats struct {
	Received int
	Posts    int
	Skipped  int
	Failed   int
}

// Builder consumes commit hashes and writes the site for all commits marked as posts.
type Builder struct {
	log       config.Logger
	source    ContentSource
	outputDir string
	queue     <-chan plumbing.Hash

	index []data.IndexEntry
	seen  map[string]plumbing.Hash
	stats Stats
}

func New(log config.Logger, source ContentSource, outputDir string, queue <-chan plumbing.Hash) *Builder {
	return &Builder{
		log:       log,
		source:    source,
		outputDir: outputDir,
		queue:     queue,

		index: []data.IndexEntry{},
		seen:  make(map[string]plumbing.Hash),
	}
}

// Prepare creates the output directory structure. When clean is set, an existing
// output directory is removed first.
func (b *Builder) Prepare(clean bool) error {
	if clean {
		b.log.Debugf("Removing output directory %q", b.outputDir)
		if err := os.RemoveAll(b.outputDir); err != nil {
			return fmt.Errorf("can not clean output directory %q: %w", b.outputDir, err)
		}
	}

	dir := filepath.Join(b.outputDir, postsDir)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("can not create output directory %q: %w", dir, err)
	}

	return nil
}

// Start processes the queue in the background until it is closed.
func (b *Builder) Start(wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer b.log.Debug("Builder done.")

		b.Run()
	}()
}

// Run processes the queue until it is closed and then writes the index and stylesheet.
func (b *Builder) Run() Stats {
	for hash := range b.queue {
		b.stats.Received++
		b.handleCommit(hash)
	}

	if err := b.writeIndex(); err != nil {
		b.log.Errorf("Failed to write index: %s", err)
	} else {
		b.log.Info("Index generated")
	}

	if err := b.writeStylesheet(); err != nil {
		b.log.Errorf("Failed to write stylesheet: %s", err)
	} else {
		b.log.Info("Stylesheet generated")
	}

	return b.stats
}

// Stats returns the counters of the build. Only valid after Run returned.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Index returns the entries of all posts written so far, in the order they were received.
func (b *Builder) Index() []data.IndexEntry {
	return append([]data.IndexEntry(nil), b.index...)
}

func (b *Builder) handleCommit(hash plumbing.Hash) {
	content, err := b.source.Content(hash)
	if err != nil {
		b.log.Errorf("Failed to find commit: %s", err)
		b.stats.Failed++
		return
	}

	if !content.HasSummary() {
		b.log.Debugf("Commit %s has no summary", hash)
		b.stats.Skipped++
		return
	}

	post, ok := data.NewPost(hash.String(), content)
	if !ok {
		b.stats.Skipped++
		return
	}

	if other, exists := b.seen[post.ShortID]; exists {
		b.log.Warnf("Skipping commit %s: short ID %s already used by %s", hash, post.ShortID, other)
		b.stats.Skipped++
		return
	}
	b.seen[post.ShortID] = hash

	size, err := b.writePost(post)
	if err != nil {
		b.log.Errorf("Failed to write post (%s): %s", post.ShortID, err)
		b.stats.Failed++
		return
	}
	b.log.Infof("Post %s generated (%s)", post.ShortID, humanize.Bytes(uint64(size)))

	b.index = append(b.index, post.Entry())
	b.stats.Posts++
}

func (b *Builder) writePost(post data.Post) (int, error) {
	html := render.PostPage(post)
	path := filepath.Join(b.outputDir, postsDir, post.ShortID+".html")

	return len(html), os.WriteFile(path, []byte(html), filePerm)
}

func (b *Builder) writeIndex() error {
	html := render.IndexPage(b.index)
	path := filepath.Join(b.outputDir, indexFile)

	return os.WriteFile(path, []byte(html), filePerm)
}

func (b *Builder) writeStylesheet() error {
	path := filepath.Join(b.outputDir, stylesheetFile)

	return os.WriteFile(path, render.Stylesheet(), filePerm)
}
