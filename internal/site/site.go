// Package site runs the pipeline turning the history of a repository into a static blog.
package site

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xperimental/commit-blog/internal/build"
	"github.com/xperimental/commit-blog/internal/config"
	"github.com/xperimental/commit-blog/internal/history"
	"github.com/xperimental/commit-blog/internal/repository"
)

// Generate walks the history of the configured repository and writes the site to the output directory.
// An error is only returned if the site can not be generated at all. Problems with single commits or
// files are logged and reflected in the returned statistics.
func Generate(log config.Logger, cfg config.Config) (build.Stats, error) {
	start := time.Now()
	log.Infof("Repository path: %s", cfg.Repository)
	log.Infof("Output directory: %s", cfg.OutputDir)

	walkerLog := log.WithField("component", "walker")
	walkerRepo, err := repository.Open(walkerLog, cfg.Repository)
	if err != nil {
		return build.Stats{}, fmt.Errorf("error opening repository for walker: %w", err)
	}

	builderLog := log.WithField("component", "builder")
	builderRepo, err := repository.Open(builderLog, cfg.Repository)
	if err != nil {
		return build.Stats{}, fmt.Errorf("error opening repository for builder: %w", err)
	}

	queue := make(chan plumbing.Hash, cfg.QueueSize)
	walker := history.New(walkerLog, walkerRepo, queue)
	builder := build.New(builderLog, builderRepo, cfg.OutputDir, queue)

	if err := walker.Prepare(); err != nil {
		return build.Stats{}, err
	}

	if err := builder.Prepare(cfg.Clean); err != nil {
		walker.Abort()
		return build.Stats{}, err
	}

	wg := &sync.WaitGroup{}
	if err := walker.Start(wg); err != nil {
		return build.Stats{}, err
	}
	builder.Start(wg)
	wg.Wait()

	stats := builder.Stats()
	log.Infof("Generated %d posts from %d commits in %s (%d skipped, %d failed)",
		stats.Posts, stats.Received, time.Since(start), stats.Skipped, stats.Failed)
	return stats, nil
}
