package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/xperimental/commit-blog/internal/config"
	"github.com/xperimental/commit-blog/internal/server"
	"github.com/xperimental/commit-blog/internal/site"
)

var (
	log = &logrus.Logger{
		Out: os.Stderr,
		Formatter: &logrus.TextFormatter{
			DisableTimestamp: true,
		},
		Hooks: logrus.LevelHooks{},
		Level: logrus.InfoLevel,
	}
)

func main() {
	cfg, err := config.GetConfig(os.Args)
	if err != nil {
		log.Fatalf("Error in configuration: %s", err)
	}
	log.SetLevel(cfg.LogLevel)

	if _, err := site.Generate(log, cfg); err != nil {
		log.Fatalf("Error generating site: %s", err)
	}

	if !cfg.Serve {
		return
	}

	srv, err := server.New(log.WithField("component", "server"), cfg.Server, cfg.OutputDir)
	if err != nil {
		log.Fatalf("Error creating server: %s", err)
	}

	if err := runServer(srv); err != nil {
		log.Fatalln(err)
	}

	log.Infoln("Shutdown complete.")
}

func runServer(srv *server.Server) error {
	wg := &sync.WaitGroup{}
	ctx, cancel := initSignalHandler()
	defer cancel()

	if err := srv.Start(ctx, wg); err != nil {
		return fmt.Errorf("error starting server: %s", err)
	}

	wg.Wait()
	return nil
}

func initSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		sig := <-sigCh
		log.Debugf("Got signal: %v", sig)
		cancel()
		signal.Reset(syscall.SIGTERM, syscall.SIGINT)
	}()

	return ctx, cancel
}
