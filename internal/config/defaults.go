package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultRepository      = "."
	defaultOutputDir       = "public"
	defaultQueueSize       = 64
	defaultListenAddress   = ":8080"
	defaultShutdownTimeout = 2 * time.Second
)

func setDefaults(cfg *Config) {
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logrus.InfoLevel
	}

	if cfg.Repository == "" {
		cfg.Repository = defaultRepository
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}

	// Zero means "not configured", negative values are rejected later.
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}

	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = defaultListenAddress
	}

	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdownTimeout
	}
}
