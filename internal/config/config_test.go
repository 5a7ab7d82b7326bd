package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDefaults(t *testing.T) {
	cfg, err := GetConfig([]string{"commit-blog"})
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, ".", cfg.Repository)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, 64, cfg.QueueSize)
	assert.False(t, cfg.Clean)
	assert.False(t, cfg.Serve)
	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
}

func TestGetConfigFlags(t *testing.T) {
	cfg, err := GetConfig([]string{
		"commit-blog",
		"-r", "/tmp/repo",
		"--output-dir", "/tmp/site",
		"--log-level", "debug",
		"--queue-size", "3",
		"--clean",
		"--serve",
		"--listen-address", "127.0.0.1:9000",
	})
	require.NoError(t, err)

	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "/tmp/repo", cfg.Repository)
	assert.Equal(t, "/tmp/site", cfg.OutputDir)
	assert.Equal(t, 3, cfg.QueueSize)
	assert.True(t, cfg.Clean)
	assert.True(t, cfg.Serve)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.ListenAddress)
}

func TestGetConfigEmptyValuesUseDefaults(t *testing.T) {
	cfg, err := GetConfig([]string{
		"commit-blog",
		"--repository", "",
		"--output-dir", "",
		"--queue-size", "0",
	})
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Repository)
	assert.Equal(t, "public", cfg.OutputDir)
	assert.Equal(t, 64, cfg.QueueSize)
}

func TestGetConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "blog.yml")
	content := `logLevel: warning
repository: /srv/blog.git
outputDir: /srv/www
queueSize: 8
server:
  listenAddress: ":9999"
  shutdownTimeout: 5s
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	t.Run("file only", func(t *testing.T) {
		cfg, err := GetConfig([]string{"commit-blog", "-c", configFile})
		require.NoError(t, err)

		assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
		assert.Equal(t, "/srv/blog.git", cfg.Repository)
		assert.Equal(t, "/srv/www", cfg.OutputDir)
		assert.Equal(t, 8, cfg.QueueSize)
		assert.Equal(t, ":9999", cfg.Server.ListenAddress)
		assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	})

	t.Run("flags override file", func(t *testing.T) {
		cfg, err := GetConfig([]string{"commit-blog", "-c", configFile, "-o", "out"})
		require.NoError(t, err)

		assert.Equal(t, "/srv/blog.git", cfg.Repository)
		assert.Equal(t, "out", cfg.OutputDir)
	})
}

func TestGetConfigErrors(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.yml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("queueSize: [1, 2"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "unknown flag",
			args: []string{"commit-blog", "--unknown"},
		},
		{
			name: "missing config file",
			args: []string{"commit-blog", "-c", filepath.Join(t.TempDir(), "missing.yml")},
		},
		{
			name: "invalid log level",
			args: []string{"commit-blog", "--log-level", "loud"},
		},
		{
			name: "negative queue size",
			args: []string{"commit-blog", "--queue-size", "-1"},
		},
		{
			name: "invalid config file",
			args: []string{"commit-blog", "-c", invalidFile},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GetConfig(tt.args)
			assert.Error(t, err)
		})
	}
}
