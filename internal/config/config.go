package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

// Logger provides an application-wide definition of a Logger interface.
type Logger interface {
	logrus.FieldLogger
	WriterLevel(level logrus.Level) *io.PipeWriter
}

// Config contains the application configuration.
type Config struct {
	LogLevel   logrus.Level `yaml:"logLevel"`
	Repository string       `yaml:"repository"`
	OutputDir  string       `yaml:"outputDir"`
	QueueSize  int          `yaml:"queueSize"`
	Clean      bool         `yaml:"clean"`
	Serve      bool         `yaml:"serve"`
	Server     Server       `yaml:"server"`
}

// Server contains configuration for the preview HTTP server.
type Server struct {
	ListenAddress   string        `yaml:"listenAddress"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// GetConfig parses the command-line parameters and creates the configuration.
// Values from the optional configuration file are overridden by flags which were set explicitly.
func GetConfig(args []string) (Config, error) {
	var (
		configFile    string
		logLevel      = logrus.InfoLevel.String()
		repository    = defaultRepository
		outputDir     = defaultOutputDir
		queueSize     = defaultQueueSize
		clean         bool
		serve         bool
		listenAddress = defaultListenAddress
	)

	flags := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	flags.StringVarP(&configFile, "config-file", "c", configFile, "Path to optional configuration file.")
	flags.StringVar(&logLevel, "log-level", logLevel, "Minimum level of log messages.")
	flags.StringVarP(&repository, "repository", "r", repository, "Path to the Git repository containing the posts.")
	flags.StringVarP(&outputDir, "output-dir", "o", outputDir, "Directory the site is written to.")
	flags.IntVar(&queueSize, "queue-size", queueSize, "Capacity of the queue between history walker and post builder.")
	flags.BoolVar(&clean, "clean", clean, "Remove the output directory before generating.")
	flags.BoolVar(&serve, "serve", serve, "Serve the generated site after generation.")
	flags.StringVar(&listenAddress, "listen-address", listenAddress, "Address used by the preview server.")

	if err := flags.Parse(args[1:]); err != nil {
		return Config{}, fmt.Errorf("can not parse command-line parameters: %w", err)
	}

	var cfg Config
	if configFile != "" {
		fileCfg, err := readFile(configFile)
		if err != nil {
			return Config{}, err
		}
		cfg = fileCfg
	}

	if flags.Changed("log-level") {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return Config{}, fmt.Errorf("can not parse log level: %w", err)
		}
		cfg.LogLevel = level
	}

	if flags.Changed("repository") {
		cfg.Repository = repository
	}

	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}

	if flags.Changed("queue-size") {
		cfg.QueueSize = queueSize
	}

	if flags.Changed("clean") {
		cfg.Clean = clean
	}

	if flags.Changed("serve") {
		cfg.Serve = serve
	}

	if flags.Changed("listen-address") {
		cfg.Server.ListenAddress = listenAddress
	}

	setDefaults(&cfg)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func readFile(configFile string) (Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return Config{}, fmt.Errorf("can not open configuration file %q: %w", configFile, err)
	}
	defer file.Close()

	var cfg Config
	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("can not parse configuration file: %w", err)
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.QueueSize < 1 {
		return fmt.Errorf("queue size needs to be positive: %d", cfg.QueueSize)
	}

	return nil
}
