// Package config loads the YAML configuration shared by the train, serve and
// predict commands. Values absent from the file keep their defaults; command
// line flags override both.
package config

import (
	"bytes"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
	"github.com/YuminosukeSato/salarygo/server"
	"github.com/YuminosukeSato/salarygo/trainer"
)

// Config is the root of the configuration file.
type Config struct {
	LogLevel string `yaml:"log_level"`
	// LogFormat is "json" (zerolog), "console" (zerolog, human readable)
	// or "slog" (log/slog JSON with stack traces on errors).
	LogFormat string      `yaml:"log_format"`
	Train     TrainConfig `yaml:"train"`
	Serve     ServeConfig `yaml:"serve"`
}

// TrainConfig configures the training job.
type TrainConfig struct {
	Data     string  `yaml:"data"`
	SQLite   string  `yaml:"sqlite"`
	Table    string  `yaml:"table"`
	Model    string  `yaml:"model"`
	Plot     string  `yaml:"plot"`
	TestSize float64 `yaml:"test_size"`
	Seed     uint64  `yaml:"seed"`
}

// ServeConfig configures the inference service.
type ServeConfig struct {
	Model string `yaml:"model"`
	Addr  string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "json",
		Train: TrainConfig{
			Data:     trainer.DefaultDataPath,
			Model:    trainer.DefaultModelPath,
			TestSize: dataset.DefaultTestSize,
			Seed:     dataset.DefaultSeed,
		},
		Serve: ServeConfig{
			Model: trainer.DefaultModelPath,
			Addr:  server.DefaultAddr,
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the
// defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := decode(bytes.NewReader(raw), &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "json", "console", "slog":
	default:
		return errors.NewValidationError("log_format", "must be json, console or slog", c.LogFormat)
	}
	if c.Train.TestSize <= 0 || c.Train.TestSize >= 1 {
		return errors.NewValidationError("train.test_size", "must be in (0, 1)", c.Train.TestSize)
	}
	if c.Train.SQLite != "" && c.Train.Table == "" {
		return errors.NewValidationError("train.table", "is required with train.sqlite", c.Train.Table)
	}
	if c.Serve.Addr == "" {
		return errors.NewValidationError("serve.addr", "is required", c.Serve.Addr)
	}
	return nil
}

// Trainer converts the train section into a trainer.Config.
func (t TrainConfig) Trainer() trainer.Config {
	return trainer.Config{
		DataPath:   t.Data,
		SQLitePath: t.SQLite,
		Table:      t.Table,
		ModelPath:  t.Model,
		PlotPath:   t.Plot,
		TestSize:   t.TestSize,
		Seed:       t.Seed,
	}
}

// NewLogger builds the process logger described by the configuration.
func (c Config) NewLogger(w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	var zl *log.ZerologLogger
	switch c.LogFormat {
	case "slog":
		log.SetupLogger(w, level)
		return log.NewSlogLogger(nil), nil
	case "console":
		zl = log.NewConsoleLogger(w, level)
	default:
		zl = log.NewZerologLogger(w, level)
	}
	zl.InstallWarnHook()
	return zl, nil
}
