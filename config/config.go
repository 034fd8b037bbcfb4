// Package config loads the content pipeline configuration and wires the
// registry, validator and loader from it.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/reglet-dev/reglet-content/loader"
	"github.com/reglet-dev/reglet-content/registry"
	"github.com/reglet-dev/reglet-content/validation"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk pipeline configuration.
type Config struct {
	ContentDir string `yaml:"content_dir"`
	LogLevel   string `yaml:"log_level"`
	Strict     bool   `yaml:"strict"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ContentDir: loader.DefaultContentDir,
		LogLevel:   "info",
	}
}

// Load reads a YAML config file. A missing file yields Default().
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for missing or unknown values.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ContentDir) == "" {
		return errors.New("content_dir is required")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel; an empty level means info.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return level, nil
}

// Logger builds a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Pipeline bundles the wired content components.
type Pipeline struct {
	Registry  *registry.Registry
	Validator *validation.Validator
	Loader    *loader.Loader
}

// NewPipeline wires a registry holding every collection, a validator over it
// and a loader reading cfg.ContentDir.
func NewPipeline(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	reg, err := registry.NewDefaultRegistry(registry.WithStrictMode(cfg.Strict))
	if err != nil {
		return nil, err
	}

	v := validation.NewValidator(reg)
	return &Pipeline{
		Registry:  reg,
		Validator: v,
		Loader: loader.NewLoader(v,
			loader.WithContentDir(cfg.ContentDir),
			loader.WithLogger(logger),
		),
	}, nil
}
