// Package config loads CLI settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ColinPollard/ToolPathGen/internal/pathio"
)

// Config holds the settings of the toolpathgen CLI.
type Config struct {
	Output  OutputConfig  `yaml:"output"`
	Journal JournalConfig `yaml:"journal"`
	Log     LogConfig     `yaml:"log"`
}

// OutputConfig controls the axis files.
type OutputConfig struct {
	// Extension is the axis file suffix, including the dot.
	Extension string `yaml:"extension"`

	// Precision is the number of decimals written; -1 means shortest.
	Precision int `yaml:"precision"`
}

// JournalConfig controls the run history database.
type JournalConfig struct {
	// Path is the SQLite file. Empty disables the journal.
	Path string `yaml:"path"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Output: OutputConfig{
			Extension: pathio.DefaultExtension,
			Precision: -1,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path on top of Default.
// Unknown keys are rejected so that typos do not silently fall back to
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if c.Output.Extension != "" && !strings.HasPrefix(c.Output.Extension, ".") {
		return fmt.Errorf("output.extension %q must start with a dot", c.Output.Extension)
	}
	if strings.ContainsAny(c.Output.Extension, `/\`) {
		return fmt.Errorf("output.extension %q must not contain path separators", c.Output.Extension)
	}
	if c.Output.Precision < -1 {
		return fmt.Errorf("output.precision must be -1 or greater, got %d", c.Output.Precision)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// OutputOptions converts the output settings for the path writer.
func (c Config) OutputOptions() pathio.Options {
	return pathio.Options{Extension: c.Output.Extension, Precision: c.Output.Precision}
}

// SlogLevel maps Level to a slog.Level. An empty level is info.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("log.level %q must be one of debug, info, warn, error", l.Level)
	}
}
