// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads run configurations and assembles the display they
// describe.
//
// A configuration is read with priority env > file > defaults:
//
//	mode: verbose
//	max_depth: 2
//	filter: 'name != "LineSearch"'
//	summary: true
//	log:
//	  enabled: true
//	  level: debug
//	metrics:
//	  prometheus: true
//	  namespace: solver
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"code.hybscloud.com/history/exprfilter"
)

var (
	// ErrInvalidConfig indicates a configuration that failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrUnknownMode indicates a mode name that is not one of the Mode constants.
	ErrUnknownMode = errors.New("config: unknown mode")
)

// Mode selects how reported steps are printed.
type Mode string

const (
	// ModeSilent prints nothing.
	ModeSilent Mode = "silent"
	// ModeVerbose prints steps up to MaxDepth.
	ModeVerbose Mode = "verbose"
	// ModeDebug prints every step.
	ModeDebug Mode = "debug"
	// ModeSummary prints a summary table when the run stops.
	ModeSummary Mode = "summary"
)

// ParseMode returns the Mode named s.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSilent, ModeVerbose, ModeDebug, ModeSummary:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Environment variables overriding file values.
const (
	EnvMode     = "HISTORY_MODE"
	EnvMaxDepth = "HISTORY_MAX_DEPTH"
	EnvFilter   = "HISTORY_FILTER"
	EnvSummary  = "HISTORY_SUMMARY"
	EnvLogLevel = "HISTORY_LOG_LEVEL"
)

// Config describes the display of a run.
type Config struct {
	// Mode selects the line printer or summary. Default: silent.
	Mode Mode `yaml:"mode" validate:"required"`

	// MaxDepth caps the depth printed in verbose mode.
	MaxDepth int `yaml:"max_depth" validate:"gte=0,lte=64"`

	// Filter is an expression gating every sink. Empty keeps every step.
	Filter string `yaml:"filter"`

	// Summary adds a summary table to the silent, verbose and debug modes.
	Summary bool `yaml:"summary"`

	// Log configures structured step logging.
	Log LogConfig `yaml:"log"`

	// Metrics configures metric sinks.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures the slog sink.
type LogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// SlogLevel returns the configured level, slog.LevelDebug when unset.
func (c LogConfig) SlogLevel() slog.Level {
	var l slog.Level
	if c.Level == "" || l.UnmarshalText([]byte(c.Level)) != nil {
		return slog.LevelDebug
	}
	return l
}

// MetricsConfig configures the Prometheus and OpenTelemetry sinks.
type MetricsConfig struct {
	Prometheus    bool   `yaml:"prometheus"`
	Namespace     string `yaml:"namespace" validate:"required_if=Prometheus true,omitempty,metricname"`
	OpenTelemetry bool   `yaml:"opentelemetry"`
}

var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validate is the validator for Config, with the metricname rule registered.
var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		return metricName.MatchString(fl.Field().String())
	})
}

// Default returns the default configuration: silent, depth 1.
func Default() Config {
	return Config{
		Mode:     ModeSilent,
		MaxDepth: 1,
		Log:      LogConfig{Level: "debug"},
		Metrics:  MetricsConfig{Namespace: "history"},
	}
}

// Validate checks c.
func (c Config) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := exprfilter.Compile(c.Filter); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Parse decodes a YAML document over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	c := Default()
	if err := decode(data, &c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Load reads the configuration with priority env > file > defaults.
// An empty path or a missing file leaves the defaults in place.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("load config file: %w", err)
		default:
			if err := decode(data, &c); err != nil {
				return c, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func decode(data []byte, c *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func applyEnv(c *Config) error {
	if v := os.Getenv(EnvMode); v != "" {
		c.Mode = Mode(v)
	}
	if v := os.Getenv(EnvMaxDepth); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvMaxDepth, err)
		}
		c.MaxDepth = n
	}
	if v, ok := os.LookupEnv(EnvFilter); ok {
		c.Filter = v
	}
	if v := os.Getenv(EnvSummary); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, EnvSummary, err)
		}
		c.Summary = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Enabled = true
		c.Log.Level = v
	}
	return nil
}
