// Package config loads the revmatrix YAML configuration file.
//
// A missing file yields Default(). Values present in the file replace the
// defaults field by field; unknown keys are rejected. The result is checked
// against an embedded CUE schema before use.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Config is the whole configuration file.
type Config struct {
	Cleanup CleanupConfig `yaml:"cleanup" json:"cleanup"`
	Matrix  MatrixConfig  `yaml:"matrix" json:"matrix"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// CleanupConfig configures the supersession workflow.
type CleanupConfig struct {
	HoldingFolder string   `yaml:"holding_folder" json:"holding_folder"`
	PrefixFilter  string   `yaml:"prefix_filter" json:"prefix_filter"`
	Extensions    []string `yaml:"extensions" json:"extensions"`
	Patterns      []string `yaml:"patterns" json:"patterns"`
	CustomFirst   bool     `yaml:"custom_first" json:"custom_first"`
}

// MatrixConfig configures the transmittal matrix workflow.
type MatrixConfig struct {
	TemplateName string   `yaml:"template_name" json:"template_name"`
	Extensions   []string `yaml:"extensions" json:"extensions"`
	Patterns     []string `yaml:"patterns" json:"patterns"`
	DateFormat   string   `yaml:"date_format" json:"date_format"`
}

// LoggingConfig selects the log level and handler.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Cleanup: CleanupConfig{
			HoldingFolder: "Superceded",
			Extensions:    []string{".pdf", ".dwg", ".dxf"},
			Patterns:      []string{},
		},
		Matrix: MatrixConfig{
			TemplateName: "Transmittal_Template.ods",
			Extensions:   []string{".pdf", ".dwg", ".dxf"},
			Patterns:     []string{`^(.+)[_.-]([A-Z])\.(pdf|dwg|dxf)$`},
			DateFormat:   "2006-01-02",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and validates the result. An empty path
// or a file that does not exist yields the validated defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ValidationError lists every schema violation of a configuration.
type ValidationError struct {
	Details string
	Err     error
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + e.Details
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks c against the embedded schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	v := ctx.Encode(c.normalized())
	if err := v.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		details := strings.TrimSpace(cueerrors.Details(err, nil))
		return &ValidationError{Details: details, Err: err}
	}
	return nil
}

// normalized returns a copy with nil lists made empty; a YAML key without a
// value decodes to nil, which the schema would see as null.
func (c *Config) normalized() Config {
	out := *c
	orEmpty := func(s []string) []string {
		if s == nil {
			return []string{}
		}
		return s
	}
	out.Cleanup.Extensions = orEmpty(out.Cleanup.Extensions)
	out.Cleanup.Patterns = orEmpty(out.Cleanup.Patterns)
	out.Matrix.Extensions = orEmpty(out.Matrix.Extensions)
	out.Matrix.Patterns = orEmpty(out.Matrix.Patterns)
	return out
}

// SlogLevel maps the configured level name to a slog.Level.
func (l LoggingConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
