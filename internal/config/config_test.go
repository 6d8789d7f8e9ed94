package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "revmatrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoad_NoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesFieldByField(t *testing.T) {
	path := writeConfig(t, `
cleanup:
  holding_folder: Archive
  patterns:
    - '^(\w+)-rev([A-Z])\.pdf$'
  custom_first: true
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Archive", cfg.Cleanup.HoldingFolder)
	assert.Equal(t, []string{`^(\w+)-rev([A-Z])\.pdf$`}, cfg.Cleanup.Patterns)
	assert.True(t, cfg.Cleanup.CustomFirst)
	assert.Equal(t, []string{".pdf", ".dwg", ".dxf"}, cfg.Cleanup.Extensions, "unset keys keep defaults")
	assert.Equal(t, Default().Matrix, cfg.Matrix)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, slog.LevelDebug, cfg.Logging.SlogLevel())
}

func TestLoad_NullListIsEmpty(t *testing.T) {
	cfg, err := Load(writeConfig(t, "cleanup:\n  patterns:\n"))
	require.NoError(t, err)
	assert.Empty(t, cfg.Cleanup.Patterns)
}

func TestLoad_UnknownKey(t *testing.T) {
	_, err := Load(writeConfig(t, "cleanup:\n  holding: Archive\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holding")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "cleanup: [unclosed\n"))
	assert.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"holding folder with separator", func(c *Config) { c.Cleanup.HoldingFolder = "a/b" }},
		{"holding folder with backslash", func(c *Config) { c.Cleanup.HoldingFolder = `a\b` }},
		{"empty holding folder", func(c *Config) { c.Cleanup.HoldingFolder = "" }},
		{"extension without dot", func(c *Config) { c.Cleanup.Extensions = []string{"pdf"} }},
		{"no matrix extensions", func(c *Config) { c.Matrix.Extensions = []string{} }},
		{"no matrix patterns", func(c *Config) { c.Matrix.Patterns = nil }},
		{"template not a spreadsheet", func(c *Config) { c.Matrix.TemplateName = "matrix.xlsx" }},
		{"empty date format", func(c *Config) { c.Matrix.DateFormat = "" }},
		{"unknown level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.NotEmpty(t, ve.Details)
		})
	}
}

func TestValidate_AcceptsCSVTemplate(t *testing.T) {
	cfg := Default()
	cfg.Matrix.TemplateName = "Matrix.CSV"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidValueReportsPath(t *testing.T) {
	path := writeConfig(t, "logging:\n  format: xml\n")
	_, err := Load(path)
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.Contains(t, err.Error(), path)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, LoggingConfig{Level: "info"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelError, LoggingConfig{Level: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{}.SlogLevel())
}
