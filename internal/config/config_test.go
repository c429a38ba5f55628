package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.Gemini.BaseURL)
	assert.Equal(t, "models/gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 15, cfg.Gemini.StandardIntervalSecs)
	assert.Equal(t, 60, cfg.Gemini.GroundedIntervalSecs)
	assert.Equal(t, 5, cfg.Gemini.MaxRetries)
	assert.Equal(t, 8192, cfg.Pipeline.ExtractTokens)
	assert.Equal(t, 16384, cfg.Pipeline.CompactionTokens)
	assert.Equal(t, 25000, cfg.Pipeline.MaxSourceChars)
	assert.Equal(t, "ir_pdfs", cfg.Paths.InputDir)
	assert.Equal(t, "refined", cfg.Paths.OutputDir)
	assert.Equal(t, "reports", cfg.Paths.ReportDir)
	assert.Equal(t, "evidence_cache", cfg.Paths.EvidenceDir)
	assert.Equal(t, "irreview.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
gemini:
  model: models/gemini-2.5-pro
  grounded_interval_secs: 90
log:
  level: debug
  format: console
paths:
  input_dir: decks
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "models/gemini-2.5-pro", cfg.Gemini.Model)
	assert.Equal(t, 90, cfg.Gemini.GroundedIntervalSecs)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "decks", cfg.Paths.InputDir)
	// Defaults still apply for unset values
	assert.Equal(t, 15, cfg.Gemini.StandardIntervalSecs)
	assert.Equal(t, "refined", cfg.Paths.OutputDir)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
gemini:
  model: models/gemini-2.5-pro
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("IRREVIEW_GEMINI_MODEL", "models/gemini-2.0-flash")
	t.Setenv("IRREVIEW_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "models/gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("IRREVIEW_GEMINI_STANDARD_INTERVAL_SECS", "30")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Gemini.StandardIntervalSecs)
}

func TestIntervalDurations(t *testing.T) {
	cfg := GeminiConfig{StandardIntervalSecs: 15, GroundedIntervalSecs: 60}
	assert.Equal(t, 15*time.Second, cfg.StandardInterval())
	assert.Equal(t, time.Minute, cfg.GroundedInterval())
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validBatch returns a Config that passes batch validation.
func validBatch() *Config {
	cfg := &Config{}
	cfg.Gemini.Key = "AIza-test"
	cfg.Gemini.StandardIntervalSecs = 15
	cfg.Gemini.GroundedIntervalSecs = 60
	cfg.Pipeline.ExtractTokens = 8192
	cfg.Pipeline.CompactionTokens = 16384
	cfg.Paths.InputDir = "ir_pdfs"
	cfg.Paths.OutputDir = "refined"
	cfg.Store.Path = "irreview.db"
	return cfg
}

func TestValidateBatch_AllPresent(t *testing.T) {
	assert.NoError(t, validBatch().Validate("batch"))
}

func TestValidateBatch_MissingFields(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.key is required")
	assert.Contains(t, err.Error(), "paths.input_dir is required")
}

func TestValidateBatch_CompactionBelowExtract(t *testing.T) {
	cfg := validBatch()
	cfg.Pipeline.CompactionTokens = 4096

	err := cfg.Validate("batch")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "compaction_tokens")
}

func TestValidateModels(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("models"))

	cfg.Gemini.Key = "AIza-test"
	assert.NoError(t, cfg.Validate("models"))
}

func TestValidateRecover(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("recover")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "paths.output_dir is required")
	assert.Contains(t, err.Error(), "paths.report_dir is required")

	cfg.Paths.OutputDir = "refined"
	cfg.Paths.ReportDir = "reports"
	assert.NoError(t, cfg.Validate("recover"))
}

func TestValidateRuns(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.Validate("runs"))

	cfg.Store.Path = "irreview.db"
	assert.NoError(t, cfg.Validate("runs"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validBatch().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
