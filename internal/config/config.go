package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Gemini   GeminiConfig   `yaml:"gemini" mapstructure:"gemini"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// GeminiConfig holds provider credentials and rate settings.
type GeminiConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
	// StandardIntervalSecs and GroundedIntervalSecs are the fixed spacing
	// between calls of each class, derived from the provider's free-tier
	// request-per-minute quotas.
	StandardIntervalSecs int `yaml:"standard_interval_secs" mapstructure:"standard_interval_secs"`
	GroundedIntervalSecs int `yaml:"grounded_interval_secs" mapstructure:"grounded_interval_secs"`
	MaxRetries           int `yaml:"max_retries" mapstructure:"max_retries"`
}

// StandardInterval returns the standard-call spacing as a duration.
func (c GeminiConfig) StandardInterval() time.Duration {
	return time.Duration(c.StandardIntervalSecs) * time.Second
}

// GroundedInterval returns the grounded-call spacing as a duration.
func (c GeminiConfig) GroundedInterval() time.Duration {
	return time.Duration(c.GroundedIntervalSecs) * time.Second
}

// PipelineConfig configures extraction behavior.
type PipelineConfig struct {
	ExtractTokens    int `yaml:"extract_tokens" mapstructure:"extract_tokens"`
	CompactionTokens int `yaml:"compaction_tokens" mapstructure:"compaction_tokens"`
	MaxSourceChars   int `yaml:"max_source_chars" mapstructure:"max_source_chars"`
}

// PathsConfig names the batch working directories.
type PathsConfig struct {
	InputDir    string `yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	ReportDir   string `yaml:"report_dir" mapstructure:"report_dir"`
	EvidenceDir string `yaml:"evidence_dir" mapstructure:"evidence_dir"`
}

// StoreConfig configures the run ledger database.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Validate checks the fields the given command mode depends on. Modes:
// "batch" needs provider credentials and directories; "recover", "runs",
// and "models" have lighter requirements.
func (c *Config) Validate(mode string) error {
	var problems []string

	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}

	switch mode {
	case "batch":
		check(c.Gemini.Key != "", "gemini.key is required")
		check(c.Paths.InputDir != "", "paths.input_dir is required")
		check(c.Paths.OutputDir != "", "paths.output_dir is required")
		check(c.Gemini.StandardIntervalSecs > 0, "gemini.standard_interval_secs must be > 0")
		check(c.Gemini.GroundedIntervalSecs > 0, "gemini.grounded_interval_secs must be > 0")
		check(c.Pipeline.ExtractTokens > 0, "pipeline.extract_tokens must be > 0")
		check(c.Pipeline.CompactionTokens >= c.Pipeline.ExtractTokens,
			"pipeline.compaction_tokens must be >= pipeline.extract_tokens")
	case "recover":
		check(c.Paths.OutputDir != "", "paths.output_dir is required")
		check(c.Paths.ReportDir != "", "paths.report_dir is required")
	case "models":
		check(c.Gemini.Key != "", "gemini.key is required")
	case "runs":
		check(c.Store.Path != "", "store.path is required")
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("IRREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.model", "models/gemini-2.0-flash")
	v.SetDefault("gemini.standard_interval_secs", 15)
	v.SetDefault("gemini.grounded_interval_secs", 60)
	v.SetDefault("gemini.max_retries", 5)
	v.SetDefault("pipeline.extract_tokens", 8192)
	v.SetDefault("pipeline.compaction_tokens", 16384)
	v.SetDefault("pipeline.max_source_chars", 25000)
	v.SetDefault("paths.input_dir", "ir_pdfs")
	v.SetDefault("paths.output_dir", "refined")
	v.SetDefault("paths.report_dir", "reports")
	v.SetDefault("paths.evidence_dir", "evidence_cache")
	v.SetDefault("store.path", "irreview.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
