package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/pms/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Benchmark BenchmarkConfig `mapstructure:"benchmark"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	// Currency is the ISO 4217 code used when rendering amounts.
	Currency string `mapstructure:"currency"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// StoreConfig selects the trade ledger backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "memory", "sqlite" or "postgres"
	Path   string `mapstructure:"path"`   // For sqlite
	DSN    string `mapstructure:"dsn"`    // For postgres
}

// AnalyticsConfig tunes the performance report.
type AnalyticsConfig struct {
	InitialCapital  float64 `mapstructure:"initial_capital"`
	ReturnBasis     string  `mapstructure:"return_basis"` // "pnl" or "return"
	DownsideTarget  float64 `mapstructure:"downside_target"`
	Annualization   float64 `mapstructure:"annualization"`
	AggregateByDate bool    `mapstructure:"aggregate_by_date"`
}

// BenchmarkConfig holds market index comparison settings.
type BenchmarkConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Symbol   string        `mapstructure:"symbol"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file. Keys missing from the file keep their
// Defaults value. An empty path loads defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())

	// Support environment variable overrides, e.g. PMS_STORE_DSN
	v.SetEnvPrefix("pms")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "pms.db",
		},
		Analytics: AnalyticsConfig{
			ReturnBasis:   "pnl",
			Annualization: 252,
		},
		Benchmark: BenchmarkConfig{
			Enabled:  true,
			Provider: "yahoo",
			Symbol:   "^NSEI",
			Timeout:  10 * time.Second,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "archive",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Currency: "INR",
	}
}

// setDefaults registers every key, zero values included: AutomaticEnv only
// overrides keys viper already knows.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("store.driver", d.Store.Driver)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.dsn", d.Store.DSN)
	v.SetDefault("analytics.return_basis", d.Analytics.ReturnBasis)
	v.SetDefault("analytics.annualization", d.Analytics.Annualization)
	v.SetDefault("analytics.initial_capital", d.Analytics.InitialCapital)
	v.SetDefault("analytics.downside_target", d.Analytics.DownsideTarget)
	v.SetDefault("analytics.aggregate_by_date", d.Analytics.AggregateByDate)
	v.SetDefault("benchmark.enabled", d.Benchmark.Enabled)
	v.SetDefault("benchmark.provider", d.Benchmark.Provider)
	v.SetDefault("benchmark.symbol", d.Benchmark.Symbol)
	v.SetDefault("benchmark.timeout", d.Benchmark.Timeout)
	v.SetDefault("archive.type", d.Archive.Type)
	v.SetDefault("archive.path", d.Archive.Path)
	v.SetDefault("archive.s3.bucket", d.Archive.S3.Bucket)
	v.SetDefault("archive.s3.endpoint", d.Archive.S3.Endpoint)
	v.SetDefault("archive.s3.region", d.Archive.S3.Region)
	v.SetDefault("archive.s3.access_key", d.Archive.S3.AccessKey)
	v.SetDefault("archive.s3.secret_key", d.Archive.S3.SecretKey)
	v.SetDefault("archive.s3.prefix", d.Archive.S3.Prefix)
	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.claude.api_key", d.LLM.Claude.APIKey)
	v.SetDefault("llm.claude.model", d.LLM.Claude.Model)
	v.SetDefault("llm.openai.api_key", d.LLM.OpenAI.APIKey)
	v.SetDefault("llm.openai.model", d.LLM.OpenAI.Model)
	v.SetDefault("llm.ollama.endpoint", d.LLM.Ollama.Endpoint)
	v.SetDefault("llm.ollama.model", d.LLM.Ollama.Model)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("currency", d.Currency)
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("store path required when driver is sqlite"))
		}
	case "postgres":
		if c.Store.DSN == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("store dsn required when driver is postgres"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	// Analytics validation
	if c.Analytics.InitialCapital < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("initial_capital cannot be negative, got %f", c.Analytics.InitialCapital))
	}
	if c.Analytics.ReturnBasis != "" && c.Analytics.ReturnBasis != "pnl" && c.Analytics.ReturnBasis != "return" {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("return_basis must be pnl or return, got %q", c.Analytics.ReturnBasis))
	}
	if c.Analytics.Annualization < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("annualization cannot be negative, got %f", c.Analytics.Annualization))
	}

	if c.Benchmark.Enabled && c.Benchmark.Symbol == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("benchmark symbol required when benchmark is enabled"))
	}
	if c.Benchmark.Timeout < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("benchmark timeout cannot be negative, got %s", c.Benchmark.Timeout))
	}

	switch c.Archive.Type {
	case "", "localfs":
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	if len(c.Currency) != 3 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("currency must be an ISO 4217 code, got %q", c.Currency))
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider %q", c.LLM.Provider))
		}
	}

	return nil
}
