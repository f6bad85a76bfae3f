// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger        LoggerConfig        `mapstructure:"logger" yaml:"logger"`
	Oracle        OracleConfig        `mapstructure:"oracle" yaml:"oracle"`
	Search        SearchConfig        `mapstructure:"search" yaml:"search"`
	Forensics     ForensicsConfig     `mapstructure:"forensics" yaml:"forensics"`
	Cache         CacheConfig         `mapstructure:"cache" yaml:"cache"`
	Chat          ChatConfig          `mapstructure:"chat" yaml:"chat"`
	Investigation InvestigationConfig `mapstructure:"investigation" yaml:"investigation"`
	ImageMeta     ImageMetaConfig     `mapstructure:"imagemeta" yaml:"imagemeta"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug string `mapstructure:"debug" yaml:"debug"`
	Info  string `mapstructure:"info" yaml:"info"`
	Warn  string `mapstructure:"warn" yaml:"warn"`
	Error string `mapstructure:"error" yaml:"error"`
	Fatal string `mapstructure:"fatal" yaml:"fatal"`
}

// OracleConfig configures the language-model completion endpoint. The
// endpoint is expected to speak the OpenAI chat-completions dialect, as
// served by a local llama.cpp server.
type OracleConfig struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Model    string `mapstructure:"model" yaml:"model"`
	APIKey   string `mapstructure:"api_key" yaml:"-"`
	// Timeout bounds a single completion call. The oracle gate is held for
	// the duration of the call, so this also bounds how long other requests
	// can be stalled behind one completion.
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	Stop      []string      `mapstructure:"stop" yaml:"stop"`
}

// SearchConfig tunes the search aggregator and its providers.
type SearchConfig struct {
	// PoolSize caps concurrent outbound search calls across ALL in-flight
	// investigations, not per request.
	PoolSize int `mapstructure:"pool_size" yaml:"pool_size"`
	// RatePerSecond limits outbound requests to the search endpoints.
	RatePerSecond float64       `mapstructure:"rate_per_second" yaml:"rate_per_second"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent     string        `mapstructure:"user_agent" yaml:"user_agent"`
	// LeakSuffix is appended to the query for the "leaked" category. This is
	// a keyword approximation, not a breach-database lookup.
	LeakSuffix string `mapstructure:"leak_suffix" yaml:"leak_suffix"`
}

// ForensicsConfig bounds a single extraction call.
type ForensicsConfig struct {
	// MaxInputBytes truncates the evidence blob before matching.
	MaxInputBytes int `mapstructure:"max_input_bytes" yaml:"max_input_bytes"`
	// PatternBudget is the time budget for one pattern over one input;
	// patterns that exceed it are skipped with a warning.
	PatternBudget time.Duration `mapstructure:"pattern_budget" yaml:"pattern_budget"`
}

// CacheConfig fixes the response-cache policy: bounded size with TTL.
type CacheConfig struct {
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// ChatConfig tunes the chat generation path.
type ChatConfig struct {
	DefaultLanguage string `mapstructure:"default_language" yaml:"default_language"`
	MaxTokens       int    `mapstructure:"max_tokens" yaml:"max_tokens"`
	// CorrectionMaxTokens bounds the one-shot language correction pass.
	CorrectionMaxTokens int `mapstructure:"correction_max_tokens" yaml:"correction_max_tokens"`
}

// InvestigationConfig tunes the investigation orchestrator.
type InvestigationConfig struct {
	MaxResults  int     `mapstructure:"max_results" yaml:"max_results"`
	Temperature float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// ImageMetaConfig bounds remote image fetches for EXIF analysis.
type ImageMetaConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxImageSize int64         `mapstructure:"max_image_size" yaml:"max_image_size"`
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "inquest")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Oracle --
	v.SetDefault("oracle.endpoint", "http://127.0.0.1:8080/v1/chat/completions")
	v.SetDefault("oracle.model", "mistral-7b-instruct-v0.1.Q4_K_M")
	v.SetDefault("oracle.timeout", "120s")
	v.SetDefault("oracle.max_tokens", 800)
	v.SetDefault("oracle.stop", []string{"</s>"})

	// -- Search --
	v.SetDefault("search.pool_size", 6)
	v.SetDefault("search.rate_per_second", 1.0)
	v.SetDefault("search.timeout", "30s")
	v.SetDefault("search.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("search.leak_suffix", "data leak breach")

	// -- Forensics --
	v.SetDefault("forensics.max_input_bytes", 1<<20)
	v.SetDefault("forensics.pattern_budget", "250ms")

	// -- Cache --
	v.SetDefault("cache.max_entries", 500)
	v.SetDefault("cache.ttl", "1h")

	// -- Chat --
	v.SetDefault("chat.default_language", "Português")
	v.SetDefault("chat.max_tokens", 800)
	v.SetDefault("chat.correction_max_tokens", 1000)

	// -- Investigation --
	v.SetDefault("investigation.max_results", 5)
	v.SetDefault("investigation.temperature", 0.7)
	v.SetDefault("investigation.max_tokens", 1000)

	// -- Image metadata --
	v.SetDefault("imagemeta.timeout", "10s")
	v.SetDefault("imagemeta.max_image_size", 20<<20)
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// Cannot happen with static defaults.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	v.BindEnv("oracle.api_key", "INQUEST_ORACLE_API_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	if c.Oracle.Endpoint == "" {
		return fmt.Errorf("oracle.endpoint must not be empty")
	}
	if c.Search.PoolSize < 1 {
		return fmt.Errorf("search.pool_size must be at least 1 (got %d)", c.Search.PoolSize)
	}
	if c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be at least 1 (got %d)", c.Cache.MaxEntries)
	}
	if c.Forensics.MaxInputBytes < 1 {
		return fmt.Errorf("forensics.max_input_bytes must be positive (got %d)", c.Forensics.MaxInputBytes)
	}
	if c.Investigation.MaxResults < 1 {
		return fmt.Errorf("investigation.max_results must be positive (got %d)", c.Investigation.MaxResults)
	}
	return nil
}
