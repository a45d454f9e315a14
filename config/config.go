package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the news agent
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Search    SearchConfig    `mapstructure:"search"`
	Extract   ExtractConfig   `mapstructure:"extract"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// LLMConfig selects and configures the completion provider
type LLMConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.Provider) == "" {
		return fmt.Errorf("llm.provider required")
	}
	return nil
}

// SearchConfig selects and configures the article search provider
type SearchConfig struct {
	Provider string        `mapstructure:"provider"`
	APIKey   string        `mapstructure:"api_key"`
	Sites    []string      `mapstructure:"sites"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (s SearchConfig) Validate() error {
	if strings.TrimSpace(s.Provider) == "" {
		return fmt.Errorf("search.provider required")
	}
	return nil
}

// ExtractConfig selects and configures the full-content fetcher
type ExtractConfig struct {
	Fetcher  string        `mapstructure:"fetcher"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	MaxChars int           `mapstructure:"max_chars"`
}

func (e ExtractConfig) Validate() error {
	if strings.TrimSpace(e.Fetcher) == "" {
		return fmt.Errorf("extract.fetcher required")
	}
	if e.MaxChars < 0 {
		return fmt.Errorf("extract.max_chars cannot be negative")
	}
	return nil
}

// CacheConfig configures the article cache
type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func (c CacheConfig) Validate() error {
	switch c.Type {
	case "", "none", "memory":
		return nil
	case "redis":
		if strings.TrimSpace(c.Addr) == "" {
			return fmt.Errorf("cache.addr required when cache.type is redis")
		}
		return nil
	default:
		return fmt.Errorf("cache.type must be one of none, memory, redis")
	}
}

// TelemetryConfig contains telemetry settings
type TelemetryConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	PeriodicLogs bool `mapstructure:"periodic_logs"`
}

// Normalize fills derived defaults that depend on other sections.
func (c Config) Normalize() Config {
	// The exa search and extraction APIs share a key.
	if c.Extract.APIKey == "" {
		c.Extract.APIKey = c.Search.APIKey
	}
	return c
}

// LoadConfig loads config from file
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("general.debug", false)
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.api_key", "")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.base_url", "")
	viper.SetDefault("llm.timeout", "60s")
	viper.SetDefault("search.provider", "exa")
	viper.SetDefault("search.api_key", "")
	viper.SetDefault("search.sites", []string{
		"news.yahoo.com", "reuters.com", "apnews.com", "bbc.com", "cnn.com", "nbcnews.com",
	})
	viper.SetDefault("search.timeout", "10s")
	viper.SetDefault("extract.fetcher", "exa")
	viper.SetDefault("extract.api_key", "")
	viper.SetDefault("extract.timeout", "15s")
	viper.SetDefault("extract.max_chars", 20000)
	viper.SetDefault("cache.type", "none")
	viper.SetDefault("cache.addr", "")
	viper.SetDefault("cache.password", "")
	viper.SetDefault("cache.db", 0)
	viper.SetDefault("cache.ttl", "10m")
	viper.SetDefault("telemetry.enabled", true)
	viper.SetDefault("telemetry.periodic_logs", false)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("NEWSAGENT")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	viper.AutomaticEnv() // read in environment variables that match (NEWSAGENT_*)

	if err := viper.ReadInConfig(); err != nil {
		// Defaults plus environment are a complete configuration; a missing
		// file is only fatal when one was named explicitly.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	config = config.Normalize()

	if err := config.LLM.Validate(); err != nil {
		panic(err)
	}
	if err := config.Search.Validate(); err != nil {
		panic(err)
	}
	if err := config.Extract.Validate(); err != nil {
		panic(err)
	}
	if err := config.Cache.Validate(); err != nil {
		panic(err)
	}
	return &config
}
