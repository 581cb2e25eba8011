package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Bunjang   BunjangConfig
	Joongna   JoongnaConfig
	Tagging   TaggingConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// BunjangConfig holds Bunjang upstream configuration
type BunjangConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// JoongnaConfig holds Joongna upstream configuration. BuildID addresses the
// Next.js page-data API revision and must track the deployed frontend.
type JoongnaConfig struct {
	SearchBaseURL string        `mapstructure:"search_base_url"`
	WebBaseURL    string        `mapstructure:"web_base_url"`
	BuildID       string        `mapstructure:"build_id"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// TaggingConfig selects and configures the tag derivation strategy
type TaggingConfig struct {
	Strategy string        `mapstructure:"strategy"` // "rules" or "generative"
	BaseURL  string        `mapstructure:"base_url"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// SearchConfig holds aggregation engine tuning
type SearchConfig struct {
	DetailConcurrency int `mapstructure:"detail_concurrency"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// DatabaseConfig holds the optional credential store connection. When URL is
// empty the connectors run without stored platform tokens.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/simbatda/")

	// Environment variable settings
	v.SetEnvPrefix("SIMBATDA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Upstream defaults
	v.SetDefault("bunjang.base_url", "https://api.bunjang.co.kr")
	v.SetDefault("bunjang.timeout", "10s")
	v.SetDefault("joongna.search_base_url", "https://search-api.joongna.com")
	v.SetDefault("joongna.web_base_url", "https://web.joongna.com")
	v.SetDefault("joongna.build_id", "IbsrShCh_D7Jq0fPM02Yw")
	v.SetDefault("joongna.timeout", "10s")

	// Tagging defaults
	v.SetDefault("tagging.strategy", "rules")
	v.SetDefault("tagging.base_url", "http://localhost:8081")
	v.SetDefault("tagging.model", "exaone-4.0-1.2b")
	v.SetDefault("tagging.timeout", "30s")

	// Search defaults
	v.SetDefault("search.detail_concurrency", 8)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)

	// Credential store is opt-in; empty URL disables it
	v.SetDefault("database.url", "")
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Tagging.Strategy {
	case "rules":
	case "generative":
		if config.Tagging.BaseURL == "" || config.Tagging.Model == "" {
			return fmt.Errorf("generative tagging requires tagging.base_url and tagging.model")
		}
	default:
		return fmt.Errorf("tagging strategy must be 'rules' or 'generative', got: %s", config.Tagging.Strategy)
	}

	if config.Joongna.BuildID == "" {
		return fmt.Errorf("Joongna build id is required (set SIMBATDA_JOONGNA_BUILD_ID)")
	}

	if config.Search.DetailConcurrency < 1 {
		return fmt.Errorf("search.detail_concurrency must be at least 1, got: %d", config.Search.DetailConcurrency)
	}

	return nil
}
