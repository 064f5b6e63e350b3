package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/flow-layout/internal/arrange"
	"github.com/eugenenazirov/flow-layout/internal/storage"
)

const (
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultMaxItems       = 1000
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	LogLevel             string
	Layout               storage.Settings
	InlineFirst          bool
	MaxItems             int
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string        `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	ShutdownGracePeriod  string        `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string        `yaml:"read_header_timeout"`
	WriteTimeout         string        `yaml:"write_timeout"`
	IdleTimeout          string        `yaml:"idle_timeout"`
	EnableRequestLogging *bool         `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit `yaml:"rate_limit"`
	Layout               yamlLayout    `yaml:"layout"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// yamlLayout represents the layout section in YAML.
type yamlLayout struct {
	Algorithm   string   `yaml:"algorithm"`
	Spacing     *float64 `yaml:"spacing"`
	Radius      *float64 `yaml:"radius"`
	ItemCount   *int     `yaml:"item_count"`
	InlineFirst *bool    `yaml:"inline_first"`
	MaxItems    *int     `yaml:"max_items"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile     string
	Port           *string
	LogLevel       *string
	Algorithm      *string
	Spacing        *float64
	Radius         *float64
	InlineFirst    *bool
	RateLimitRPS   *float64
	RateLimitBurst *int
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Environment first so the YAML file can override it
	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, err
	}

	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		if err := applyYAMLConfig(&cfg, yamlCfg); err != nil {
			return Config{}, fmt.Errorf("apply YAML config: %w", err)
		}
	}

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		if err := applyCLIOverrides(&cfg, overrides); err != nil {
			return Config{}, err
		}
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		LogLevel:             defaultLogLevel,
		Layout:               storage.DefaultSettings(),
		MaxItems:             defaultMaxItems,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) error {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"shutdown_grace_period", yamlCfg.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"read_header_timeout", yamlCfg.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"write_timeout", yamlCfg.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", yamlCfg.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if yamlCfg.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *yamlCfg.EnableRequestLogging
	}
	if yamlCfg.RateLimit.RPS != nil {
		cfg.RateLimitRPS = *yamlCfg.RateLimit.RPS
	}
	if yamlCfg.RateLimit.Burst != nil {
		cfg.RateLimitBurst = *yamlCfg.RateLimit.Burst
	}

	layout := yamlCfg.Layout
	if layout.Algorithm != "" {
		alg, err := arrange.Parse(layout.Algorithm)
		if err != nil {
			return err
		}
		cfg.Layout.Algorithm = alg
	}
	if layout.Spacing != nil {
		cfg.Layout.Spacing = *layout.Spacing
	}
	if layout.Radius != nil {
		cfg.Layout.Radius = *layout.Radius
	}
	if layout.ItemCount != nil {
		cfg.Layout.ItemCount = *layout.ItemCount
	}
	if layout.InlineFirst != nil {
		cfg.InlineFirst = *layout.InlineFirst
	}
	if layout.MaxItems != nil {
		cfg.MaxItems = *layout.MaxItems
	}

	return nil
}

// applyEnvConfig applies environment variable configuration. Layout values
// that fail to parse are errors; out-of-range values are left for
// validateConfig. Malformed rate limit values are ignored.
func applyEnvConfig(cfg *Config) error {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if level := strings.TrimSpace(os.Getenv("LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if name := strings.TrimSpace(os.Getenv("LAYOUT_ALGORITHM")); name != "" {
		alg, err := arrange.Parse(name)
		if err != nil {
			return fmt.Errorf("LAYOUT_ALGORITHM: %w", err)
		}
		cfg.Layout.Algorithm = alg
	}

	if spacing := strings.TrimSpace(os.Getenv("LAYOUT_SPACING")); spacing != "" {
		value, err := strconv.ParseFloat(spacing, 64)
		if err != nil {
			return fmt.Errorf("LAYOUT_SPACING: %w", err)
		}
		cfg.Layout.Spacing = value
	}

	if radius := strings.TrimSpace(os.Getenv("CIRCLE_RADIUS")); radius != "" {
		value, err := strconv.ParseFloat(radius, 64)
		if err != nil {
			return fmt.Errorf("CIRCLE_RADIUS: %w", err)
		}
		cfg.Layout.Radius = value
	}

	if count := strings.TrimSpace(os.Getenv("ITEM_COUNT")); count != "" {
		value, err := strconv.Atoi(count)
		if err != nil {
			return fmt.Errorf("ITEM_COUNT: %w", err)
		}
		cfg.Layout.ItemCount = value
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil {
			cfg.RateLimitBurst = value
		}
	}

	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) error {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}

	if overrides.Algorithm != nil && *overrides.Algorithm != "" {
		alg, err := arrange.Parse(*overrides.Algorithm)
		if err != nil {
			return fmt.Errorf("parse algorithm: %w", err)
		}
		cfg.Layout.Algorithm = alg
	}

	if overrides.Spacing != nil {
		cfg.Layout.Spacing = *overrides.Spacing
	}

	if overrides.Radius != nil {
		cfg.Layout.Radius = *overrides.Radius
	}

	if overrides.InlineFirst != nil {
		cfg.InlineFirst = *overrides.InlineFirst
	}

	if overrides.RateLimitRPS != nil {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	return nil
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.MaxItems <= 0 {
		return fmt.Errorf("layout.max_items must be positive")
	}
	if err := storage.Validate(cfg.Layout); err != nil {
		return fmt.Errorf("layout: %w", err)
	}
	return nil
}
