package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	errs "igflash/pkg/errors"
)

// Config holds all configuration options for igflash
type Config struct {
	// Proxy API provider settings
	Provider ProviderConfig `yaml:"provider" json:"provider"`

	// Positive and negative cache settings
	Cache CacheConfig `yaml:"cache" json:"cache"`

	// Transport retry policy
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Client-side throttle in front of the provider
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Scraper-error persistence
	Diagnostics DiagnosticsConfig `yaml:"diagnostics" json:"diagnostics"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Timezone used when rendering rate-limit reset times
	Timezone string `yaml:"timezone" json:"timezone"`

	// MediaTypes extends or overrides the upstream media-type code table
	MediaTypes map[string]string `yaml:"media_types" json:"media_types"`
}

// ProviderConfig holds the proxy API settings
type ProviderConfig struct {
	Key         string        `yaml:"key" json:"key"`
	Host        string        `yaml:"host" json:"host"`
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	TTL         time.Duration `yaml:"ttl" json:"ttl"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	FeedTimeout time.Duration `yaml:"feed_timeout" json:"feed_timeout"`
}

// CacheConfig holds cache store configuration
type CacheConfig struct {
	Backend        string        `yaml:"backend" json:"backend"`
	MaxEntries     int           `yaml:"max_entries" json:"max_entries"`
	ErrorKeyPrefix string        `yaml:"error_key_prefix" json:"error_key_prefix"`
	ErrorTTL       time.Duration `yaml:"error_ttl" json:"error_ttl"`
	Redis          RedisConfig   `yaml:"redis" json:"redis"`
}

// RedisConfig holds the shared Redis store settings
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// RetryConfig holds the transport retry policy
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
}

// RateLimitConfig holds the client-side throttle settings. Zero disables it.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
	BurstSize         int `yaml:"burst_size" json:"burst_size"`
}

// DiagnosticsConfig holds scraper-error persistence settings
type DiagnosticsConfig struct {
	ErrorsFile string `yaml:"errors_file" json:"errors_file"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`

	// Rotation of File: size in megabytes, backups kept, age in days
	MaxSize    int  `yaml:"max_size" json:"max_size"`
	MaxBackups int  `yaml:"max_backups" json:"max_backups"`
	MaxAge     int  `yaml:"max_age" json:"max_age"`
	Compress   bool `yaml:"compress" json:"compress"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Host:        "instagram-scraper-api2.p.rapidapi.com",
			TTL:         time.Hour,
			Timeout:     20 * time.Second,
			FeedTimeout: 25 * time.Second,
		},
		Cache: CacheConfig{
			Backend:        "memory",
			MaxEntries:     10000,
			ErrorKeyPrefix: "scraper_error:",
			ErrorTTL:       10 * time.Minute,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "igflash:",
			},
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			Delay:       500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     28,
		},
		Timezone: "UTC",
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	var problems []error

	if key := os.Getenv("IGFLASH_API_KEY"); key != "" {
		c.Provider.Key = key
	}
	if host := os.Getenv("IGFLASH_API_HOST"); host != "" {
		c.Provider.Host = host
	}
	if baseURL := os.Getenv("IGFLASH_BASE_URL"); baseURL != "" {
		c.Provider.BaseURL = baseURL
	}
	if ttl := os.Getenv("IGFLASH_CACHE_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			problems = append(problems, fmt.Errorf("IGFLASH_CACHE_TTL: %w", err))
		} else {
			c.Provider.TTL = d
		}
	}
	if ttl := os.Getenv("IGFLASH_ERROR_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			problems = append(problems, fmt.Errorf("IGFLASH_ERROR_TTL: %w", err))
		} else {
			c.Cache.ErrorTTL = d
		}
	}
	if prefix := os.Getenv("IGFLASH_ERROR_KEY_PREFIX"); prefix != "" {
		c.Cache.ErrorKeyPrefix = prefix
	}
	if backend := os.Getenv("IGFLASH_CACHE_BACKEND"); backend != "" {
		c.Cache.Backend = strings.ToLower(backend)
	}
	if addr := os.Getenv("IGFLASH_REDIS_ADDR"); addr != "" {
		c.Cache.Redis.Addr = addr
	}
	if password := os.Getenv("IGFLASH_REDIS_PASSWORD"); password != "" {
		c.Cache.Redis.Password = password
	}
	if rpm := os.Getenv("IGFLASH_REQUESTS_PER_MINUTE"); rpm != "" {
		val, err := strconv.Atoi(rpm)
		if err != nil {
			problems = append(problems, fmt.Errorf("IGFLASH_REQUESTS_PER_MINUTE: %w", err))
		} else {
			c.RateLimit.RequestsPerMinute = val
		}
	}
	if file := os.Getenv("IGFLASH_ERRORS_FILE"); file != "" {
		c.Diagnostics.ErrorsFile = file
	}
	if tz := os.Getenv("IGFLASH_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
	if logLevel := os.Getenv("IGFLASH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return errors.Join(problems...)
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	home := os.Getenv("HOME")
	locations := []string{
		".igflash.yaml",
		".igflash.yml",
		filepath.Join(home, ".config", "igflash", "config.yaml"),
		filepath.Join(home, ".config", "igflash", "config.yml"),
		filepath.Join(home, ".igflash.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var problems []error

	if c.Provider.Key == "" {
		problems = append(problems, errors.New("provider API key is required"))
	}
	if c.Provider.Host == "" {
		problems = append(problems, errors.New("provider host is required"))
	}
	if c.Provider.TTL <= 0 {
		problems = append(problems, errors.New("cache ttl must be positive"))
	}
	if c.Provider.Timeout <= 0 || c.Provider.FeedTimeout <= 0 {
		problems = append(problems, errors.New("provider timeouts must be positive"))
	}

	if c.Cache.ErrorTTL <= 0 {
		problems = append(problems, errors.New("error cache ttl must be positive"))
	}
	if c.Cache.ErrorTTL >= c.Provider.TTL && c.Provider.TTL > 0 {
		problems = append(problems, errors.New("error cache ttl must be shorter than cache ttl"))
	}
	switch strings.ToLower(c.Cache.Backend) {
	case "memory":
		if c.Cache.MaxEntries <= 0 {
			problems = append(problems, errors.New("cache max entries must be positive"))
		}
	case "redis":
		if c.Cache.Redis.Addr == "" {
			problems = append(problems, errors.New("redis address is required for the redis backend"))
		}
	default:
		problems = append(problems, fmt.Errorf("unknown cache backend %q", c.Cache.Backend))
	}

	if c.Retry.MaxAttempts < 1 {
		problems = append(problems, errors.New("retry max attempts must be at least 1"))
	}
	if c.Retry.Delay < 0 {
		problems = append(problems, errors.New("retry delay cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		problems = append(problems, errors.New("requests per minute cannot be negative"))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Errorf("invalid timezone: %w", err))
	}

	if c.Logging.MaxSize < 0 || c.Logging.MaxBackups < 0 || c.Logging.MaxAge < 0 {
		problems = append(problems, errors.New("log rotation limits cannot be negative"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		problems = append(problems, errors.New("invalid log level"))
	}

	validMediaTypes := map[string]bool{"photo": true, "video": true, "carousel": true, "unknown": true}
	for code, mediaType := range c.MediaTypes {
		if !validMediaTypes[mediaType] {
			problems = append(problems, fmt.Errorf("media type code %q maps to invalid type %q", code, mediaType))
		}
	}

	if len(problems) > 0 {
		return errs.Wrap(errs.ErrorTypeConfiguration, "invalid configuration", errors.Join(problems...))
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if key, ok := flags["api-key"].(string); ok && key != "" {
		c.Provider.Key = key
	}
	if host, ok := flags["api-host"].(string); ok && host != "" {
		c.Provider.Host = host
	}
	if backend, ok := flags["cache-backend"].(string); ok && backend != "" {
		c.Cache.Backend = backend
	}
	if addr, ok := flags["redis-addr"].(string); ok && addr != "" {
		c.Cache.Redis.Addr = addr
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".igflash.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfiguration, "failed to load config file", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfiguration, "failed to load environment variables", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
