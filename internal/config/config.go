package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Session storage backends
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config structure represents the client configuration
type Config struct {
	API struct {
		BaseURL   string `yaml:"base_url" env:"EDUQUEST_API_URL"`
		Timeout   string `yaml:"timeout" env:"EDUQUEST_API_TIMEOUT"`
		UserAgent string `yaml:"user_agent" env:"EDUQUEST_USER_AGENT"`
	} `yaml:"api"`

	Session struct {
		Backend       string `yaml:"backend" env:"EDUQUEST_SESSION_BACKEND"`
		FilePath      string `yaml:"file_path" env:"EDUQUEST_SESSION_FILE"`
		Profile       string `yaml:"profile" env:"EDUQUEST_PROFILE"`
		RedisAddr     string `yaml:"redis_addr" env:"EDUQUEST_REDIS_ADDR"`
		RedisPassword string `yaml:"redis_password" env:"EDUQUEST_REDIS_PASSWORD"`
		RedisDB       int    `yaml:"redis_db" env:"EDUQUEST_REDIS_DB"`
		RedisPrefix   string `yaml:"redis_prefix" env:"EDUQUEST_REDIS_PREFIX"`
	} `yaml:"session"`

	Server struct {
		Port string `yaml:"port" env:"EDUQUEST_SERVER_PORT"`
		Mode string `yaml:"mode" env:"EDUQUEST_SERVER_MODE"`
	} `yaml:"server"`

	Cache struct {
		TTL string `yaml:"ttl" env:"EDUQUEST_CACHE_TTL"`
	} `yaml:"cache"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// DefaultDir returns the per-user directory holding config and session state
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".eduquest"
	}
	return filepath.Join(home, ".eduquest")
}

// DefaultPath returns the default config file location
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// LoadConfig loads configuration from a file and environment variables.
// A missing file is not an error; defaults and env vars still apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}

			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.API.BaseURL = "http://localhost:8080/api"
	config.API.Timeout = "15s"
	config.API.UserAgent = "eduquest-client/1.0"

	config.Session.Backend = BackendFile
	config.Session.FilePath = filepath.Join(DefaultDir(), "session.json")
	config.Session.Profile = "default"
	config.Session.RedisAddr = "localhost:6379"
	config.Session.RedisPrefix = "eduquest:session:"

	config.Server.Port = "5173"
	config.Server.Mode = "development"

	config.Cache.TTL = "30s"

	config.Logging.Level = "info"
	config.Logging.Format = "text"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.API.BaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	u, err := url.Parse(config.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API base URL must be absolute, got %q", config.API.BaseURL)
	}

	if _, err := time.ParseDuration(config.API.Timeout); err != nil {
		return fmt.Errorf("invalid API timeout format: %w", err)
	}

	if _, err := time.ParseDuration(config.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache TTL format: %w", err)
	}

	switch config.Session.Backend {
	case BackendFile:
		if config.Session.FilePath == "" {
			return fmt.Errorf("session file path is required for the file backend")
		}
	case BackendRedis:
		if config.Session.RedisAddr == "" {
			return fmt.Errorf("redis address is required for the redis backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown session backend %q", config.Session.Backend)
	}

	if config.Session.Profile == "" {
		return fmt.Errorf("session profile is required")
	}

	return nil
}

// APITimeout returns the parsed gateway request timeout
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// CacheTTL returns the parsed view cache TTL
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
