// Package config loads artic-table settings from a YAML file and ARTIC_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g. ARTIC_API_PAGE_SIZE.
const EnvPrefix = "ARTIC"

// Config holds all application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Logging LoggingConfig `mapstructure:"logging"`
	Server  ServerConfig  `mapstructure:"server"`
}

// APIConfig holds catalog API settings
type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	PageSize  int           `mapstructure:"page_size"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds the optional response cache backend
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
	File   string `mapstructure:"file"` // used by the terminal UI
}

// ServerConfig holds settings of the serve command
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:   catalog.DefaultBaseURL,
			UserAgent: "artic-table (https://github.com/Sternrassler/artic-table)",
			PageSize:  catalog.DefaultPageSize,
			Timeout:   30 * time.Second,
		},
		Redis: RedisConfig{
			Enabled: false,
			Addr:    "localhost:6379",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  defaultLogPath(),
		},
		Server: ServerConfig{
			Port: 8080,
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "artic-table", "artic-table.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "artic-table", "artic-table.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "artic-table")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "artic-table")
}

// Load reads configuration from file and environment. An explicit path
// must exist; otherwise config.yaml is looked up in the user config
// directory and the working directory, and a missing file means defaults.
func Load(path string) (*Config, error) {
	return load(viper.New(), path)
}

func load(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to keys
// absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.base_url", cfg.API.BaseURL)
	v.SetDefault("api.user_agent", cfg.API.UserAgent)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.timeout", cfg.API.Timeout)

	v.SetDefault("redis.enabled", cfg.Redis.Enabled)
	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.pretty", cfg.Logging.Pretty)
	v.SetDefault("logging.file", cfg.Logging.File)

	v.SetDefault("server.port", cfg.Server.Port)
}

// Validate checks values the catalog client would reject late.
func (c *Config) Validate() error {
	if c.API.UserAgent == "" {
		return fmt.Errorf("api.user_agent must not be empty")
	}
	if c.API.PageSize < 1 || c.API.PageSize > catalog.MaxPageSize {
		return fmt.Errorf("api.page_size must be between 1 and %d (got %d)", catalog.MaxPageSize, c.API.PageSize)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}
	return nil
}

// Catalog returns the catalog client settings. The Redis client is
// attached by the caller when Redis is enabled.
func (c *Config) Catalog() catalog.Config {
	return catalog.Config{
		BaseURL:   c.API.BaseURL,
		UserAgent: c.API.UserAgent,
		PageSize:  c.API.PageSize,
		Timeout:   c.API.Timeout,
	}
}
