package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"utime/pkg/security"
	"utime/pkg/timestamp"
)

// EnvConfigPath names the environment variable the CLI reads its
// configuration file path from
const EnvConfigPath = "UTIME_CONFIG"

// Config holds the application configuration
type Config struct {
	// LogLevel specifies the logging level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFormat selects the slog handler (text, json)
	LogFormat string `yaml:"log_format"`

	// TimeFormat is the initial strptime template for -t and prompts
	TimeFormat string `yaml:"time_format"`

	// AllowedDirectories restricts the MCP server to these directories
	AllowedDirectories []string `yaml:"allowed_directories"`

	// Server configuration
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds MCP server configuration
type ServerConfig struct {
	// Name of the MCP server
	Name string `yaml:"name"`

	// Version of the MCP server
	Version string `yaml:"version"`

	// Transport specifies the transport method (stdio only)
	Transport string `yaml:"transport"`
}

// Load reads and validates configuration from the specified file path
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, fmt.Errorf("configuration file path is required")
	}

	data, err := os.ReadFile(security.ExpandHomePath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := NormalizeDirectories(&cfg); err != nil {
		return nil, fmt.Errorf("failed to process allowed directories: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv loads the file named by $UTIME_CONFIG, or returns the
// defaults when the variable is unset.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// validateConfig fills defaults and rejects unknown values
func validateConfig(cfg *Config) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if !validLevels[cfg.LogLevel] {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.TimeFormat == "" {
		cfg.TimeFormat = timestamp.DefaultFormat
	}

	if cfg.Server.Name == "" {
		cfg.Server.Name = "utime-server"
	}
	if cfg.Server.Version == "" {
		cfg.Server.Version = "1.0.0"
	}
	if cfg.Server.Transport == "" {
		cfg.Server.Transport = "stdio"
	}
	if cfg.Server.Transport != "stdio" {
		return fmt.Errorf("unsupported transport: %s", cfg.Server.Transport)
	}

	return nil
}

// NormalizeDirectories expands, absolutizes and checks every allowed
// directory.
func NormalizeDirectories(cfg *Config) error {
	normalizedDirs := make([]string, 0, len(cfg.AllowedDirectories))

	for _, dir := range cfg.AllowedDirectories {
		absDir, err := filepath.Abs(security.ExpandHomePath(dir))
		if err != nil {
			return fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
		}

		info, err := os.Stat(absDir)
		if err != nil {
			return fmt.Errorf("directory %s is not accessible: %w", absDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("path %s is not a directory", absDir)
		}

		normalizedDirs = append(normalizedDirs, filepath.Clean(absDir))
	}

	cfg.AllowedDirectories = normalizedDirs
	return nil
}

// RequireDirectories checks that the server has somewhere to operate
func (cfg *Config) RequireDirectories() error {
	if len(cfg.AllowedDirectories) == 0 {
		return fmt.Errorf("at least one allowed directory must be specified")
	}
	return nil
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		LogLevel:   "warn",
		LogFormat:  "text",
		TimeFormat: timestamp.DefaultFormat,
		Server: ServerConfig{
			Name:      "utime-server",
			Version:   "1.0.0",
			Transport: "stdio",
		},
	}
}
