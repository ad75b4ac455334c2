// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	token := cfg.Mint.APIToken
//	ordersPath := cfg.Amazon.OrdersPath
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Mint          MintConfig          `yaml:"mint"`
	Amazon        AmazonConfig        `yaml:"amazon"`
	Storage       StorageConfig       `yaml:"storage"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// MintConfig holds Mint API configuration.
type MintConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
	Cookie   string `yaml:"cookie"`
}

// AmazonConfig holds the locations of the Amazon export files.
type AmazonConfig struct {
	OrdersPath   string `yaml:"orders_path"`
	ReturnsPath  string `yaml:"returns_path"`
	LookbackDays int    `yaml:"lookback_days"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${MINT_API_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	return &Config{
		Mint: MintConfig{
			BaseURL:  getEnv("MINT_BASE_URL", "https://mint.intuit.com"),
			APIToken: os.Getenv("MINT_API_TOKEN"),
			Cookie:   os.Getenv("MINT_COOKIE"),
		},
		Amazon: AmazonConfig{
			OrdersPath:   getEnv("AMAZON_ORDERS_PATH", "orders.csv"),
			ReturnsPath:  getEnv("AMAZON_RETURNS_PATH", "returns.csv"),
			LookbackDays: getEnvInt("AMAZON_LOOKBACK_DAYS", 90),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("LINKER_DB_PATH", "mint_amazon_linker.db"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
