package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// StorageBackend selects the PaymentRepository implementation.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	App struct {
		Env string `yaml:"env"`
	} `yaml:"app"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Bank struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"bank"`
	Storage struct {
		Backend        string `yaml:"backend"` // memory | redis
		RetentionHours int    `yaml:"retention_hours"`
	} `yaml:"storage"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled          bool   `yaml:"enabled"`
		BootstrapServers string `yaml:"bootstrap_servers"`
		Topic            string `yaml:"topic"`
	} `yaml:"kafka"`
	Tracing struct {
		Enabled      bool   `yaml:"enabled"`
		OTLPEndpoint string `yaml:"otlp_endpoint"`
	} `yaml:"tracing"`
	RateLimit struct {
		Limit         int `yaml:"limit"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
}

func Load(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Substitute environment variables into the raw YAML before parsing.
	expandedFile := os.ExpandEnv(string(file))

	if err := yaml.Unmarshal([]byte(expandedFile), config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// BankTimeout returns the outbound bank call timeout, defaulting to 5s.
func (c *Config) BankTimeout() time.Duration {
	if c.Bank.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Bank.TimeoutSeconds) * time.Second
}

// RetentionTTL returns the payment retention window, defaulting to 12h.
func (c *Config) RetentionTTL() time.Duration {
	if c.Storage.RetentionHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Storage.RetentionHours) * time.Hour
}

// RateLimitWindow returns the rate limiter window, defaulting to one minute.
func (c *Config) RateLimitWindow() time.Duration {
	if c.RateLimit.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}
