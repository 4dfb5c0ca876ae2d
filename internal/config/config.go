// Package config loads the service configuration from a YAML file with
// environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the taskboard.yaml configuration structure.
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	Server struct {
		Addr           string `yaml:"addr"`
		AllowedOrigin  string `yaml:"allowed_origin"`
		RequestTimeout int    `yaml:"request_timeout_seconds"`
	} `yaml:"server"`

	Database struct {
		URL            string `yaml:"url"`
		MaxConnections int    `yaml:"max_connections"`
		MaxIdle        int    `yaml:"max_idle"`
	} `yaml:"database"`

	JWT struct {
		Secret    string `yaml:"secret"`
		ExpiresIn string `yaml:"expires_in"`
	} `yaml:"jwt"`

	Password struct {
		MinLength int `yaml:"min_length"`
		Cost      int `yaml:"cost"`
	} `yaml:"password"`

	Pagination struct {
		DefaultLimit int `yaml:"default_limit"`
		MaxLimit     int `yaml:"max_limit"`
	} `yaml:"pagination"`
}

// TokenTTL parses the configured expiry into a duration.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWT.ExpiresIn)
	if err != nil {
		return 7 * 24 * time.Hour
	}
	return d
}

// Load reads the config file at path, falling back to the default search
// locations when path is empty. A missing file yields pure defaults.
func Load(path string) (*Config, error) {
	var config Config

	if path == "" {
		locations := []string{"taskboard.yaml", "taskboard.yml", ".taskboard.yaml", ".taskboard.yml"}
		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnvOverrides(&config)
	applyDefaults(&config)

	return &config, nil
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("TASKBOARD_DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("TASKBOARD_JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("TASKBOARD_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TASKBOARD_ENV"); v != "" {
		c.Environment = v
	}
}

func applyDefaults(c *Config) {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.AllowedOrigin == "" {
		c.Server.AllowedOrigin = "http://localhost:3000"
	}
	if c.Database.URL == "" {
		c.Database.URL = "postgres://localhost:5432/taskboard?sslmode=disable"
	}
	if c.Database.MaxConnections == 0 {
		c.Database.MaxConnections = 25
	}
	if c.Database.MaxIdle == 0 {
		c.Database.MaxIdle = 5
	}
	if c.JWT.Secret == "" {
		c.JWT.Secret = "fallback-secret-change-in-production"
	}
	if c.JWT.ExpiresIn == "" {
		c.JWT.ExpiresIn = "168h"
	}
	if c.Password.MinLength == 0 {
		c.Password.MinLength = 6
	}
	if c.Password.Cost == 0 {
		c.Password.Cost = 12
	}
	if c.Pagination.DefaultLimit == 0 {
		c.Pagination.DefaultLimit = 10
	}
	if c.Pagination.MaxLimit == 0 {
		c.Pagination.MaxLimit = 100
	}
}
