// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for jira-relay with
// support for multiple configuration sources and a well-defined precedence
// order. It lets scheduled deployments customize behavior through
// configuration files and dotenv files while keeping command-line
// overrides available for ad-hoc runs.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Process environment variables
//  3. Dotenv file entries (never override existing process environment)
//  4. YAML configuration file
//  5. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .jira-relay.yaml (current directory)
//   - .jira-relay.yml (current directory)
//   - ~/.jira-relay/config.yaml
//   - ~/.jira-relay/config.yml
//
// The dotenv file at envFile is loaded before environment variables are
// read; godotenv never overwrites variables already present in the process
// environment, which gives the process environment precedence over the
// file. A missing dotenv file is not an error, matching the common case of
// credentials arriving through the real environment.
//
// Credentials and the health-check URL are then resolved from the
// environment using the variable names in the Jira section.
func LoadConfig(configPath, envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		defaultPaths := []string{
			".jira-relay.yaml",
			".jira-relay.yml",
			filepath.Join(os.Getenv("HOME"), ".jira-relay", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".jira-relay", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides resolves credentials and the health-check URL from the
// environment. The variable names themselves are configurable so multiple
// relay instances can coexist on one host.
func applyEnvOverrides(cfg *Config) {
	if email := os.Getenv(cfg.Jira.EmailEnv); email != "" {
		cfg.Email = email
	}
	if token := os.Getenv(cfg.Jira.TokenEnv); token != "" {
		cfg.Token = token
	}
	if url := os.Getenv("HEALTH_CHECK_URL"); url != "" {
		cfg.HealthCheckURL = url
	}
}

// InitialBackoff returns the configured initial retry backoff as a duration.
func (c *Config) InitialBackoff() time.Duration {
	return time.Duration(c.Retry.InitialBackoffSecs) * time.Second
}

// MaxBackoff returns the configured maximum retry backoff as a duration.
func (c *Config) MaxBackoff() time.Duration {
	return time.Duration(c.Retry.MaxBackoffSecs) * time.Second
}

// Validate checks if the configuration contains valid values. It ensures
// the look-back window and page size are within Jira's limits and that the
// target site and project are set. This should be called after flag
// overrides are applied to catch invalid settings early.
func (c *Config) Validate() error {
	if c.Jira.BaseURL == "" {
		return fmt.Errorf("jira base URL cannot be empty")
	}
	if c.Defaults.Project == "" {
		return fmt.Errorf("project key cannot be empty")
	}
	if c.Defaults.Database == "" {
		return fmt.Errorf("database path cannot be empty")
	}
	if c.Defaults.Days <= 0 {
		return fmt.Errorf("look-back window must be positive, got: %d", c.Defaults.Days)
	}
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("page size %d exceeds Jira API limit of 100", c.Defaults.PageSize)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got: %d", c.Retry.MaxRetries)
	}
	return nil
}
