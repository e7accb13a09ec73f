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

// Package config types define the configuration structures used throughout
// jira-relay. These types represent settings that can be loaded from YAML
// configuration files, environment variables (including dotenv files), or
// command-line flags.
package config

// Config represents the complete configuration for jira-relay.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	Jira           JiraConfig     `yaml:"jira"`
	Defaults       DefaultsConfig `yaml:"defaults"`
	Retry          RetryConfig    `yaml:"retry"`
	HealthCheckURL string         `yaml:"health_check_url"`

	// Email and Token are the resolved Jira credentials. They are never
	// read from the YAML file; they come from flags or the environment.
	Email string `yaml:"-"`
	Token string `yaml:"-"`
}

// JiraConfig contains Jira-specific settings including the Cloud site URL
// and the names of the environment variables holding credentials. This
// allows deployments against a different Atlassian site without code
// changes.
type JiraConfig struct {
	BaseURL    string `yaml:"base_url"`
	APIVersion string `yaml:"api_version"`
	EmailEnv   string `yaml:"email_env"`
	TokenEnv   string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to all sync
// operations unless overridden by command-line flags. These settings
// control the core behavior of the sync process.
type DefaultsConfig struct {
	Database string `yaml:"database"`
	Project  string `yaml:"project"`
	Days     int    `yaml:"days"`
	PageSize int    `yaml:"page_size"`
}

// RetryConfig controls retry behavior for transient Jira API failures.
// Backoff durations are expressed in seconds to keep the YAML plain.
type RetryConfig struct {
	MaxRetries         int `yaml:"max_retries"`
	InitialBackoffSecs int `yaml:"initial_backoff_secs"`
	MaxBackoffSecs     int `yaml:"max_backoff_secs"`
}

// DefaultConfig returns a Config with sensible defaults suitable for the
// standard deployment. These defaults target the Quadram Institute Jira
// Cloud site but can be overridden for other Atlassian sites.
func DefaultConfig() *Config {
	return &Config{
		Jira: JiraConfig{
			BaseURL:    "https://quadram-institute.atlassian.net",
			APIVersion: "2",
			EmailEnv:   "JIRA_EMAIL",
			TokenEnv:   "JIRA_TOKEN",
		},
		Defaults: DefaultsConfig{
			Database: "qib-jira.db",
			Project:  "BSUP",
			Days:     30,
			PageSize: 100,
		},
		Retry: RetryConfig{
			MaxRetries:         3,
			InitialBackoffSecs: 1,
			MaxBackoffSecs:     30,
		},
	}
}
