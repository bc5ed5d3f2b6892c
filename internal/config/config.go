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

// Package config provides configuration management for issueup with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file (YAML or TOML)
//  4. Built-in defaults
//
// Command-line flags are applied by the CLI after LoadConfig returns.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// maxPageSize is the largest "first" argument GitHub accepts on a connection.
const maxPageSize = 100

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .issueup.yaml, .issueup.yml, .issueup.toml (current directory)
//   - ~/.issueup/config.yaml, ~/.issueup/config.yml, ~/.issueup/config.toml
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		home := os.Getenv("HOME")
		defaultPaths := []string{
			".issueup.yaml",
			".issueup.yml",
			".issueup.toml",
			filepath.Join(home, ".issueup", "config.yaml"),
			filepath.Join(home, ".issueup", "config.yml"),
			filepath.Join(home, ".issueup", "config.toml"),
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

	applyEnvOverrides(cfg)

	if cfg.GitHub.CredentialFile != "" {
		cfg.GitHub.CredentialFile = expandPath(cfg.GitHub.CredentialFile)
	}

	return cfg, nil
}

// loadConfigFile reads and parses a config file. Files ending in .toml are
// parsed as TOML, everything else as YAML.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if endpoint := os.Getenv("ISSUEUP_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if size := os.Getenv("ISSUEUP_ISSUES_PAGE_SIZE"); size != "" {
		if n, err := parsePositiveInt(size); err == nil {
			cfg.Pagination.IssuesPageSize = n
		}
	}
	if size := os.Getenv("ISSUEUP_ITEMS_PAGE_SIZE"); size != "" {
		if n, err := parsePositiveInt(size); err == nil {
			cfg.Pagination.ItemsPageSize = n
		}
	}

	if retries := os.Getenv("ISSUEUP_MAX_RETRIES"); retries != "" {
		var n int
		if _, err := fmt.Sscanf(retries, "%d", &n); err == nil && n >= 0 {
			cfg.Retry.MaxRetries = n
		}
	}

	if level := os.Getenv("ISSUEUP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	if ignoreCase := os.Getenv("ISSUEUP_IGNORE_CASE"); ignoreCase != "" {
		cfg.Sync.IgnoreCase = parseBool(ignoreCase)
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// RequestTimeout returns the parsed per-request timeout, zero when unset.
func (c *Config) RequestTimeout() time.Duration {
	d, _ := time.ParseDuration(c.GitHub.Timeout)
	return d
}

// Backoff returns the parsed initial and maximum retry backoff.
func (c *Config) Backoff() (initial, maximum time.Duration) {
	initial, _ = time.ParseDuration(c.Retry.InitialBackoff)
	maximum, _ = time.ParseDuration(c.Retry.MaxBackoff)
	return initial, maximum
}

// Validate checks if the configuration contains valid values. It ensures
// page sizes are within GitHub's limits, the endpoint is not empty, and
// durations parse. Call it after flags have been applied.
func (c *Config) Validate() error {
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	for name, size := range map[string]int{
		"issues page size": c.Pagination.IssuesPageSize,
		"items page size":  c.Pagination.ItemsPageSize,
	} {
		if size <= 0 {
			return fmt.Errorf("%s must be positive, got: %d", name, size)
		}
		if size > maxPageSize {
			return fmt.Errorf("%s %d exceeds GitHub API limit of %d", name, size, maxPageSize)
		}
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative, got: %d", c.Retry.MaxRetries)
	}
	for name, value := range map[string]string{
		"timeout":         c.GitHub.Timeout,
		"initial backoff": c.Retry.InitialBackoff,
		"max backoff":     c.Retry.MaxBackoff,
	} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

// ValidateSync checks that a sync target is fully specified.
func (c *Config) ValidateSync() error {
	if c.Sync.Organization == "" {
		return fmt.Errorf("organization is required")
	}
	if len(c.Sync.Repositories) == 0 {
		return fmt.Errorf("at least one repository is required")
	}
	for _, repo := range c.Sync.Repositories {
		if strings.TrimSpace(repo) == "" || strings.Contains(repo, "/") {
			return fmt.Errorf("invalid repository name %q: expected a name within %s", repo, c.Sync.Organization)
		}
	}
	if c.Sync.ProjectNumber <= 0 {
		return fmt.Errorf("project number must be positive, got: %d", c.Sync.ProjectNumber)
	}
	return nil
}
