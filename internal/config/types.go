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
// issueup. These types represent settings that can be loaded from YAML or
// TOML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for issueup.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	GitHub     GitHubConfig     `yaml:"github" toml:"github"`
	Sync       SyncConfig       `yaml:"sync" toml:"sync"`
	Pagination PaginationConfig `yaml:"pagination" toml:"pagination"`
	Retry      RetryConfig      `yaml:"retry" toml:"retry"`
	Log        LogConfig        `yaml:"log" toml:"log"`
}

// GitHubConfig contains GitHub-specific settings including the GraphQL
// endpoint and where to find the API token. A custom endpoint enables
// GitHub Enterprise deployments.
type GitHubConfig struct {
	GraphQLEndpoint string `yaml:"graphql_endpoint" toml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env" toml:"token_env"`
	CredentialFile  string `yaml:"credential_file" toml:"credential_file"`
	// Timeout bounds each HTTP request, e.g. "30s". Empty means no override.
	Timeout string `yaml:"timeout" toml:"timeout"`
}

// SyncConfig holds the target of a sync run. Every field can be supplied
// or overridden on the command line.
type SyncConfig struct {
	Organization  string   `yaml:"organization" toml:"organization"`
	Repositories  []string `yaml:"repositories" toml:"repositories"`
	ProjectNumber int      `yaml:"project" toml:"project"`
	DryRun        bool     `yaml:"dry_run" toml:"dry_run"`
	// IgnoreCase compares repository names case-insensitively when matching
	// issues against project items.
	IgnoreCase bool `yaml:"ignore_case" toml:"ignore_case"`
}

// PaginationConfig sets the page size used by each paginated query.
type PaginationConfig struct {
	IssuesPageSize int `yaml:"issues_page_size" toml:"issues_page_size"`
	ItemsPageSize  int `yaml:"items_page_size" toml:"items_page_size"`
}

// RetryConfig controls retries of rate-limited or failed network requests.
// MaxRetries of zero disables retrying entirely.
type RetryConfig struct {
	MaxRetries     int    `yaml:"max_retries" toml:"max_retries"`
	InitialBackoff string `yaml:"initial_backoff" toml:"initial_backoff"`
	MaxBackoff     string `yaml:"max_backoff" toml:"max_backoff"`
}

// LogConfig selects the structured log level and format.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// DefaultTokenEnv is the environment variable holding the API token unless
// github.token_env names another.
const DefaultTokenEnv = "GH_API_KEY"

// DefaultConfig returns a Config with the defaults used against github.com.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        DefaultTokenEnv,
		},
		Pagination: PaginationConfig{
			IssuesPageSize: 10,
			ItemsPageSize:  50,
		},
		Retry: RetryConfig{
			MaxRetries:     0,
			InitialBackoff: "1s",
			MaxBackoff:     "30s",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}
