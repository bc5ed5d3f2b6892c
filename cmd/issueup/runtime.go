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

package main

import (
	"fmt"
	"log/slog"

	"github.com/sirseerhq/issueup/internal/config"
	"github.com/sirseerhq/issueup/internal/github"
	"github.com/sirseerhq/issueup/internal/logging"
	"github.com/spf13/cobra"
)

// runtime holds what every subcommand needs once flags and config are
// resolved.
type runtime struct {
	cfg    *config.Config
	logger *slog.Logger
	token  string
}

// loadRuntime loads the config file, applies the root flags and resolves
// the API token. apply, when non-nil, lets a subcommand fold its own flags
// into the config and check them before any credential is read.
func loadRuntime(cmd *cobra.Command, flags *rootFlags, apply func(*config.Config) error) (*runtime, error) {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.credentialFile != "" {
		cfg.GitHub.CredentialFile = flags.credentialFile
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if apply != nil {
		if err := apply(cfg); err != nil {
			return nil, err
		}
	}

	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, cmd.ErrOrStderr())

	token, err := config.ResolveToken(cfg.GitHub.CredentialFile, cfg.GitHub.TokenEnv)
	if err != nil {
		return nil, err
	}

	return &runtime{cfg: cfg, logger: logger, token: token}, nil
}

// newClient builds the GraphQL client and, when retries are enabled, wraps
// it in a RetryClient. The GraphQLClient is returned as well for its
// request count.
func (rt *runtime) newClient() (*github.GraphQLClient, github.Client) {
	gql := github.NewGraphQLClient(rt.token, rt.cfg.GitHub.GraphQLEndpoint,
		github.WithPageSizes(github.PageSizes{
			Issues: rt.cfg.Pagination.IssuesPageSize,
			Items:  rt.cfg.Pagination.ItemsPageSize,
		}),
		github.WithLogger(rt.logger),
		github.WithTimeout(rt.cfg.RequestTimeout()),
	)

	if rt.cfg.Retry.MaxRetries == 0 {
		return gql, gql
	}

	initial, maximum := rt.cfg.Backoff()
	retryConfig := github.DefaultRetryConfig()
	retryConfig.MaxRetries = rt.cfg.Retry.MaxRetries
	if initial > 0 {
		retryConfig.InitialBackoff = initial
	}
	if maximum > 0 {
		retryConfig.MaxBackoff = maximum
	}
	return gql, github.NewRetryClient(gql, retryConfig, rt.logger)
}
