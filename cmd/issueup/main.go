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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
	"github.com/sirseerhq/issueup/pkg/version"
	"github.com/spf13/cobra"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	configPath     string
	credentialFile string
	logLevel       string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(mapErrorToExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "issueup",
		Short: "Add open GitHub issues to an organization project board",
		Long: `issueup keeps a GitHub Projects board in step with the open issues of
one or more repositories. It reads the items already on the board, finds the
open issues that are not there yet, and adds each of them.

Running it again files nothing new, so it is safe to schedule.`,
		Version:       version.Version,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default: .issueup.yaml or ~/.issueup/config.yaml)")
	pf.StringVarP(&flags.credentialFile, "credential-file", "c", "", "File containing the GitHub API key (default: $GH_API_KEY)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Diagnostic log level: debug, info, warn or error")

	rootCmd.AddCommand(newSyncCommand(flags))
	rootCmd.AddCommand(newCheckCommand(flags))

	return rootCmd
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relaierrors.ErrCredentialMissing) {
		return 1
	}

	// Check for specific error types
	if errors.Is(err, relaierrors.ErrInvalidToken) ||
		errors.Is(err, relaierrors.ErrNotFound) ||
		errors.Is(err, relaierrors.ErrMissingField) ||
		errors.Is(err, relaierrors.ErrRateLimit) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relaierrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
