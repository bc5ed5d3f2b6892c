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
	"io"
	"log/slog"

	"github.com/sirseerhq/issueup/internal/config"
	"github.com/sirseerhq/issueup/internal/issuesync"
	"github.com/sirseerhq/issueup/internal/metadata"
	"github.com/sirseerhq/issueup/internal/output"
	"github.com/sirseerhq/issueup/internal/progress"
	"github.com/sirseerhq/issueup/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// syncFlags are the flags of the sync command. Target flags override the
// sync section of the config file only when given.
type syncFlags struct {
	org          string
	repos        []string
	project      int
	dryRun       bool
	ignoreCase   bool
	outputFile   string
	metadataFile string
}

func newSyncCommand(root *rootFlags) *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Add open issues that are missing from a project board",
		Long: `Add every open issue of the given repositories to an organization
project board, skipping issues that are already on it.

Authentication is required via a GitHub API key:
  - Use -c/--credential-file to read it from a file
  - Or set the GH_API_KEY environment variable`,
		Example: `  issueup sync -o acme -r web -p 7
  issueup sync -o acme -r web -r api -p 7 --dry-run
  issueup sync -o acme -r web -p 7 --output results.ndjson --metadata run.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, root, flags)
		},
	}

	bindSyncFlags(cmd.Flags(), flags)

	return cmd
}

func bindSyncFlags(fs *pflag.FlagSet, f *syncFlags) {
	fs.StringVarP(&f.org, "org", "o", "", "Organization that owns the project and repositories")
	fs.StringArrayVarP(&f.repos, "repo", "r", nil, "Repository to sync, may be repeated")
	fs.IntVarP(&f.project, "project", "p", 0, "Project number within the organization")
	fs.BoolVarP(&f.dryRun, "dry-run", "d", false, "Report what would be added without changing the project")
	fs.BoolVar(&f.ignoreCase, "ignore-case", false, "Match repository names case-insensitively")
	fs.StringVar(&f.outputFile, "output", "", "Write one NDJSON record per filing decision to this file (- for stdout)")
	fs.StringVar(&f.metadataFile, "metadata", "", "Write a JSON summary of the run to this file")
}

// applySyncFlags folds the flags the user actually set into cfg.
func applySyncFlags(fs *pflag.FlagSet, f *syncFlags, cfg *config.Config) {
	if fs.Changed("org") {
		cfg.Sync.Organization = f.org
	}
	if fs.Changed("repo") {
		cfg.Sync.Repositories = f.repos
	}
	if fs.Changed("project") {
		cfg.Sync.ProjectNumber = f.project
	}
	if fs.Changed("dry-run") {
		cfg.Sync.DryRun = f.dryRun
	}
	if fs.Changed("ignore-case") {
		cfg.Sync.IgnoreCase = f.ignoreCase
	}
}

func runSync(cmd *cobra.Command, root *rootFlags, flags *syncFlags) error {
	rt, err := loadRuntime(cmd, root, func(cfg *config.Config) error {
		applySyncFlags(cmd.Flags(), flags, cfg)
		return cfg.ValidateSync()
	})
	if err != nil {
		return err
	}
	gql, client := rt.newClient()

	opts := issuesync.Options{
		Organization:  rt.cfg.Sync.Organization,
		Repositories:  rt.cfg.Sync.Repositories,
		ProjectNumber: rt.cfg.Sync.ProjectNumber,
		DryRun:        rt.cfg.Sync.DryRun,
		IgnoreCase:    rt.cfg.Sync.IgnoreCase,
	}

	printer := progress.New(cmd.ErrOrStderr())
	tracker := metadata.New()
	syncOpts := []issuesync.Option{
		issuesync.WithProgress(printer),
		issuesync.WithTracker(tracker),
		issuesync.WithLogger(rt.logger),
	}

	var writer *output.Writer
	if flags.outputFile != "" {
		writer, err = output.Open(flags.outputFile, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		syncOpts = append(syncOpts, issuesync.WithOutput(writer))
	}

	rt.logger.Info("starting sync",
		"run_id", tracker.RunID(),
		"organization", opts.Organization,
		"repositories", opts.Repositories,
		"project", opts.ProjectNumber,
		"dry_run", opts.DryRun)

	summary, runErr := issuesync.New(client, syncOpts...).Run(cmd.Context(), opts)
	if runErr == nil || summary.Added > 0 || summary.Failed > 0 {
		printer.Info("%s", summary.Line())
	}
	if writer != nil {
		runErr = closeOutput(writer, runErr, rt.logger)
	}

	if flags.metadataFile != "" {
		md := tracker.GenerateMetadata(version.Version, metadata.RunParams{
			Organization:  opts.Organization,
			Repositories:  opts.Repositories,
			ProjectNumber: opts.ProjectNumber,
			DryRun:        opts.DryRun,
			IgnoreCase:    opts.IgnoreCase,
		}, gql.RequestCount(), runErr)
		if err := metadata.SaveMetadata(md, flags.metadataFile); err != nil {
			if runErr != nil {
				rt.logger.Error("failed to save metadata", "path", flags.metadataFile, "error", err)
				return runErr
			}
			return fmt.Errorf("failed to save metadata: %w", err)
		}
	}

	return runErr
}

// closeOutput closes the NDJSON writer. A close failure becomes the run's
// error unless the run already failed, in which case it is only logged.
func closeOutput(w io.Closer, runErr error, logger *slog.Logger) error {
	if err := w.Close(); err != nil {
		if runErr != nil {
			logger.Error("failed to close output", "error", err)
			return runErr
		}
		return fmt.Errorf("failed to close output: %w", err)
	}
	return runErr
}
