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

// Package filer adds issues to a project board, one mutation per issue.
package filer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sirseerhq/issueup/internal/github"
	"github.com/sirseerhq/issueup/internal/logging"
)

// Status is the outcome of filing one issue.
type Status string

const (
	// StatusAdded means the issue is now on the board.
	StatusAdded Status = "added"
	// StatusSkipped means no mutation was sent; Reason says why.
	StatusSkipped Status = "skipped"
	// StatusFailed means the mutation was sent and failed.
	StatusFailed Status = "failed"
)

// ReasonDryRun is the skip reason recorded in dry-run mode.
const ReasonDryRun = "dry run"

// Adder is the part of the GitHub client the filer needs.
type Adder interface {
	AddProjectItem(ctx context.Context, projectID, contentID string) (string, error)
}

// Options controls filing.
type Options struct {
	// DryRun suppresses the mutation and nothing else.
	DryRun bool
}

// Result describes what happened to one issue.
type Result struct {
	Issue  github.Issue
	Status Status
	Reason string
	ItemID string
	Err    error
}

// Filer adds issues to a project.
type Filer struct {
	client Adder
	opts   Options
	logger *slog.Logger
}

// New creates a Filer. A nil logger discards output.
func New(client Adder, opts Options, logger *slog.Logger) *Filer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Filer{client: client, opts: opts, logger: logger}
}

// DryRun reports whether mutations are suppressed.
func (f *Filer) DryRun() bool {
	return f.opts.DryRun
}

// File adds issue to project, or records that it would have in dry-run mode.
func (f *Filer) File(ctx context.Context, project *github.ProjectRef, issue github.Issue) Result {
	if f.opts.DryRun {
		f.logger.Debug("skipping mutation", "issue", issue.URI(), "reason", ReasonDryRun)
		return Result{Issue: issue, Status: StatusSkipped, Reason: ReasonDryRun}
	}

	itemID, err := f.client.AddProjectItem(ctx, project.ID, issue.ID)
	if err != nil {
		f.logger.Debug("add failed", "issue", issue.URI(), "error", err)
		return Result{
			Issue:  issue,
			Status: StatusFailed,
			Err:    fmt.Errorf("failed to add %s to project %d: %w", issue.URI(), project.Number, err),
		}
	}

	f.logger.Debug("added issue", "issue", issue.URI(), "item_id", itemID)
	return Result{Issue: issue, Status: StatusAdded, ItemID: itemID}
}
