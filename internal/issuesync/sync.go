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

package issuesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sirseerhq/issueup/internal/filer"
	"github.com/sirseerhq/issueup/internal/github"
	"github.com/sirseerhq/issueup/internal/logging"
	"github.com/sirseerhq/issueup/internal/metadata"
	"github.com/sirseerhq/issueup/internal/output"
	"github.com/sirseerhq/issueup/internal/reconcile"
)

// Progress receives the human-readable steps of a run. *progress.Printer
// satisfies it.
type Progress interface {
	Begin(format string, args ...any)
	End(format string, args ...any)
	Skip(format string, args ...any)
	Fail()
	Info(format string, args ...any)
}

type nopProgress struct{}

func (nopProgress) Begin(string, ...any) {}
func (nopProgress) End(string, ...any)   {}
func (nopProgress) Skip(string, ...any)  {}
func (nopProgress) Fail()                {}
func (nopProgress) Info(string, ...any)  {}

// Options describes one run.
type Options struct {
	Organization  string
	Repositories  []string
	ProjectNumber int
	DryRun        bool
	IgnoreCase    bool
}

// Validate checks that the options name a project and at least one repository.
func (o Options) Validate() error {
	if o.Organization == "" {
		return errors.New("organization is required")
	}
	if len(o.Repositories) == 0 {
		return errors.New("at least one repository is required")
	}
	if o.ProjectNumber <= 0 {
		return fmt.Errorf("invalid project number %d", o.ProjectNumber)
	}
	return nil
}

// Summary reports what a run did. On failure it covers the work done
// before the failure.
type Summary struct {
	Project  *github.ProjectRef
	DryRun   bool
	Existing int
	// Open maps each repository visited to its open issue count.
	Open     map[string]int
	Added    int
	WouldAdd int
	Failed   int
	// Aborted is set when the run stopped on an error.
	Aborted bool
	Results []filer.Result
}

// Line returns the closing sentence printed after a run.
func (s *Summary) Line() string {
	switch {
	case s.Failed > 0, s.Aborted && s.Added > 0:
		return fmt.Sprintf("%s added before the failure.", issues(s.Added))
	case s.DryRun && s.WouldAdd > 0:
		return fmt.Sprintf("%s would be added (dry run).", issues(s.WouldAdd))
	case s.Added > 0:
		return fmt.Sprintf("%s added.", issues(s.Added))
	default:
		return "No new issues added (project is already up to date)"
	}
}

func issues(n int) string {
	if n == 1 {
		return "1 issue"
	}
	return fmt.Sprintf("%d issues", n)
}

// Syncer runs syncs against a GitHub client.
type Syncer struct {
	client   github.Client
	progress Progress
	sink     output.OutputWriter
	tracker  *metadata.Tracker
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithProgress sets where progress lines go. The default prints nothing.
func WithProgress(p Progress) Option {
	return func(s *Syncer) { s.progress = p }
}

// WithOutput streams one record per filing decision to w.
func WithOutput(w output.OutputWriter) Option {
	return func(s *Syncer) { s.sink = w }
}

// WithTracker records run statistics in t.
func WithTracker(t *metadata.Tracker) Option {
	return func(s *Syncer) { s.tracker = t }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// New creates a Syncer.
func New(client github.Client, opts ...Option) *Syncer {
	s := &Syncer{
		client:   client,
		progress: nopProgress{},
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one sync. The returned Summary is never nil, even on error.
func (s *Syncer) Run(ctx context.Context, opts Options) (*Summary, error) {
	summary := &Summary{DryRun: opts.DryRun, Open: map[string]int{}}
	if err := opts.Validate(); err != nil {
		return summary, err
	}
	if err := s.run(ctx, opts, summary); err != nil {
		summary.Aborted = true
		return summary, err
	}
	return summary, nil
}

func (s *Syncer) run(ctx context.Context, opts Options, summary *Summary) error {

	s.progress.Begin("Getting project %s/%d", opts.Organization, opts.ProjectNumber)
	project, err := s.client.GetProject(ctx, opts.Organization, opts.ProjectNumber)
	if err != nil {
		s.progress.Fail()
		return err
	}
	s.progress.End("found project %q", project.Title)
	summary.Project = project

	s.progress.Begin("Getting existing issues from project %d", opts.ProjectNumber)
	items, err := s.client.FetchProjectItems(ctx, opts.Organization, opts.ProjectNumber)
	if err != nil {
		s.progress.Fail()
		return err
	}
	s.progress.End("found %d", len(items))
	summary.Existing = len(items)
	if s.tracker != nil {
		s.tracker.RecordProject(project.Title, len(items))
	}

	present := reconcile.NewPresenceSet(items, reconcile.Options{IgnoreCase: opts.IgnoreCase})
	s.logger.Debug("built presence set", "items", len(items), "keys", present.Len())

	f := filer.New(s.client, filer.Options{DryRun: opts.DryRun}, s.logger)

	for _, repo := range opts.Repositories {
		s.progress.Begin("Getting open issues from %s/%s", opts.Organization, repo)
		open, err := s.client.FetchOpenIssues(ctx, opts.Organization, repo)
		if err != nil {
			s.progress.Fail()
			return err
		}
		s.progress.End("found %d", len(open))
		summary.Open[repo] = len(open)
		if s.tracker != nil {
			s.tracker.RecordOpenIssues(repo, len(open))
		}

		missing := present.Filter(open)
		s.logger.Debug("reconciled repository", "repository", repo, "open", len(open), "missing", len(missing))

		for _, issue := range missing {
			if err := s.file(ctx, f, project, issue, summary); err != nil {
				return err
			}
			// Later repositories must not see this issue as missing again.
			present.Add(issue.Repository, issue.Number)
		}
	}

	return nil
}

func (s *Syncer) file(ctx context.Context, f *filer.Filer, project *github.ProjectRef, issue github.Issue, summary *Summary) error {
	s.progress.Begin("Adding %s", issue.URI())
	res := f.File(ctx, project, issue)
	summary.Results = append(summary.Results, res)

	switch res.Status {
	case filer.StatusAdded:
		summary.Added++
		s.progress.End("done")
	case filer.StatusSkipped:
		summary.WouldAdd++
		s.progress.Skip("done (%s)", res.Reason)
	case filer.StatusFailed:
		summary.Failed++
		s.progress.Fail()
	}
	if s.tracker != nil {
		s.tracker.RecordFiling(string(res.Status))
	}

	if err := s.emit(project, res); err != nil {
		return err
	}
	return res.Err
}

func (s *Syncer) emit(project *github.ProjectRef, res filer.Result) error {
	if s.sink == nil {
		return nil
	}

	rec := output.Record{
		Timestamp:  s.now().UTC(),
		Owner:      project.Owner,
		Project:    project.Number,
		Repository: res.Issue.Repository,
		Number:     res.Issue.Number,
		IssueID:    res.Issue.ID,
		Title:      res.Issue.Title,
		Status:     string(res.Status),
		Reason:     res.Reason,
		ItemID:     res.ItemID,
	}
	if s.tracker != nil {
		rec.RunID = s.tracker.RunID()
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}

	if err := s.sink.Write(rec); err != nil {
		return fmt.Errorf("failed to write result for %s: %w", res.Issue.URI(), err)
	}
	return nil
}
