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

// Package metadata records what a sync run did: its parameters, how many
// items and issues it saw, what it filed, how many API calls it made and
// how long it took. The record is written as a JSON file at the end of the
// run when requested, for auditing and troubleshooting.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Status names counted by RecordFiling.
const (
	StatusAdded   = "added"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Tracker collects statistics during a run and generates metadata.
// Create one at the start of each run.
type Tracker struct {
	runID     string
	startTime time.Time
	results   RunResults
}

// New creates a new tracker with a fresh run ID, started now.
func New() *Tracker {
	return &Tracker{
		runID:     uuid.NewString(),
		startTime: time.Now(),
		results:   RunResults{OpenIssues: map[string]int{}},
	}
}

// RunID returns the identifier of this run.
func (t *Tracker) RunID() string {
	return t.runID
}

// RecordProject records the resolved project title and its existing item count.
func (t *Tracker) RecordProject(title string, existing int) {
	t.results.ProjectTitle = title
	t.results.ExistingItems = existing
}

// RecordOpenIssues records how many open issues repo had.
func (t *Tracker) RecordOpenIssues(repo string, n int) {
	t.results.OpenIssues[repo] = n
}

// RecordFiling counts one filing outcome. A skipped issue counts as one
// that would have been added.
func (t *Tracker) RecordFiling(status string) {
	switch status {
	case StatusAdded:
		t.results.Added++
	case StatusSkipped:
		t.results.WouldAdd++
	case StatusFailed:
		t.results.Failed++
	}
}

// GenerateMetadata creates the RunMetadata record for the run.
//
// Parameters:
//   - toolVersion: the running version (from version.Version)
//   - params: the parameters the run was started with
//   - apiCalls: HTTP requests sent during the run
//   - runErr: the error that ended the run, if any
func (t *Tracker) GenerateMetadata(toolVersion string, params RunParams, apiCalls int, runErr error) *RunMetadata {
	completedAt := time.Now()

	results := t.results
	results.APICallCount = apiCalls
	results.Duration = completedAt.Sub(t.startTime).String()
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	if runErr != nil {
		results.Error = runErr.Error()
	}

	return &RunMetadata{
		ToolVersion: toolVersion,
		RunID:       t.runID,
		Parameters:  params,
		Results:     results,
	}
}

// SaveMetadata writes metadata as indented JSON to path. The file is written
// atomically using a temporary file and rename to prevent corruption.
func SaveMetadata(metadata *RunMetadata, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create metadata directory: %w", err)
		}
	}

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// WriteMetadataToWriter serializes metadata to indented JSON on w.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
