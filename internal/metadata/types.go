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

// Package metadata types define the structures used for recording
// information about a sync run.
package metadata

import (
	"time"
)

// RunMetadata is the complete record of one sync run. It is written once
// at the end of the run and never read back by later runs.
type RunMetadata struct {
	ToolVersion string     `json:"tool_version"`
	RunID       string     `json:"run_id"`
	Parameters  RunParams  `json:"parameters"`
	Results     RunResults `json:"results"`
}

// RunParams captures the input parameters of a run.
type RunParams struct {
	Organization  string   `json:"organization"`
	Repositories  []string `json:"repositories"`
	ProjectNumber int      `json:"project_number"`
	DryRun        bool     `json:"dry_run"`
	IgnoreCase    bool     `json:"ignore_case"`
}

// RunResults contains the counts and timing of a run. OpenIssues is keyed
// by repository name.
type RunResults struct {
	ProjectTitle  string         `json:"project_title,omitempty"`
	ExistingItems int            `json:"existing_items"`
	OpenIssues    map[string]int `json:"open_issues"`
	Added         int            `json:"added"`
	WouldAdd      int            `json:"would_add"`
	Failed        int            `json:"failed"`
	APICallCount  int            `json:"api_calls_made"`
	Duration      string         `json:"duration"`
	StartedAt     time.Time      `json:"started_at"`
	CompletedAt   time.Time      `json:"completed_at"`
	Error         string         `json:"error,omitempty"`
}
