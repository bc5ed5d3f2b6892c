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

package output

import "time"

// OutputWriter receives one Record per filing decision.
// This abstraction lets the sync run without any output configured.
type OutputWriter interface {
	// Write writes a single record to the output.
	// The record should be immediately flushed to avoid memory accumulation.
	Write(rec Record) error

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// Record is the NDJSON shape of one filing result.
type Record struct {
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id,omitempty"`
	Owner      string    `json:"owner"`
	Project    int       `json:"project"`
	Repository string    `json:"repository"`
	Number     int       `json:"number"`
	IssueID    string    `json:"issue_id"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	ItemID     string    `json:"item_id,omitempty"`
	Error      string    `json:"error,omitempty"`
}
