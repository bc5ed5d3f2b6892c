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

package github

import (
	"fmt"
	"time"
)

// ProjectRef identifies the target project board. It is resolved once per
// run and never changes afterwards.
type ProjectRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Number int    `json:"number"`
	Owner  string `json:"owner"`
}

// Issue is an open issue in a source repository. Repository and Number
// together identify it within an organization.
type Issue struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Repository string `json:"repository"`
	Number     int    `json:"number"`
}

// URI returns the issue's "repository/number" form used in progress output.
func (i Issue) URI() string {
	return fmt.Sprintf("%s/%d", i.Repository, i.Number)
}

// ProjectItem is an entry already linked into the project board whose
// content is an issue. Items backed by drafts or pull requests are never
// represented by this type.
type ProjectItem struct {
	ID         string `json:"id"`
	DatabaseID int    `json:"database_id"`
	Title      string `json:"title"`
	Repository string `json:"repository"`
	Number     int    `json:"number"`
}

// ViewerInfo describes the authenticated user and the current GraphQL rate
// limit budget.
type ViewerInfo struct {
	Login     string    `json:"login"`
	Limit     int       `json:"limit"`
	Cost      int       `json:"cost"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// PageSizes controls how many edges each paginated query asks for.
type PageSizes struct {
	Issues int
	Items  int
}

// Default values for paginated queries
const (
	defaultIssuesPageSize = 10
	defaultItemsPageSize  = 50
	maxPageSize           = 100
)
