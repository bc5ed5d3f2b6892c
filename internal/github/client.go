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

import "context"

// Client defines the interface for interacting with GitHub's API.
// This interface allows for easy mocking in tests.
type Client interface {
	// GetProject resolves an organization's project board by number.
	GetProject(ctx context.Context, org string, number int) (*ProjectRef, error)

	// FetchProjectItems pages through every item of the project and returns
	// those whose content is an issue, in board order.
	FetchProjectItems(ctx context.Context, org string, number int) ([]ProjectItem, error)

	// FetchOpenIssues pages through every open issue of org/repo in the
	// order GitHub returns them.
	FetchOpenIssues(ctx context.Context, org, repo string) ([]Issue, error)

	// AddProjectItem links the content (an issue node ID) into the project
	// and returns the new project item ID.
	AddProjectItem(ctx context.Context, projectID, contentID string) (string, error)

	// GetViewer returns the authenticated login and rate limit status.
	GetViewer(ctx context.Context) (*ViewerInfo, error)
}
