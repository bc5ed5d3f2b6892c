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

// Package main implements the issueup command-line interface.
// issueup adds every open issue of the given repositories to a GitHub
// Projects board, skipping issues that are already on it.
//
// The CLI supports:
//   - Syncing one or more repositories into an organization project
//   - Dry runs that report what would be added without changing the board
//   - NDJSON output of every filing decision and a JSON run summary
//   - Credential lookup from a file or the GH_API_KEY environment variable
//   - Checking a credential and its remaining rate limit
//
// Usage:
//
//	issueup sync -o <org> -r <repo> [-r <repo>...] -p <project> [flags]
//	issueup check
//
// Example:
//
//	export GH_API_KEY=your_token
//	issueup sync -o acme -r web -r api -p 7 --dry-run
//
// Exit codes:
//   - 0: Success, including when there is nothing to add
//   - 1: General error or missing credential
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
