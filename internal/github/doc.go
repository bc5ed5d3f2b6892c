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

// Package github provides a client for GitHub's GraphQL API covering what
// an issue-to-project sync needs: resolving a Projects board, listing its
// issue-backed items, listing a repository's open issues and adding an issue
// to the board.
//
// The package includes:
//   - A Client interface, so the sync logic can run against a fake
//   - A GraphQL implementation using the shurcooL/graphql library
//   - A RetryClient decorator for rate limits and transient network errors
//   - An in-memory MockClient for tests
//
// Basic usage:
//
//	client := github.NewGraphQLClient(token, "https://api.github.com/graphql")
//	project, err := client.GetProject(ctx, "acme", 7)
//	if err != nil {
//	    // Handle error
//	}
//	issues, err := client.FetchOpenIssues(ctx, "acme", "web")
package github
