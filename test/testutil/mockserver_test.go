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

package testutil

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
	"github.com/sirseerhq/issueup/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(s *GitHubServer) *github.GraphQLClient {
	return github.NewGraphQLClient("test-token", s.Endpoint(),
		github.WithPageSizes(github.PageSizes{Issues: 2, Items: 2}))
}

func TestGitHubServer_Pagination(t *testing.T) {
	s := NewGitHubServer(t, "acme", 7, "Roadmap")
	s.AddIssueItem("web", 1, "One")
	s.AddItem(ItemFixture{Type: "DraftIssue"})
	s.AddItem(ItemFixture{})
	s.AddIssueItem("api", 4, "Four")
	for n := 1; n <= 5; n++ {
		s.AddOpenIssue("web", n, "Issue")
	}

	ctx := context.Background()
	client := newClient(s)

	items, err := client.FetchProjectItems(ctx, "acme", 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "web", items[0].Repository)
	assert.Equal(t, 4, items[1].Number)

	// 4 items at 2 per page plus the empty page.
	assert.Equal(t, 3, s.RequestCount())

	issues, err := client.FetchOpenIssues(ctx, "acme", "web")
	require.NoError(t, err)
	require.Len(t, issues, 5)
	for i, issue := range issues {
		assert.Equal(t, i+1, issue.Number)
		assert.Equal(t, "web", issue.Repository)
	}
}

func TestGitHubServer_AddShowsUpOnBoard(t *testing.T) {
	s := NewGitHubServer(t, "acme", 7, "Roadmap")
	s.AddOpenIssue("web", 9, "Broken link")

	ctx := context.Background()
	client := newClient(s)

	project, err := client.GetProject(ctx, "acme", 7)
	require.NoError(t, err)
	assert.Equal(t, "PVT_7", project.ID)
	assert.Equal(t, "Roadmap", project.Title)

	itemID, err := client.AddProjectItem(ctx, project.ID, "I_web_9")
	require.NoError(t, err)
	assert.Equal(t, "PVTI_1", itemID)
	assert.Equal(t, []Mutation{{ProjectID: "PVT_7", ContentID: "I_web_9"}}, s.Mutations())

	items, err := client.FetchProjectItems(ctx, "acme", 7)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Broken link", items[0].Title)
}

func TestGitHubServer_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown repository", func(t *testing.T) {
		s := NewGitHubServer(t, "acme", 7, "Roadmap")
		_, err := newClient(s).FetchOpenIssues(ctx, "acme", "nope")
		assert.True(t, errors.Is(err, relaierrors.ErrNotFound), "got %v", err)
	})

	t.Run("unknown project", func(t *testing.T) {
		s := NewGitHubServer(t, "acme", 7, "Roadmap")
		_, err := newClient(s).GetProject(ctx, "acme", 8)
		assert.True(t, errors.Is(err, relaierrors.ErrMissingField), "got %v", err)
	})

	t.Run("unknown content", func(t *testing.T) {
		s := NewGitHubServer(t, "acme", 7, "Roadmap")
		_, err := newClient(s).AddProjectItem(ctx, "PVT_7", "I_missing")
		assert.True(t, errors.Is(err, relaierrors.ErrAPI), "got %v", err)
		assert.Empty(t, s.Mutations())
	})

	t.Run("forced status", func(t *testing.T) {
		s := NewGitHubServer(t, "acme", 7, "Roadmap")
		s.FailStatus = http.StatusUnauthorized
		_, err := newClient(s).GetViewer(ctx)
		assert.True(t, errors.Is(err, relaierrors.ErrInvalidToken), "got %v", err)
	})

	t.Run("rate limited", func(t *testing.T) {
		s := NewGitHubServer(t, "acme", 7, "Roadmap")
		s.RateLimitFirst = 1
		_, err := newClient(s).GetViewer(ctx)
		assert.True(t, errors.Is(err, relaierrors.ErrRateLimit), "got %v", err)

		viewer, err := newClient(s).GetViewer(ctx)
		require.NoError(t, err)
		assert.Equal(t, "octocat", viewer.Login)
	})
}

func TestGitHubServer_RecordsQueries(t *testing.T) {
	s := NewGitHubServer(t, "acme", 7, "Roadmap")
	_, err := newClient(s).GetProject(context.Background(), "acme", 7)
	require.NoError(t, err)

	queries := s.Queries()
	require.Len(t, queries, 1)
	assert.True(t, strings.Contains(queries[0], "projectV2(number: $number)"), queries[0])
}
