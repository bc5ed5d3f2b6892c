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

// Package testutil provides common test helpers for issueup
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// ItemFixture is one item on the fake project board. Type is the content's
// __typename; an empty Type models a redacted item with null content.
type ItemFixture struct {
	ID         string
	Type       string
	Repository string
	Number     int
	Title      string
}

// IssueFixture is one open issue of a fake repository.
type IssueFixture struct {
	ID     string
	Number int
	Title  string
}

// Mutation records one addProjectV2ItemById call.
type Mutation struct {
	ProjectID string
	ContentID string
}

// GitHubServer is a stateful fake of the GitHub GraphQL API covering the
// project, item, issue, mutation and viewer queries. Added issues show up
// as board items in later queries, so repeated syncs can be observed.
type GitHubServer struct {
	*httptest.Server

	mu sync.Mutex

	Org          string
	ProjectID    string
	ProjectTitle string
	ProjectNum   int
	Items        []ItemFixture
	Issues       map[string][]IssueFixture

	// FailStatus, when set, answers every request with that HTTP status.
	FailStatus int
	// RateLimitFirst answers the first N requests with a 403 rate limit.
	RateLimitFirst int

	requests  int
	queries   []string
	mutations []Mutation
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// NewGitHubServer starts a fake GitHub with one organization owning one
// project board. The server is closed when the test ends.
func NewGitHubServer(t *testing.T, org string, projectNumber int, title string) *GitHubServer {
	t.Helper()

	s := &GitHubServer{
		Org:          org,
		ProjectID:    fmt.Sprintf("PVT_%d", projectNumber),
		ProjectTitle: title,
		ProjectNum:   projectNumber,
		Issues:       map[string][]IssueFixture{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the URL of the GraphQL endpoint.
func (s *GitHubServer) Endpoint() string {
	return s.URL + "/graphql"
}

// AddIssueItem puts an existing issue on the board.
func (s *GitHubServer) AddIssueItem(repo string, number int, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Items = append(s.Items, ItemFixture{
		ID:         fmt.Sprintf("PVTI_%d", len(s.Items)+1),
		Type:       "Issue",
		Repository: repo,
		Number:     number,
		Title:      title,
	})
}

// AddItem puts an arbitrary item on the board.
func (s *GitHubServer) AddItem(item ItemFixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == "" {
		item.ID = fmt.Sprintf("PVTI_%d", len(s.Items)+1)
	}
	s.Items = append(s.Items, item)
}

// AddOpenIssue adds an open issue to repo. The node ID is derived from the
// repository and number.
func (s *GitHubServer) AddOpenIssue(repo string, number int, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Issues[repo] = append(s.Issues[repo], IssueFixture{
		ID:     fmt.Sprintf("I_%s_%d", repo, number),
		Number: number,
		Title:  title,
	})
}

// RequestCount returns the number of requests served.
func (s *GitHubServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

// Mutations returns the addProjectV2ItemById calls received so far.
func (s *GitHubServer) Mutations() []Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Mutation{}, s.mutations...)
}

// Queries returns the query documents received so far.
func (s *GitHubServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.queries...)
}

func (s *GitHubServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++

	if r.Header.Get("Authorization") == "" {
		writeStatus(w, http.StatusUnauthorized, `{"message": "This endpoint requires you to be authenticated."}`)
		return
	}
	if s.FailStatus != 0 {
		writeStatus(w, s.FailStatus, http.StatusText(s.FailStatus))
		return
	}
	if s.requests <= s.RateLimitFirst {
		w.Header().Set("Retry-After", "1")
		writeStatus(w, http.StatusForbidden, `{"message": "API rate limit exceeded"}`)
		return
	}

	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeStatus(w, http.StatusBadRequest, err.Error())
		return
	}
	s.queries = append(s.queries, req.Query)

	switch {
	case strings.Contains(req.Query, "addProjectV2ItemById"):
		s.addItem(w, req.Variables)
	case strings.Contains(req.Query, "items("):
		s.listItems(w, req.Variables)
	case strings.Contains(req.Query, "issues("):
		s.listIssues(w, req.Variables)
	case strings.Contains(req.Query, "projectV2("):
		s.getProject(w, req.Variables)
	case strings.Contains(req.Query, "viewer"):
		writeData(w, map[string]any{
			"viewer": map[string]any{"login": "octocat"},
			"rateLimit": map[string]any{
				"limit":     5000,
				"cost":      1,
				"remaining": 5000 - s.requests,
				"resetAt":   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
			},
		})
	default:
		writeErrors(w, "unsupported query")
	}
}

func (s *GitHubServer) knownProject(vars map[string]any) bool {
	return stringVar(vars, "owner") == s.Org && intVar(vars, "number", 0) == s.ProjectNum
}

func (s *GitHubServer) getProject(w http.ResponseWriter, vars map[string]any) {
	if stringVar(vars, "owner") != s.Org {
		writeNotFound(w, "organization", fmt.Sprintf("Could not resolve to an Organization with the login of '%s'.", stringVar(vars, "owner")))
		return
	}
	if !s.knownProject(vars) {
		writeData(w, map[string]any{"organization": map[string]any{"projectV2": nil}})
		return
	}
	writeData(w, map[string]any{
		"organization": map[string]any{
			"projectV2": map[string]any{
				"id":     s.ProjectID,
				"title":  s.ProjectTitle,
				"number": s.ProjectNum,
			},
		},
	})
}

func (s *GitHubServer) listItems(w http.ResponseWriter, vars map[string]any) {
	if !s.knownProject(vars) {
		writeData(w, map[string]any{"organization": map[string]any{"projectV2": nil}})
		return
	}

	start, end := pageBounds(vars, len(s.Items))
	edges := make([]map[string]any, 0, end-start)
	for i := start; i < end; i++ {
		item := s.Items[i]
		var content any
		switch item.Type {
		case "":
		case "Issue":
			content = map[string]any{
				"__typename": "Issue",
				"title":      item.Title,
				"number":     item.Number,
				"repository": map[string]any{"name": item.Repository},
			}
		default:
			content = map[string]any{"__typename": item.Type}
		}
		edges = append(edges, map[string]any{
			"cursor": cursorFor(i),
			"node": map[string]any{
				"id":         item.ID,
				"databaseId": i + 1,
				"content":    content,
			},
		})
	}

	writeData(w, map[string]any{
		"organization": map[string]any{
			"projectV2": map[string]any{
				"items": map[string]any{"edges": edges},
			},
		},
	})
}

func (s *GitHubServer) listIssues(w http.ResponseWriter, vars map[string]any) {
	repo := stringVar(vars, "repo")
	issues, ok := s.Issues[repo]
	if stringVar(vars, "owner") != s.Org || !ok {
		writeNotFound(w, "repository", fmt.Sprintf("Could not resolve to a Repository with the name '%s/%s'.", stringVar(vars, "owner"), repo))
		return
	}

	start, end := pageBounds(vars, len(issues))
	edges := make([]map[string]any, 0, end-start)
	for i := start; i < end; i++ {
		edges = append(edges, map[string]any{
			"cursor": cursorFor(i),
			"node": map[string]any{
				"id":         issues[i].ID,
				"title":      issues[i].Title,
				"number":     issues[i].Number,
				"repository": map[string]any{"name": repo},
			},
		})
	}

	writeData(w, map[string]any{
		"repository": map[string]any{
			"issues": map[string]any{"edges": edges},
		},
	})
}

func (s *GitHubServer) addItem(w http.ResponseWriter, vars map[string]any) {
	input, _ := vars["input"].(map[string]any)
	projectID := stringVar(input, "projectId")
	contentID := stringVar(input, "contentId")

	if projectID != s.ProjectID {
		writeErrors(w, fmt.Sprintf("Could not resolve to a node with the global id of '%s'", projectID))
		return
	}

	var found *IssueFixture
	var repo string
	for name, issues := range s.Issues {
		for i := range issues {
			if issues[i].ID == contentID {
				found, repo = &issues[i], name
			}
		}
	}
	if found == nil {
		writeErrors(w, fmt.Sprintf("Could not resolve to a node with the global id of '%s'", contentID))
		return
	}

	s.mutations = append(s.mutations, Mutation{ProjectID: projectID, ContentID: contentID})
	itemID := fmt.Sprintf("PVTI_%d", len(s.Items)+1)
	s.Items = append(s.Items, ItemFixture{
		ID:         itemID,
		Type:       "Issue",
		Repository: repo,
		Number:     found.Number,
		Title:      found.Title,
	})

	writeData(w, map[string]any{
		"addProjectV2ItemById": map[string]any{
			"item": map[string]any{"id": itemID},
		},
	})
}

// pageBounds returns the slice of n elements selected by the first and
// after variables. Cursors are "c<index>" of the last edge seen.
func pageBounds(vars map[string]any, n int) (start, end int) {
	first := intVar(vars, "first", n)
	if after := stringVar(vars, "after"); after != "" {
		idx, err := strconv.Atoi(strings.TrimPrefix(after, "c"))
		if err == nil {
			start = idx + 1
		}
	}
	if start > n {
		start = n
	}
	end = start + first
	if end > n {
		end = n
	}
	return start, end
}

func cursorFor(i int) string {
	return "c" + strconv.Itoa(i)
}

func stringVar(vars map[string]any, name string) string {
	v, _ := vars[name].(string)
	return v
}

func intVar(vars map[string]any, name string, def int) int {
	switch v := vars[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeData(w http.ResponseWriter, data map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeErrors(w http.ResponseWriter, messages ...string) {
	errs := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, map[string]any{"message": m})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"errors": errs})
}

func writeNotFound(w http.ResponseWriter, field, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": map[string]any{field: nil},
		"errors": []map[string]any{{
			"type":    "NOT_FOUND",
			"path":    []string{field},
			"message": message,
		}},
	})
}
