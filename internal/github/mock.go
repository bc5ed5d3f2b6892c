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
	"context"
	"fmt"
	"sync"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
)

// AddCall records one AddProjectItem call made against a MockClient.
type AddCall struct {
	ProjectID string
	ContentID string
}

// MockClient is an in-memory implementation of the GitHub Client interface
// for testing. It models one organization with one project board. Adding
// an issue appends it to the board, so a second sync sees it as present.
type MockClient struct {
	mu sync.Mutex

	// Org and Project identify the only board the mock knows about.
	Org     string
	Project ProjectRef

	// Items already on the board.
	Items []ProjectItem

	// Issues holds the open issues per repository name.
	Issues map[string][]Issue

	// Error to return from every call
	Error error

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// FailAddAfter makes AddProjectItem fail once this many adds succeeded.
	// Negative disables it.
	FailAddAfter int

	// Track calls for verification
	CallCount int
	Adds      []AddCall
}

// NewMockClient creates a mock for the given organization and project.
func NewMockClient(org string, project ProjectRef) *MockClient {
	if project.Owner == "" {
		project.Owner = org
	}
	return &MockClient{
		Org:          org,
		Project:      project,
		Items:        []ProjectItem{},
		Issues:       map[string][]Issue{},
		FailAddAfter: -1,
	}
}

func (m *MockClient) check(ctx context.Context) error {
	m.CallCount++

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w: %w",
			relaierrors.ErrInvalidToken, &relaierrors.TransportError{StatusCode: 401})
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}
	return m.Error
}

// GetProject implements the Client interface
func (m *MockClient) GetProject(ctx context.Context, org string, number int) (*ProjectRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if org != m.Org || number != m.Project.Number {
		return nil, fmt.Errorf("project %s/%d: %w", org, number, relaierrors.MissingField("organization.projectV2"))
	}
	p := m.Project
	return &p, nil
}

// FetchProjectItems implements the Client interface
func (m *MockClient) FetchProjectItems(ctx context.Context, org string, number int) ([]ProjectItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	if org != m.Org || number != m.Project.Number {
		return nil, relaierrors.MissingField("organization.projectV2.items")
	}
	return append([]ProjectItem{}, m.Items...), nil
}

// FetchOpenIssues implements the Client interface
func (m *MockClient) FetchOpenIssues(ctx context.Context, org, repo string) ([]Issue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	issues, ok := m.Issues[repo]
	if org != m.Org || !ok {
		return nil, fmt.Errorf("repository %s/%s: %w", org, repo, relaierrors.MissingField("repository.issues"))
	}
	return append([]Issue{}, issues...), nil
}

// AddProjectItem implements the Client interface
func (m *MockClient) AddProjectItem(ctx context.Context, projectID, contentID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return "", err
	}
	if projectID != m.Project.ID {
		return "", &relaierrors.APIError{Messages: []string{fmt.Sprintf("Could not resolve to a node with the global id of '%s'", projectID)}}
	}
	if m.FailAddAfter >= 0 && len(m.Adds) >= m.FailAddAfter {
		return "", &relaierrors.TransportError{StatusCode: 500}
	}

	var issue *Issue
	for _, issues := range m.Issues {
		for i := range issues {
			if issues[i].ID == contentID {
				issue = &issues[i]
			}
		}
	}
	if issue == nil {
		return "", &relaierrors.APIError{Messages: []string{fmt.Sprintf("Could not resolve to a node with the global id of '%s'", contentID)}}
	}

	m.Adds = append(m.Adds, AddCall{ProjectID: projectID, ContentID: contentID})
	itemID := fmt.Sprintf("PVTI_%d", len(m.Items)+1)
	m.Items = append(m.Items, ProjectItem{
		ID:         itemID,
		DatabaseID: len(m.Items) + 1,
		Title:      issue.Title,
		Repository: issue.Repository,
		Number:     issue.Number,
	})
	return itemID, nil
}

// GetViewer implements the Client interface
func (m *MockClient) GetViewer(ctx context.Context) (*ViewerInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.check(ctx); err != nil {
		return nil, err
	}
	return &ViewerInfo{Login: "mock-user", Limit: 5000, Remaining: 5000}, nil
}

// AddCalls returns a copy of the recorded AddProjectItem calls.
func (m *MockClient) AddCalls() []AddCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]AddCall{}, m.Adds...)
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithItems sets the items already on the board.
func WithItems(items ...ProjectItem) MockClientOption {
	return func(m *MockClient) {
		m.Items = append([]ProjectItem{}, items...)
	}
}

// WithOpenIssues sets the open issues of one repository.
func WithOpenIssues(repo string, issues ...Issue) MockClientOption {
	return func(m *MockClient) {
		owned := make([]Issue, len(issues))
		for i, is := range issues {
			if is.Repository == "" {
				is.Repository = repo
			}
			owned[i] = is
		}
		m.Issues[repo] = owned
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithFailAddAfter makes AddProjectItem fail after n successful adds.
func WithFailAddAfter(n int) MockClientOption {
	return func(m *MockClient) {
		m.FailAddAfter = n
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(org string, project ProjectRef, opts ...MockClientOption) *MockClient {
	mock := NewMockClient(org, project)
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
