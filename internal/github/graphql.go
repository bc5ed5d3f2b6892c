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
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/issueup/internal/errors"
	"github.com/sirseerhq/issueup/internal/giterror"
	"github.com/sirseerhq/issueup/internal/logging"
	"github.com/sirseerhq/issueup/internal/pager"
)

// GraphQLClient implements the GitHub Client interface using GraphQL API.
// Every parameter travels as a GraphQL variable; nothing is interpolated
// into query documents.
type GraphQLClient struct {
	client    *graphql.Client
	transport *authTransport
	inspector giterror.Inspector
	pageSizes PageSizes
	logger    *slog.Logger
}

// Option configures a GraphQLClient.
type Option func(*clientOptions)

type clientOptions struct {
	pageSizes PageSizes
	logger    *slog.Logger
	timeout   time.Duration
	base      http.RoundTripper
}

// WithPageSizes overrides the per-query page sizes. Zero keeps the default
// and values above 100 are capped.
func WithPageSizes(sizes PageSizes) Option {
	return func(o *clientOptions) { o.pageSizes = sizes }
}

// WithLogger sets the logger used for per-page debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = logger }
}

// WithTimeout sets an overall timeout for each HTTP request. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithBaseTransport replaces the underlying round tripper. Authentication
// and size limits still apply on top of it.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.base = rt }
}

// NewGraphQLClient creates a new GitHub GraphQL client with the provided token and endpoint.
// The client is configured with:
//   - Authentication via the provided token
//   - Custom GraphQL endpoint URL (e.g., for GitHub Enterprise)
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
func NewGraphQLClient(token string, endpoint string, opts ...Option) *GraphQLClient {
	o := clientOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	base := o.base
	if base == nil {
		base = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		}
	}

	transport := &authTransport{
		token: token,
		base:  base,
	}
	httpClient := &http.Client{
		Transport: transport,
		Timeout:   o.timeout,
	}

	logger := o.logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		transport: transport,
		inspector: giterror.NewInspector(),
		pageSizes: PageSizes{
			Issues: clampPageSize(o.pageSizes.Issues, defaultIssuesPageSize),
			Items:  clampPageSize(o.pageSizes.Items, defaultItemsPageSize),
		},
		logger: logger,
	}
}

func clampPageSize(n, def int) int {
	if n <= 0 {
		return def
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

// RequestCount returns the number of HTTP requests this client has sent.
func (c *GraphQLClient) RequestCount() int {
	return c.transport.requestCount()
}

type projectQuery struct {
	Organization *struct {
		ProjectV2 *struct {
			ID     graphql.ID
			Title  graphql.String
			Number graphql.Int
		} `graphql:"projectV2(number: $number)"`
	} `graphql:"organization(login: $owner)"`
}

// GetProject resolves the project board's node ID and title.
func (c *GraphQLClient) GetProject(ctx context.Context, org string, number int) (*ProjectRef, error) {
	var query projectQuery
	variables := map[string]any{
		"owner":  graphql.String(org),
		"number": graphql.Int(number),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("failed to get project %s/%d", org, number))
	}
	if query.Organization == nil {
		return nil, fmt.Errorf("organization %q: %w", org, relaierrors.MissingField("organization"))
	}
	if query.Organization.ProjectV2 == nil {
		return nil, fmt.Errorf("project %s/%d: %w", org, number, relaierrors.MissingField("organization.projectV2"))
	}

	p := query.Organization.ProjectV2
	return &ProjectRef{
		ID:     idString(p.ID),
		Title:  string(p.Title),
		Number: int(p.Number),
		Owner:  org,
	}, nil
}

type projectItemNode struct {
	ID         graphql.ID
	DatabaseID graphql.Int `graphql:"databaseId"`
	Content    *struct {
		Typename graphql.String `graphql:"__typename"`
		Issue    struct {
			Title      graphql.String
			Number     graphql.Int
			Repository struct {
				Name graphql.String
			}
		} `graphql:"... on Issue"`
	}
}

type projectItemsQuery struct {
	Organization *struct {
		ProjectV2 *struct {
			Items struct {
				Edges []pager.Edge[projectItemNode]
			} `graphql:"items(first: $first, after: $after)"`
		} `graphql:"projectV2(number: $number)"`
	} `graphql:"organization(login: $owner)"`
}

// FetchProjectItems returns every issue-backed item of the project. Draft
// issues, pull requests and redacted items are dropped but still advance
// the cursor.
func (c *GraphQLClient) FetchProjectItems(ctx context.Context, org string, number int) ([]ProjectItem, error) {
	op := fmt.Sprintf("failed to fetch items of project %s/%d", org, number)

	items, err := pager.Collect(ctx, c.client, pager.Walk[projectItemsQuery, projectItemNode, ProjectItem]{
		Variables: map[string]any{
			"owner":  graphql.String(org),
			"number": graphql.Int(number),
			"first":  graphql.Int(c.pageSizes.Items),
		},
		Edges: func(q *projectItemsQuery) ([]pager.Edge[projectItemNode], error) {
			if q.Organization == nil || q.Organization.ProjectV2 == nil {
				return nil, relaierrors.MissingField("organization.projectV2.items")
			}
			return q.Organization.ProjectV2.Items.Edges, nil
		},
		Keep: func(n projectItemNode) bool {
			return n.Content != nil && n.Content.Typename == "Issue"
		},
		Project: func(n projectItemNode) ProjectItem {
			return ProjectItem{
				ID:         idString(n.ID),
				DatabaseID: int(n.DatabaseID),
				Title:      string(n.Content.Issue.Title),
				Repository: string(n.Content.Issue.Repository.Name),
				Number:     int(n.Content.Issue.Number),
			}
		},
		OnPage: c.pageLogger("project items", org),
	})
	if err != nil {
		return nil, c.mapError(err, op)
	}
	return items, nil
}

type issueNode struct {
	ID         graphql.ID
	Title      graphql.String
	Number     graphql.Int
	Repository struct {
		Name graphql.String
	}
}

type openIssuesQuery struct {
	Repository *struct {
		Issues struct {
			Edges []pager.Edge[issueNode]
		} `graphql:"issues(states: [OPEN], first: $first, after: $after)"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// FetchOpenIssues returns every open issue of org/repo.
func (c *GraphQLClient) FetchOpenIssues(ctx context.Context, org, repo string) ([]Issue, error) {
	op := fmt.Sprintf("failed to fetch open issues for %s/%s", org, repo)

	issues, err := pager.Collect(ctx, c.client, pager.Walk[openIssuesQuery, issueNode, Issue]{
		Variables: map[string]any{
			"owner": graphql.String(org),
			"repo":  graphql.String(repo),
			"first": graphql.Int(c.pageSizes.Issues),
		},
		Edges: func(q *openIssuesQuery) ([]pager.Edge[issueNode], error) {
			if q.Repository == nil {
				return nil, relaierrors.MissingField("repository.issues")
			}
			return q.Repository.Issues.Edges, nil
		},
		Project: func(n issueNode) Issue {
			return Issue{
				ID:         idString(n.ID),
				Title:      string(n.Title),
				Repository: string(n.Repository.Name),
				Number:     int(n.Number),
			}
		},
		OnPage: c.pageLogger("open issues", org+"/"+repo),
	})
	if err != nil {
		return nil, c.mapError(err, op)
	}
	return issues, nil
}

// AddProjectV2ItemByIdInput is the input object of the addProjectV2ItemById
// mutation. The type name is sent verbatim as the GraphQL input type.
type AddProjectV2ItemByIdInput struct { //nolint:revive // name must match the GitHub schema
	ProjectID graphql.ID `json:"projectId"`
	ContentID graphql.ID `json:"contentId"`
}

// AddProjectItem links contentID into the project and returns the new item ID.
func (c *GraphQLClient) AddProjectItem(ctx context.Context, projectID, contentID string) (string, error) {
	var mutation struct {
		AddProjectV2ItemByID *struct {
			Item *struct {
				ID graphql.ID
			}
		} `graphql:"addProjectV2ItemById(input: $input)"`
	}
	variables := map[string]any{
		"input": AddProjectV2ItemByIdInput{
			ProjectID: projectID,
			ContentID: contentID,
		},
	}

	if err := c.client.Mutate(ctx, &mutation, variables); err != nil {
		return "", c.mapError(err, "failed to add item to project")
	}
	if mutation.AddProjectV2ItemByID == nil || mutation.AddProjectV2ItemByID.Item == nil {
		return "", relaierrors.MissingField("addProjectV2ItemById.item")
	}
	return idString(mutation.AddProjectV2ItemByID.Item.ID), nil
}

// GetViewer returns the login of the token's owner and the rate limit budget.
func (c *GraphQLClient) GetViewer(ctx context.Context) (*ViewerInfo, error) {
	var query struct {
		Viewer struct {
			Login graphql.String
		}
		RateLimit *struct {
			Limit     graphql.Int
			Cost      graphql.Int
			Remaining graphql.Int
			ResetAt   time.Time
		}
	}

	if err := c.client.Query(ctx, &query, nil); err != nil {
		return nil, c.mapError(err, "failed to query viewer")
	}

	info := &ViewerInfo{Login: string(query.Viewer.Login)}
	if rl := query.RateLimit; rl != nil {
		info.Limit = int(rl.Limit)
		info.Cost = int(rl.Cost)
		info.Remaining = int(rl.Remaining)
		info.ResetAt = rl.ResetAt
	}
	return info, nil
}

func (c *GraphQLClient) pageLogger(what, target string) func(page, edges int) {
	return func(page, edges int) {
		c.logger.Debug("fetched page", "query", what, "target", target, "page", page, "edges", edges)
	}
}

// mapError turns a failure from the GraphQL library into a typed error.
// A non-200 response becomes a TransportError, a network failure stays as
// is, anything else is a GraphQL error from the response body. The result
// additionally wraps the matching sentinel so the CLI can pick an exit code.
func (c *GraphQLClient) mapError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, relaierrors.ErrMissingField) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var base error
	var urlErr *url.Error
	if status, body := c.transport.lastFailure(); status != 0 {
		base = &relaierrors.TransportError{StatusCode: status, Body: body}
	} else if errors.As(err, &urlErr) {
		base = err
	} else {
		base = &relaierrors.APIError{Messages: []string{err.Error()}}
	}

	// Rate limit first, as 403 can be both auth and rate limit
	var sentinel error
	switch {
	case c.inspector.IsRateLimitError(base):
		sentinel = relaierrors.ErrRateLimit
	case c.inspector.IsAuthError(base):
		sentinel = relaierrors.ErrInvalidToken
	case c.inspector.IsNotFoundError(base):
		sentinel = relaierrors.ErrNotFound
	case c.inspector.IsNetworkError(base):
		sentinel = relaierrors.ErrNetworkFailure
	}

	if sentinel == nil {
		return fmt.Errorf("%s: %w", op, base)
	}
	return fmt.Errorf("%s: %w: %w", op, sentinel, base)
}

// idString converts a decoded graphql.ID to its string form.
func idString(id graphql.ID) string {
	switch v := id.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
