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

// Package pager walks cursor-paginated GraphQL connections to completion.
//
// A call site describes one connection with a Walk: the query struct type,
// the fixed variables, how to find the edge list in a decoded response, which
// nodes to keep, and how to shape a kept node into a result. Collect issues
// the query repeatedly, feeding the cursor of the last edge of each page back
// as the cursor variable, until a page comes back with no edges.
//
// Cursors are opaque. They are never compared or inspected, only echoed.
package pager

import (
	"context"

	"github.com/shurcooL/graphql"
)

// DefaultCursorVar is the variable name used for the page cursor when a
// Walk does not name one.
const DefaultCursorVar = "after"

// Querier runs a single GraphQL query, decoding the response into q.
// *graphql.Client satisfies it.
type Querier interface {
	Query(ctx context.Context, q any, variables map[string]any) error
}

// Edge is one element of a connection: the node and its cursor. Use it as
// the element type of an edges field inside a query struct.
type Edge[N any] struct {
	Cursor graphql.String
	Node   N
}

// Walk describes how to page through one connection.
//
// Q is the query struct type, N the node type within each edge and R the
// projected result type.
type Walk[Q, N, R any] struct {
	// Variables holds the fixed query variables. It is copied, never modified.
	Variables map[string]any

	// CursorVar names the cursor variable; DefaultCursorVar when empty.
	// The query must declare it nullable (e.g. after: $after).
	CursorVar string

	// Edges extracts the page's edges from a decoded response. It returns an
	// error when the path to the edges is missing from the response.
	Edges func(q *Q) ([]Edge[N], error)

	// Keep filters nodes client-side. Nil keeps every node. Filtered nodes
	// still advance the cursor.
	Keep func(n N) bool

	// Project shapes a kept node into a result.
	Project func(n N) R

	// OnPage, when set, is called after each page with its 1-based number
	// and edge count, including the final empty page.
	OnPage func(page, edges int)
}

// Collect pages through the connection described by w and returns the
// projected nodes in server order. It issues one query per non-empty page
// plus one for the terminating empty page. There is no page limit.
func Collect[Q, N, R any](ctx context.Context, c Querier, w Walk[Q, N, R]) ([]R, error) {
	cursorVar := w.CursorVar
	if cursorVar == "" {
		cursorVar = DefaultCursorVar
	}

	vars := make(map[string]any, len(w.Variables)+1)
	for k, v := range w.Variables {
		vars[k] = v
	}
	vars[cursorVar] = (*graphql.String)(nil)

	results := make([]R, 0)
	for page := 1; ; page++ {
		var q Q
		if err := c.Query(ctx, &q, vars); err != nil {
			return nil, err
		}

		edges, err := w.Edges(&q)
		if err != nil {
			return nil, err
		}
		if w.OnPage != nil {
			w.OnPage(page, len(edges))
		}
		if len(edges) == 0 {
			return results, nil
		}

		for _, edge := range edges {
			if w.Keep == nil || w.Keep(edge.Node) {
				results = append(results, w.Project(edge.Node))
			}
		}

		// Every edge advances the cursor, kept or not.
		vars[cursorVar] = graphql.NewString(edges[len(edges)-1].Cursor)
	}
}
