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
	"testing"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
)

// Compile-time checks that the implementations satisfy Client
var (
	_ Client = (*MockClient)(nil)
	_ Client = (*GraphQLClient)(nil)
	_ Client = (*RetryClient)(nil)
)

func newAcmeMock(opts ...MockClientOption) *MockClient {
	return NewMockClientWithOptions("acme", ProjectRef{ID: "PVT_7", Title: "Roadmap", Number: 7}, opts...)
}

func TestMockClient_Lookups(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the configured project", func(t *testing.T) {
		mock := newAcmeMock()

		p, err := mock.GetProject(ctx, "acme", 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ID != "PVT_7" || p.Owner != "acme" {
			t.Errorf("unexpected project %+v", p)
		}
		if mock.CallCount != 1 {
			t.Errorf("expected 1 call, got %d", mock.CallCount)
		}
	})

	t.Run("unknown project is a missing field", func(t *testing.T) {
		_, err := newAcmeMock().GetProject(ctx, "acme", 8)
		if !errors.Is(err, relaierrors.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("unknown repository is a missing field", func(t *testing.T) {
		_, err := newAcmeMock().FetchOpenIssues(ctx, "acme", "nope")
		if !errors.Is(err, relaierrors.ErrMissingField) {
			t.Errorf("expected ErrMissingField, got %v", err)
		}
	})

	t.Run("fills in repository names", func(t *testing.T) {
		mock := newAcmeMock(WithOpenIssues("web", Issue{ID: "A", Number: 5}))

		issues, err := mock.FetchOpenIssues(ctx, "acme", "web")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(issues) != 1 || issues[0].Repository != "web" {
			t.Errorf("unexpected issues %+v", issues)
		}
	})
}

func TestMockClient_AddAppendsToBoard(t *testing.T) {
	ctx := context.Background()
	mock := newAcmeMock(
		WithItems(ProjectItem{ID: "PVTI_1", Repository: "web", Number: 5}),
		WithOpenIssues("web", Issue{ID: "A", Number: 5}, Issue{ID: "B", Number: 9, Title: "Broken link"}),
	)

	itemID, err := mock.AddProjectItem(ctx, "PVT_7", "B")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if itemID != "PVTI_2" {
		t.Errorf("itemID = %q, want PVTI_2", itemID)
	}

	items, err := mock.FetchProjectItems(ctx, "acme", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].Repository != "web" || items[1].Number != 9 || items[1].Title != "Broken link" {
		t.Errorf("unexpected new item %+v", items[1])
	}

	calls := mock.AddCalls()
	if len(calls) != 1 || calls[0] != (AddCall{ProjectID: "PVT_7", ContentID: "B"}) {
		t.Errorf("unexpected add calls %+v", calls)
	}
}

func TestMockClient_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("simulates auth failure", func(t *testing.T) {
		_, err := newAcmeMock(WithAuthFailure()).GetViewer(ctx)
		if !errors.Is(err, relaierrors.ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("simulates network failure", func(t *testing.T) {
		mock := newAcmeMock()
		mock.ShouldFailNetwork = true

		_, err := mock.FetchProjectItems(ctx, "acme", 7)
		if !errors.Is(err, relaierrors.ErrNetworkFailure) {
			t.Errorf("expected ErrNetworkFailure, got %v", err)
		}
	})

	t.Run("with custom error", func(t *testing.T) {
		customErr := errors.New("custom error")
		_, err := newAcmeMock(WithError(customErr)).GetProject(ctx, "acme", 7)
		if !errors.Is(err, customErr) {
			t.Errorf("expected custom error, got %v", err)
		}
	})

	t.Run("fails adds after a threshold", func(t *testing.T) {
		mock := newAcmeMock(
			WithOpenIssues("web", Issue{ID: "A", Number: 1}, Issue{ID: "B", Number: 2}),
			WithFailAddAfter(1),
		)
		if _, err := mock.AddProjectItem(ctx, "PVT_7", "A"); err != nil {
			t.Fatalf("first add failed: %v", err)
		}
		_, err := mock.AddProjectItem(ctx, "PVT_7", "B")
		var te *relaierrors.TransportError
		if !errors.As(err, &te) || te.StatusCode != 500 {
			t.Errorf("expected 500 TransportError, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		cancelCtx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newAcmeMock().GetProject(cancelCtx, "acme", 7)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
