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

package reconcile

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/sirseerhq/issueup/internal/github"
	"github.com/stretchr/testify/assert"
)

func item(repo string, number int) github.ProjectItem {
	return github.ProjectItem{Repository: repo, Number: number}
}

func issue(repo string, number int) github.Issue {
	return github.Issue{ID: fmt.Sprintf("I_%s_%d", repo, number), Repository: repo, Number: number}
}

func TestMissing(t *testing.T) {
	tests := []struct {
		name       string
		existing   []github.ProjectItem
		candidates []github.Issue
		opts       Options
		want       []github.Issue
	}{
		{
			name:       "set difference",
			existing:   []github.ProjectItem{item("r1", 1), item("r1", 2)},
			candidates: []github.Issue{issue("r1", 1), issue("r1", 2), issue("r1", 3)},
			want:       []github.Issue{issue("r1", 3)},
		},
		{
			name:       "preserves candidate order",
			existing:   []github.ProjectItem{item("r1", 2)},
			candidates: []github.Issue{issue("r1", 9), issue("r1", 2), issue("r1", 4), issue("r1", 1)},
			want:       []github.Issue{issue("r1", 9), issue("r1", 4), issue("r1", 1)},
		},
		{
			name:       "same number in another repository is not present",
			existing:   []github.ProjectItem{item("web", 5)},
			candidates: []github.Issue{issue("api", 5), issue("web", 5)},
			want:       []github.Issue{issue("api", 5)},
		},
		{
			name:       "empty board",
			candidates: []github.Issue{issue("web", 1)},
			want:       []github.Issue{issue("web", 1)},
		},
		{
			name:     "nothing to do",
			existing: []github.ProjectItem{item("web", 1)},
			want:     []github.Issue{},
		},
		{
			name:       "case-sensitive by default",
			existing:   []github.ProjectItem{item("Web", 5)},
			candidates: []github.Issue{issue("web", 5)},
			want:       []github.Issue{issue("web", 5)},
		},
		{
			name:       "ignore case",
			existing:   []github.ProjectItem{item("Web", 5)},
			candidates: []github.Issue{issue("web", 5), issue("WEB", 6)},
			opts:       Options{IgnoreCase: true},
			want:       []github.Issue{issue("WEB", 6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Missing(tt.existing, tt.candidates, tt.opts)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissing_DoesNotModifyInputs(t *testing.T) {
	existing := []github.ProjectItem{item("r1", 1)}
	candidates := []github.Issue{issue("r1", 1), issue("r1", 2)}

	_ = Missing(existing, candidates, Options{})

	assert.Equal(t, []github.Issue{issue("r1", 1), issue("r1", 2)}, candidates)
	assert.Equal(t, []github.ProjectItem{item("r1", 1)}, existing)
}

func TestPresenceSet(t *testing.T) {
	s := NewPresenceSet([]github.ProjectItem{item("web", 5), item("web", 5), item("api", 1)}, Options{})

	assert.Equal(t, 2, s.Len(), "duplicate items collapse to one key")
	assert.True(t, s.Has("web", 5))
	assert.False(t, s.Has("web", 6))

	s.Add("web", 6)
	assert.True(t, s.Has("web", 6))
	assert.Equal(t, 3, s.Len())
}

func TestKeyOf(t *testing.T) {
	assert.Equal(t, Key("web/5"), KeyOf("web", 5, Options{}))
	assert.Equal(t, Key("Web/5"), KeyOf("Web", 5, Options{}))
	assert.Equal(t, Key("web/5"), KeyOf("Web", 5, Options{IgnoreCase: true}))
}
