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

// Package reconcile decides which open issues are not yet on a project
// board. Issues and board items are matched by their composite key,
// "repository/number".
package reconcile

import (
	"fmt"
	"strings"

	"github.com/sirseerhq/issueup/internal/github"
)

// Options controls key matching.
type Options struct {
	// IgnoreCase compares repository names case-insensitively. GitHub
	// preserves the case of repository names but resolves them without it.
	IgnoreCase bool
}

// Key is the composite "repository/number" identifier of an issue.
type Key string

// KeyOf builds the key for repo and number under opts.
func KeyOf(repo string, number int, opts Options) Key {
	if opts.IgnoreCase {
		repo = strings.ToLower(repo)
	}
	return Key(fmt.Sprintf("%s/%d", repo, number))
}

// PresenceSet holds the keys of every issue already on the board.
type PresenceSet struct {
	opts Options
	keys map[Key]struct{}
}

// NewPresenceSet builds the set from the board's current items.
func NewPresenceSet(items []github.ProjectItem, opts Options) *PresenceSet {
	s := &PresenceSet{
		opts: opts,
		keys: make(map[Key]struct{}, len(items)),
	}
	for _, item := range items {
		s.Add(item.Repository, item.Number)
	}
	return s
}

// Add marks repo/number as present.
func (s *PresenceSet) Add(repo string, number int) {
	s.keys[KeyOf(repo, number, s.opts)] = struct{}{}
}

// Has reports whether repo/number is present.
func (s *PresenceSet) Has(repo string, number int) bool {
	_, ok := s.keys[KeyOf(repo, number, s.opts)]
	return ok
}

// Len returns the number of distinct keys.
func (s *PresenceSet) Len() int {
	return len(s.keys)
}

// Filter returns the candidates absent from the set, in their original order.
func (s *PresenceSet) Filter(candidates []github.Issue) []github.Issue {
	missing := make([]github.Issue, 0, len(candidates))
	for _, issue := range candidates {
		if !s.Has(issue.Repository, issue.Number) {
			missing = append(missing, issue)
		}
	}
	return missing
}

// Missing returns the candidates whose key is not among existing.
func Missing(existing []github.ProjectItem, candidates []github.Issue, opts Options) []github.Issue {
	return NewPresenceSet(existing, opts).Filter(candidates)
}
