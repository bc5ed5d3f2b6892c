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

package config

import (
	"os"
	"path/filepath"
	"testing"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveToken_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  ghp_filetoken\n\n"), 0o600))
	t.Setenv("GH_API_KEY", "ghp_envtoken")

	token, err := ResolveToken(path, "GH_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "ghp_filetoken", token, "file wins over the environment and is trimmed")
}

func TestResolveToken_FromEnv(t *testing.T) {
	t.Setenv("GH_API_KEY", "ghp_envtoken")

	token, err := ResolveToken("", "GH_API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "ghp_envtoken", token)
}

func TestResolveToken_Missing(t *testing.T) {
	t.Setenv("GH_API_KEY", "")

	_, err := ResolveToken("", "GH_API_KEY")
	require.Error(t, err)
	assert.ErrorIs(t, err, relaierrors.ErrCredentialMissing)
	assert.Contains(t, err.Error(), "Set GH_API_KEY or use the -c option")
}

func TestResolveToken_EmptyTokenEnv(t *testing.T) {
	t.Setenv("GH_API_KEY", "ghp_default")

	token, err := ResolveToken("", "")
	require.NoError(t, err)
	assert.Equal(t, "ghp_default", token)

	t.Setenv("GH_API_KEY", "")
	_, err = ResolveToken("", "")
	assert.ErrorIs(t, err, relaierrors.ErrCredentialMissing)
	assert.Contains(t, err.Error(), "Set GH_API_KEY or use the -c option")
}

func TestResolveToken_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o600))

	_, err := ResolveToken(path, "GH_API_KEY")
	assert.ErrorIs(t, err, relaierrors.ErrCredentialMissing)
}

func TestResolveToken_UnreadableFile(t *testing.T) {
	_, err := ResolveToken(filepath.Join(t.TempDir(), "missing"), "GH_API_KEY")
	require.Error(t, err)
	assert.NotErrorIs(t, err, relaierrors.ErrCredentialMissing)
	assert.Contains(t, err.Error(), "failed to read credential file")
}

func TestLoadConfig_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "issueup.toml")
	content := `
[github]
graphql_endpoint = "https://ghe.example.com/api/graphql"
credential_file = "/etc/issueup/token"

[sync]
organization = "acme"
repositories = ["web", "docs"]
project = 12
ignore_case = true

[pagination]
items_page_size = 100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/graphql", cfg.GitHub.GraphQLEndpoint)
	assert.Equal(t, "/etc/issueup/token", cfg.GitHub.CredentialFile)
	assert.Equal(t, "acme", cfg.Sync.Organization)
	assert.Equal(t, []string{"web", "docs"}, cfg.Sync.Repositories)
	assert.Equal(t, 12, cfg.Sync.ProjectNumber)
	assert.True(t, cfg.Sync.IgnoreCase)
	assert.Equal(t, 100, cfg.Pagination.ItemsPageSize)
	assert.Equal(t, 10, cfg.Pagination.IssuesPageSize)
	assert.Equal(t, "GH_API_KEY", cfg.GitHub.TokenEnv)
	require.NoError(t, cfg.Validate())
}
