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
	"fmt"
	"os"
	"strings"

	relaierrors "github.com/sirseerhq/issueup/internal/errors"
)

// ResolveToken returns the GitHub API token. When credentialFile is set the
// token is the file's content with surrounding whitespace trimmed; otherwise
// it is read from the tokenEnv environment variable, DefaultTokenEnv when
// tokenEnv is empty. An empty result is reported as ErrCredentialMissing.
func ResolveToken(credentialFile, tokenEnv string) (string, error) {
	var token string

	if tokenEnv == "" {
		tokenEnv = DefaultTokenEnv
	}

	if credentialFile != "" {
		data, err := os.ReadFile(credentialFile)
		if err != nil {
			return "", fmt.Errorf("failed to read credential file %s: %w", credentialFile, err)
		}
		token = strings.TrimSpace(string(data))
	} else {
		token = strings.TrimSpace(os.Getenv(tokenEnv))
	}

	if token == "" {
		return "", fmt.Errorf("No GitHub API key found. Set %s or use the -c option: %w", tokenEnv, relaierrors.ErrCredentialMissing)
	}

	return token, nil
}
