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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrCredentialMissing indicates no API token was found in a file or the environment.
	// Maps to exit code 1.
	ErrCredentialMissing = errors.New("no github api key found")

	// ErrTransport indicates the GraphQL endpoint answered with a non-200 status.
	ErrTransport = errors.New("graphql transport error")

	// ErrAPI indicates a 200 response that carried a GraphQL errors array.
	ErrAPI = errors.New("graphql api error")

	// ErrMissingField indicates a response lacked a field the caller needs,
	// typically because the queried project or repository does not exist.
	ErrMissingField = errors.New("missing field in graphql response")

	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrNotFound indicates the organization, project or repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrNotFound = errors.New("not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")
)

// TransportError carries the HTTP status of a failed GraphQL request.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("query failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Unwrap lets errors.Is match ErrTransport.
func (e *TransportError) Unwrap() error { return ErrTransport }

// APIError is a GraphQL-level failure reported in the response's errors array.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return "graphql error"
	}
	return "graphql error: " + strings.Join(e.Messages, "; ")
}

// Unwrap lets errors.Is match ErrAPI.
func (e *APIError) Unwrap() error { return ErrAPI }

// MissingField reports that path was absent or null in a response.
func MissingField(path string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, path)
}
