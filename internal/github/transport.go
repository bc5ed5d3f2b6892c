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
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirseerhq/issueup/pkg/version"
)

const (
	// maxResponseSize caps how much of a response body is read (10MB).
	maxResponseSize = 10 * 1024 * 1024

	// maxErrorBody caps how much of a non-200 body is kept for error messages.
	maxErrorBody = 4 * 1024
)

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication header and safety limits to HTTP requests.
// It also remembers the status and a prefix of the body of the most recent
// non-200 response so failed queries can be reported with their status code.
// Requests are sequential, so "most recent" is the one that just failed.
type authTransport struct {
	token string
	base  http.RoundTripper

	mu         sync.Mutex
	requests   int
	lastStatus int
	lastBody   string
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("User-Agent", version.UserAgent())

	t.mu.Lock()
	t.requests++
	t.lastStatus = 0
	t.lastBody = ""
	t.mu.Unlock()

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.Body != nil {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		resp.Body = io.NopCloser(bytes.NewReader(snippet))

		t.mu.Lock()
		t.lastStatus = resp.StatusCode
		t.lastBody = strings.TrimSpace(string(snippet))
		t.mu.Unlock()
		return resp, nil
	}

	t.mu.Lock()
	t.lastStatus = resp.StatusCode
	t.mu.Unlock()

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseSize,
		}
	}

	return resp, nil
}

// lastFailure returns the status and body prefix of the latest response
// when it was not a 200, and zero otherwise.
func (t *authTransport) lastFailure() (int, string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.lastStatus == http.StatusOK {
		return 0, ""
	}
	return t.lastStatus, t.lastBody
}

// requestCount returns how many requests have been sent.
func (t *authTransport) requestCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests
}
