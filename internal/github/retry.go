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
	"log/slog"
	"math"
	"time"

	"github.com/sirseerhq/issueup/internal/giterror"
	"github.com/sirseerhq/issueup/internal/logging"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a GitHub client with automatic retry logic for
// rate limits and transient network errors using exponential backoff.
// Adding an item that is already on the board returns the existing item,
// so AddProjectItem is safe to repeat.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector giterror.Inspector
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig, logger *slog.Logger) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if config.BackoffMultiplier <= 0 {
		config.BackoffMultiplier = 2.0
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: giterror.NewInspector(),
		logger:    logger,
		sleep:     sleepContext,
	}
}

// GetProject implements the Client interface with retry logic
func (r *RetryClient) GetProject(ctx context.Context, org string, number int) (*ProjectRef, error) {
	return withRetry(ctx, r, "get project", func() (*ProjectRef, error) {
		return r.client.GetProject(ctx, org, number)
	})
}

// FetchProjectItems implements the Client interface with retry logic.
// A failed page restarts the whole walk.
func (r *RetryClient) FetchProjectItems(ctx context.Context, org string, number int) ([]ProjectItem, error) {
	return withRetry(ctx, r, "fetch project items", func() ([]ProjectItem, error) {
		return r.client.FetchProjectItems(ctx, org, number)
	})
}

// FetchOpenIssues implements the Client interface with retry logic
func (r *RetryClient) FetchOpenIssues(ctx context.Context, org, repo string) ([]Issue, error) {
	return withRetry(ctx, r, "fetch open issues", func() ([]Issue, error) {
		return r.client.FetchOpenIssues(ctx, org, repo)
	})
}

// AddProjectItem implements the Client interface with retry logic
func (r *RetryClient) AddProjectItem(ctx context.Context, projectID, contentID string) (string, error) {
	return withRetry(ctx, r, "add project item", func() (string, error) {
		return r.client.AddProjectItem(ctx, projectID, contentID)
	})
}

// GetViewer implements the Client interface with retry logic
func (r *RetryClient) GetViewer(ctx context.Context) (*ViewerInfo, error) {
	return withRetry(ctx, r, "get viewer", func() (*ViewerInfo, error) {
		return r.client.GetViewer(ctx)
	})
}

func withRetry[T any](ctx context.Context, r *RetryClient, op string, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		// Don't retry on non-retryable errors
		if !r.inspector.IsRetryable(err) {
			return zero, err
		}
		if attempt == r.config.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)
		reason := "network error"
		if r.inspector.IsRateLimitError(err) {
			reason = "rate limit"
		}
		r.logger.Warn("retrying request",
			"op", op,
			"reason", reason,
			"backoff", backoff,
			"attempt", attempt+1,
			"max_retries", r.config.MaxRetries,
			"error", err)

		if err := r.sleep(ctx, backoff); err != nil {
			return zero, err
		}
	}

	if r.config.MaxRetries == 0 {
		return zero, lastErr
	}
	return zero, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if r.config.MaxBackoff > 0 && backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
