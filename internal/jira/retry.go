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

package jira

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	relayerrors "github.com/sirseerhq/jira-relay/internal/errors"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
	}
}

// RetryClient wraps a Jira client with automatic retry logic for
// rate limits and transient network errors using exponential backoff.
type RetryClient struct {
	client Client
	config *RetryConfig
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client: client,
		config: config,
	}
}

// SearchIssues implements the Client interface with retry logic
func (r *RetryClient) SearchIssues(ctx context.Context, opts FetchOptions) (*SearchPage, error) {
	var page *SearchPage

	operation := func() error {
		p, err := r.client.SearchIssues(ctx, opts)
		if err != nil {
			if !shouldRetry(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		page = p
		return nil
	}

	notify := func(err error, wait time.Duration) {
		if errors.Is(err, relayerrors.ErrRateLimit) {
			fmt.Fprintf(os.Stderr, "Rate limit hit. Waiting %v before retry...\n", wait.Round(time.Second))
		} else {
			fmt.Fprintf(os.Stderr, "Network error. Retrying in %v...\n", wait.Round(time.Second))
		}
	}

	if err := backoff.RetryNotify(operation, r.newBackOff(ctx), notify); err != nil {
		return nil, err
	}
	return page, nil
}

// newBackOff builds the exponential backoff policy for one operation.
func (r *RetryClient) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = r.config.InitialBackoff
	bo.MaxInterval = r.config.MaxBackoff
	// Bound retries by attempt count, not wall clock.
	bo.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(bo, uint64(r.config.MaxRetries)), ctx)
}

// shouldRetry determines if an error is retryable. Rate limits and network
// failures are transient; auth and not-found errors never resolve on retry.
func shouldRetry(err error) bool {
	return errors.Is(err, relayerrors.ErrRateLimit) ||
		errors.Is(err, relayerrors.ErrNetworkFailure)
}
