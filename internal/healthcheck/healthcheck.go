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

// Package healthcheck notifies an external monitoring endpoint (such as
// healthchecks.io) after each successful sync. The ping is best-effort:
// a failure to reach the monitoring service is reported but never fails
// the run that triggered it, since the sync itself already succeeded.
package healthcheck

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirseerhq/jira-relay/pkg/version"
)

// pingTimeout bounds a single notification attempt so a slow monitoring
// endpoint cannot stall a scheduled loop.
const pingTimeout = 10 * time.Second

// Notifier pings a monitoring URL to signal a successful sync.
// A Notifier with an empty URL is valid and does nothing.
type Notifier struct {
	url  string
	http *http.Client
}

// New creates a Notifier for the given monitoring URL. An empty URL
// disables notification.
func New(url string) *Notifier {
	return &Notifier{
		url: url,
		http: &http.Client{
			Timeout: pingTimeout,
		},
	}
}

// Enabled reports whether a monitoring URL is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Ping sends a single GET to the monitoring URL. It returns an error if
// the request fails or the endpoint responds with a non-2xx status, so
// the caller can log the miss; callers must not treat that error as a
// sync failure.
func (n *Notifier) Ping(ctx context.Context) error {
	if n.url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.url, nil)
	if err != nil {
		return fmt.Errorf("building health check request: %w", err)
	}
	req.Header.Set("User-Agent", "jira-relay/"+version.Version)

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("health check ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("health check endpoint returned status %d", resp.StatusCode)
	}

	return nil
}
