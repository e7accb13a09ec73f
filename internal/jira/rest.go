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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	relayerrors "github.com/sirseerhq/jira-relay/internal/errors"
	"github.com/sirseerhq/jira-relay/internal/jiraerror"
	"github.com/sirseerhq/jira-relay/pkg/version"
)

// RESTClient implements the Client interface against the Jira Cloud REST API.
// It provides access to the search endpoint with support for pagination,
// error handling, and safety features like timeouts and response size limits.
type RESTClient struct {
	baseURL    string
	apiVersion string
	http       *http.Client
	inspector  jiraerror.Inspector
}

// NewRESTClient creates a new Jira REST client for the given site and API
// version ("2" when empty). The client is configured with:
//   - Basic authentication from the account email and API token
//   - User-Agent header for API compliance
//   - Response size limiting to prevent memory issues
//   - Optimized connection pooling for API performance
//
// Request timeouts are set at the CLI level via context.
func NewRESTClient(baseURL, apiVersion, email, token string) *RESTClient {
	// Create optimized transport with connection pooling
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10, // Increased from default 2
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			email: email,
			token: token,
			base:  transport,
		},
	}

	if apiVersion == "" {
		apiVersion = "2"
	}

	return &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiVersion: apiVersion,
		http:       httpClient,
		inspector:  jiraerror.NewInspector(),
	}
}

// SearchIssues fetches a page of issues matching the project and look-back
// window in opts. It uses offset-based pagination via opts.StartAt and
// configurable page sizes through opts.PageSize. The returned SearchPage
// carries the total match count and a HasMore flag for fetching subsequent
// pages.
func (c *RESTClient) SearchIssues(ctx context.Context, opts FetchOptions) (*SearchPage, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	q := url.Values{}
	q.Set("jql", BuildJQL(opts.Project, opts.Days))
	q.Set("startAt", strconv.Itoa(opts.StartAt))
	q.Set("maxResults", strconv.Itoa(pageSize))
	q.Set("fields", strings.Join(searchFields, ","))

	endpoint := c.baseURL + "/rest/api/" + c.apiVersion + "/search?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.mapStatusError(resp, opts.Project)
	}

	var wire searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	page := &SearchPage{
		StartAt: wire.StartAt,
		Total:   wire.Total,
		Issues:  make([]Issue, 0, len(wire.Issues)),
	}
	for i := range wire.Issues {
		page.Issues = append(page.Issues, convertIssue(&wire.Issues[i]))
	}
	page.HasMore = wire.StartAt+len(wire.Issues) < wire.Total

	return page, nil
}

// mapStatusError maps non-200 responses to our domain errors with actionable messages.
func (c *RESTClient) mapStatusError(resp *http.Response, project string) error {
	body, _ := io.ReadAll(resp.Body)
	detail := strings.TrimSpace(string(body))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("jira authentication failed (status %d). Please provide a valid email and API token via flags or the JIRA_EMAIL/JIRA_TOKEN environment variables: %w",
			resp.StatusCode, relayerrors.ErrInvalidCredentials)
	case http.StatusNotFound:
		return fmt.Errorf("project %q not found. Please check the project key and your access permissions: %w",
			project, relayerrors.ErrProjectNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("jira rate limit exceeded. Please wait before retrying: %w", relayerrors.ErrRateLimit)
	case http.StatusBadRequest:
		// Jira reports an unknown project as a JQL validation error.
		if c.inspector.IsNotFoundError(fmt.Errorf("%s", detail)) {
			return fmt.Errorf("project %q not found: %s: %w", project, detail, relayerrors.ErrProjectNotFound)
		}
		return fmt.Errorf("jira rejected the search request (status 400): %s", detail)
	default:
		return fmt.Errorf("jira api status=%d body=%s", resp.StatusCode, detail)
	}
}

// mapTransportError maps connection-level failures to our domain errors.
func (c *RESTClient) mapTransportError(err error) error {
	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to Jira. Please check your internet connection and try again: %w", relayerrors.ErrNetworkFailure)
	}
	return fmt.Errorf("failed to fetch issues: %w", err)
}

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

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	email string
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// Jira Cloud uses basic auth with email:token
	req.SetBasicAuth(t.email, t.token)

	// Add user agent for identification
	req.Header.Set("User-Agent", fmt.Sprintf("jira-relay/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024,
		}
	}

	return resp, nil
}
