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

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
)

// MockServer wraps an httptest server standing in for a Jira Cloud site.
type MockServer struct {
	*httptest.Server
	requestCount int32
}

// RequestCount returns the number of search requests served.
func (m *MockServer) RequestCount() int {
	return int(atomic.LoadInt32(&m.requestCount))
}

// NewSearchServer creates a mock Jira server that serves the given issues
// through the search endpoint with real pagination. Requests to any other
// path return 404.
func NewSearchServer(t *testing.T, project string, issues []SearchIssue) *MockServer {
	t.Helper()
	ms := &MockServer{}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/api/2/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(&ms.requestCount, 1)

		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		if maxResults <= 0 {
			maxResults = 50
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BuildSearchResponse(project, issues, startAt, maxResults))
	}))

	return ms
}

// NewErrorServer creates a mock server that always returns the specified
// status code with the given body.
func NewErrorServer(t *testing.T, statusCode int, body string) *MockServer {
	t.Helper()
	ms := &MockServer{}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&ms.requestCount, 1)
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}))

	return ms
}

// NewTransientErrorServer creates a mock server that fails failCount times
// with errorCode, then serves the given issues normally. Used to exercise
// retry behavior end to end.
func NewTransientErrorServer(t *testing.T, failCount, errorCode int, project string, issues []SearchIssue) *MockServer {
	t.Helper()
	ms := &MockServer{}

	ms.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count := atomic.AddInt32(&ms.requestCount, 1)

		if count <= int32(failCount) {
			w.WriteHeader(errorCode)
			_, _ = w.Write([]byte(`{"errorMessages": ["rate limit exceeded"]}`))
			return
		}

		startAt, _ := strconv.Atoi(r.URL.Query().Get("startAt"))
		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		if maxResults <= 0 {
			maxResults = 50
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BuildSearchResponse(project, issues, startAt, maxResults))
	}))

	return ms
}
