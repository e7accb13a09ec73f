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
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	relayerrors "github.com/sirseerhq/jira-relay/internal/errors"
)

func searchHandler(t *testing.T, check func(r *http.Request), response searchResponse) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}
}

func TestSearchIssuesRequestShape(t *testing.T) {
	var gotPath, gotJQL, gotStartAt, gotMax, gotAuth, gotUA string

	server := httptest.NewServer(searchHandler(t, func(r *http.Request) {
		gotPath = r.URL.Path
		gotJQL = r.URL.Query().Get("jql")
		gotStartAt = r.URL.Query().Get("startAt")
		gotMax = r.URL.Query().Get("maxResults")
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
	}, searchResponse{Total: 0}))
	defer server.Close()

	client := NewRESTClient(server.URL, "2", "ops@example.org", "secret-token")
	_, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30, PageSize: 50})
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}

	if gotPath != "/rest/api/2/search" {
		t.Errorf("path = %q, want /rest/api/2/search", gotPath)
	}
	if gotJQL != "project = BSUP AND updated >= -30d ORDER BY updated ASC" {
		t.Errorf("jql = %q", gotJQL)
	}
	if gotStartAt != "0" {
		t.Errorf("startAt = %q, want 0", gotStartAt)
	}
	if gotMax != "50" {
		t.Errorf("maxResults = %q, want 50", gotMax)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("Authorization = %q, want basic auth", gotAuth)
	}
	if !strings.HasPrefix(gotUA, "jira-relay/") {
		t.Errorf("User-Agent = %q, want jira-relay/*", gotUA)
	}
}

func TestSearchIssuesAPIVersionPath(t *testing.T) {
	tests := []struct {
		name       string
		apiVersion string
		wantPath   string
	}{
		{"explicit v3", "3", "/rest/api/3/search"},
		{"empty defaults to v2", "", "/rest/api/2/search"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(searchHandler(t, func(r *http.Request) {
				gotPath = r.URL.Path
			}, searchResponse{Total: 0}))
			defer server.Close()

			client := NewRESTClient(server.URL, tt.apiVersion, "ops@example.org", "secret-token")
			if _, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30}); err != nil {
				t.Fatalf("SearchIssues failed: %v", err)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
		})
	}
}

func TestSearchIssuesDecodesPage(t *testing.T) {
	response := searchResponse{
		StartAt:    0,
		MaxResults: 2,
		Total:      3,
		Issues: []wireIssue{
			{
				ID:  "10001",
				Key: "BSUP-1",
				Fields: wireFields{
					Summary:   "First ticket",
					Status:    &wireNamed{Name: "Open"},
					IssueType: &wireNamed{Name: "Task"},
					Project:   &wireProject{Key: "BSUP"},
					Created:   "2024-01-02T10:00:00.000+0000",
					Updated:   "2024-01-03T10:00:00.000+0000",
				},
			},
			{
				ID:  "10002",
				Key: "BSUP-2",
				Fields: wireFields{
					Summary:  "Second ticket",
					Status:   &wireNamed{Name: "Done"},
					Project:  &wireProject{Key: "BSUP"},
					Assignee: &wireUser{DisplayName: "Alice Example", AccountID: "abc"},
				},
			},
		},
	}

	server := httptest.NewServer(searchHandler(t, nil, response))
	defer server.Close()

	client := NewRESTClient(server.URL, "2", "ops@example.org", "secret-token")
	page, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30})
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}

	if len(page.Issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(page.Issues))
	}
	if page.Total != 3 {
		t.Errorf("Total = %d, want 3", page.Total)
	}
	if !page.HasMore {
		t.Error("HasMore = false, want true (2 of 3 fetched)")
	}
	if page.Issues[0].Key != "BSUP-1" || page.Issues[0].Status != "Open" {
		t.Errorf("first issue = %+v", page.Issues[0])
	}
	if page.Issues[1].Assignee != "Alice Example" {
		t.Errorf("second issue assignee = %q, want Alice Example", page.Issues[1].Assignee)
	}
}

func TestSearchIssuesLastPage(t *testing.T) {
	response := searchResponse{
		StartAt: 2,
		Total:   3,
		Issues: []wireIssue{
			{ID: "10003", Key: "BSUP-3", Fields: wireFields{Summary: "Last", Project: &wireProject{Key: "BSUP"}}},
		},
	}

	server := httptest.NewServer(searchHandler(t, nil, response))
	defer server.Close()

	client := NewRESTClient(server.URL, "2", "ops@example.org", "secret-token")
	page, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30, StartAt: 2})
	if err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
	if page.HasMore {
		t.Error("HasMore = true, want false on last page")
	}
}

func TestSearchIssuesErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		sentinel   error
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			body:       `{"errorMessages":["Unauthorized"]}`,
			sentinel:   relayerrors.ErrInvalidCredentials,
		},
		{
			name:       "forbidden",
			statusCode: http.StatusForbidden,
			body:       `{"errorMessages":["Forbidden"]}`,
			sentinel:   relayerrors.ErrInvalidCredentials,
		},
		{
			name:       "not found",
			statusCode: http.StatusNotFound,
			body:       `{"errorMessages":["Not Found"]}`,
			sentinel:   relayerrors.ErrProjectNotFound,
		},
		{
			name:       "unknown project via jql validation",
			statusCode: http.StatusBadRequest,
			body:       `{"errorMessages":["The value 'NOPE' does not exist for the field 'project'."]}`,
			sentinel:   relayerrors.ErrProjectNotFound,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			body:       `{"message":"too many requests"}`,
			sentinel:   relayerrors.ErrRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewRESTClient(server.URL, "2", "ops@example.org", "bad-token")
			_, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30})
			if err == nil {
				t.Fatal("SearchIssues should fail")
			}
			if !errors.Is(err, tt.sentinel) {
				t.Errorf("error %v should wrap %v", err, tt.sentinel)
			}
		})
	}
}

func TestSearchIssuesNetworkError(t *testing.T) {
	// Point at a closed port to force a connection error.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewRESTClient(url, "2", "ops@example.org", "secret-token")
	_, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30})
	if err == nil {
		t.Fatal("SearchIssues should fail against closed server")
	}
	if !errors.Is(err, relayerrors.ErrNetworkFailure) {
		t.Errorf("error %v should wrap ErrNetworkFailure", err)
	}
}

func TestSearchIssuesPageSizeClamped(t *testing.T) {
	var gotMax string
	server := httptest.NewServer(searchHandler(t, func(r *http.Request) {
		gotMax = r.URL.Query().Get("maxResults")
	}, searchResponse{}))
	defer server.Close()

	client := NewRESTClient(server.URL, "2", "ops@example.org", "secret-token")
	if _, err := client.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30, PageSize: 500}); err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}
	if gotMax != "100" {
		t.Errorf("maxResults = %q, want clamped to 100", gotMax)
	}
}
