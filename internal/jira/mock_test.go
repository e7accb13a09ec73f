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
	"testing"
)

func TestMockClientPagination(t *testing.T) {
	mock := NewMockClient()
	total := len(mock.Issues)

	// Fetch in pages of 2 and verify every issue is served exactly once.
	seen := make(map[string]bool)
	startAt := 0
	for {
		page, err := mock.SearchIssues(context.Background(), FetchOptions{Project: "BSUP", Days: 30, StartAt: startAt, PageSize: 2})
		if err != nil {
			t.Fatalf("SearchIssues failed: %v", err)
		}
		for _, issue := range page.Issues {
			if seen[issue.Key] {
				t.Errorf("issue %s served twice", issue.Key)
			}
			seen[issue.Key] = true
		}
		if !page.HasMore {
			break
		}
		startAt = page.StartAt + len(page.Issues)
	}

	if len(seen) != total {
		t.Errorf("served %d issues, want %d", len(seen), total)
	}
}

func TestMockClientTracksCalls(t *testing.T) {
	mock := NewMockClient()
	opts := FetchOptions{Project: "BSUP", Days: 7, PageSize: 10}

	if _, err := mock.SearchIssues(context.Background(), opts); err != nil {
		t.Fatalf("SearchIssues failed: %v", err)
	}

	if mock.CallCount != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount)
	}
	if mock.LastOpts != opts {
		t.Errorf("LastOpts = %+v, want %+v", mock.LastOpts, opts)
	}
}
