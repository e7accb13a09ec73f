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

// Package testutil provides common test helpers for jira-relay
package testutil

import (
	"fmt"
)

// SearchIssue is a minimal issue description used to build Jira search
// responses in tests. Only the fields the relay persists are modeled.
type SearchIssue struct {
	Key      string
	Summary  string
	Status   string
	Assignee string
	Updated  string
}

// GenerateIssues creates count sequential test issues for a project,
// keyed PROJECT-1 through PROJECT-count.
func GenerateIssues(project string, count int) []SearchIssue {
	issues := make([]SearchIssue, count)
	for i := range issues {
		issues[i] = SearchIssue{
			Key:     fmt.Sprintf("%s-%d", project, i+1),
			Summary: fmt.Sprintf("Test issue %d", i+1),
			Status:  "Open",
			Updated: "2024-01-15T10:30:00.000+0000",
		}
	}
	return issues
}

// BuildSearchResponse creates a Jira search response body for one page of
// the given issues, honoring startAt and maxResults the way the real
// endpoint does.
func BuildSearchResponse(project string, issues []SearchIssue, startAt, maxResults int) map[string]interface{} {
	if startAt > len(issues) {
		startAt = len(issues)
	}
	end := startAt + maxResults
	if end > len(issues) {
		end = len(issues)
	}

	wireIssues := make([]map[string]interface{}, 0, end-startAt)
	for i, issue := range issues[startAt:end] {
		fields := map[string]interface{}{
			"summary": issue.Summary,
			"status":  map[string]interface{}{"name": issue.Status},
			"project": map[string]interface{}{"key": project},
			"updated": issue.Updated,
		}
		if issue.Assignee != "" {
			fields["assignee"] = map[string]interface{}{
				"displayName": issue.Assignee,
				"accountId":   fmt.Sprintf("acct-%d", startAt+i),
			}
		}
		wireIssues = append(wireIssues, map[string]interface{}{
			"id":     fmt.Sprintf("10%03d", startAt+i),
			"key":    issue.Key,
			"fields": fields,
		})
	}

	return map[string]interface{}{
		"startAt":    startAt,
		"maxResults": maxResults,
		"total":      len(issues),
		"issues":     wireIssues,
	}
}
