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
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// Issue is a flat representation of one Jira work item. The schema follows
// what the Jira Cloud search API returns; nested objects (status, assignee,
// priority, ...) are flattened to their display values so a record maps
// directly onto one database row and one NDJSON line.
//
// Timestamps are kept as the ISO-8601 strings Jira returns rather than
// parsed time.Time values: they are stored and compared verbatim, and Jira's
// zone-offset format round-trips more faithfully as text.
type Issue struct {
	Key               string   `json:"key"`
	ID                string   `json:"id"`
	Project           string   `json:"project"`
	Summary           string   `json:"summary"`
	Description       string   `json:"description,omitempty"`
	Status            string   `json:"status"`
	IssueType         string   `json:"issue_type"`
	Priority          string   `json:"priority,omitempty"`
	Resolution        string   `json:"resolution,omitempty"`
	Assignee          string   `json:"assignee,omitempty"`
	AssigneeID        string   `json:"assignee_id,omitempty"`
	Reporter          string   `json:"reporter,omitempty"`
	Creator           string   `json:"creator,omitempty"`
	Labels            []string `json:"labels,omitempty"`
	Environment       string   `json:"environment,omitempty"`
	Created           string   `json:"created"`
	Updated           string   `json:"updated"`
	DueDate           string   `json:"due_date,omitempty"`
	ResolutionDate    string   `json:"resolution_date,omitempty"`
	LastViewed        string   `json:"last_viewed,omitempty"`
	OriginalEstimate  int64    `json:"original_estimate,omitempty"`
	RemainingEstimate int64    `json:"remaining_estimate,omitempty"`
	TimeSpent         string   `json:"time_spent,omitempty"`
	Worklog           string   `json:"worklog,omitempty"`
}

// Fingerprint returns a stable SHA256 hash over every persisted field of the
// issue. Two issues with identical content always produce the same
// fingerprint, which lets the store skip rewriting unchanged rows.
func (i *Issue) Fingerprint() string {
	h := sha256.New()
	fields := []string{
		i.Key,
		i.ID,
		i.Project,
		i.Summary,
		i.Description,
		i.Status,
		i.IssueType,
		i.Priority,
		i.Resolution,
		i.Assignee,
		i.AssigneeID,
		i.Reporter,
		i.Creator,
		strings.Join(i.Labels, ", "),
		i.Environment,
		i.Created,
		i.Updated,
		i.DueDate,
		i.ResolutionDate,
		i.LastViewed,
		fmt.Sprint(i.OriginalEstimate),
		fmt.Sprint(i.RemainingEstimate),
		i.TimeSpent,
		i.Worklog,
	}
	for _, f := range fields {
		_, _ = io.WriteString(h, f)
		// Field separator so adjacent fields cannot collide.
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// SearchPage represents one page of issues from a search query. It includes
// the issues for the current page and pagination information needed to fetch
// subsequent pages, so callers can stream results without holding the whole
// result set in memory.
type SearchPage struct {
	Issues  []Issue
	StartAt int
	Total   int
	HasMore bool
}

// FetchOptions configures how issues are fetched.
type FetchOptions struct {
	// Project is the Jira project key to filter by, e.g. "BSUP".
	Project string

	// Days is the trailing look-back window: only issues updated within
	// the last Days days are returned.
	Days int

	// StartAt is the zero-based offset for pagination.
	// Use SearchPage.StartAt + len(SearchPage.Issues) for the next page.
	StartAt int

	// PageSize controls how many issues to fetch per page.
	// Defaults to 100 if not specified. Maximum is 100 per Jira's API limits.
	PageSize int
}

// Default values for fetch operations
const (
	defaultPageSize = 100
	maxPageSize     = 100
)
