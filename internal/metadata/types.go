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

// Package metadata types define the structures used for tracking and
// persisting information about sync operations. These types capture
// statistics and audit information for each run against a Jira project.
package metadata

import (
	"time"
)

// SyncMetadata represents the complete metadata record for a single sync
// operation. It captures what was synced, the parameters used, and the
// results, providing an audit trail for troubleshooting scheduled runs.
type SyncMetadata struct {
	RelayVersion string      `json:"relay_version"`
	SyncID       string      `json:"sync_id"`
	Parameters   SyncParams  `json:"parameters"`
	Results      SyncResults `json:"results"`
	PreviousSync *SyncRef    `json:"previous_sync,omitempty"`
}

// SyncParams captures the input parameters used for a sync operation.
// These are preserved to make individual runs reproducible when
// troubleshooting a scheduled deployment.
type SyncParams struct {
	BaseURL  string `json:"base_url"`
	Project  string `json:"project"`
	Days     int    `json:"days"`
	Database string `json:"database"`
	PageSize int    `json:"page_size"`
}

// SyncResults contains statistics about a completed sync operation. It
// tracks both quantitative metrics (issue counts, API calls) and temporal
// information (update-date range, duration).
type SyncResults struct {
	TotalIssues  int       `json:"total_issues"`
	Inserted     int       `json:"inserted"`
	Updated      int       `json:"updated"`
	Unchanged    int       `json:"unchanged"`
	OldestIssue  time.Time `json:"oldest_issue_update"`
	NewestIssue  time.Time `json:"newest_issue_update"`
	Duration     string    `json:"sync_duration"`
	APICallCount int       `json:"api_calls_made"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}

// SyncRef provides a lightweight reference to a previous sync operation,
// linking consecutive runs of the same project into an audit trail.
type SyncRef struct {
	SyncID      string    `json:"sync_id"`
	CompletedAt time.Time `json:"completed_at"`
}
