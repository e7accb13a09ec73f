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

package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sirseerhq/jira-relay/internal/jira"
)

// UpsertResult reports what an upsert did to the row.
type UpsertResult int

const (
	// Inserted means no row existed for the issue key.
	Inserted UpsertResult = iota
	// Updated means the row existed with different content.
	Updated
	// Unchanged means the row existed with an identical fingerprint.
	Unchanged
)

// Store wraps the SQLite database connection.
type Store struct {
	*sql.DB
}

// Open opens the database file at path, creating it if absent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{DB: db}, nil
}

// Initialize creates the database schema if it doesn't exist
func (s *Store) Initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS issues (
		issue_key TEXT PRIMARY KEY,
		issue_id TEXT,
		project TEXT NOT NULL,
		summary TEXT,
		description TEXT,
		status TEXT,
		issue_type TEXT,
		priority TEXT,
		resolution TEXT,
		assignee TEXT,
		assignee_id TEXT,
		reporter TEXT,
		creator TEXT,
		labels TEXT,
		environment TEXT,
		created TEXT,
		updated TEXT,
		due_date TEXT,
		resolution_date TEXT,
		last_viewed TEXT,
		original_estimate INTEGER,
		remaining_estimate INTEGER,
		time_spent TEXT,
		worklog TEXT,
		fingerprint TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sync_runs (
		project TEXT PRIMARY KEY,
		last_sync_time TIMESTAMP NOT NULL,
		issues_fetched INTEGER NOT NULL DEFAULT 0
	);
	`

	_, err := s.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// UpsertIssue writes an issue keyed by its issue key. Rows whose stored
// fingerprint matches the incoming record are left untouched.
func (s *Store) UpsertIssue(issue *jira.Issue) (UpsertResult, error) {
	fingerprint := issue.Fingerprint()

	var existing string
	err := s.QueryRow(`SELECT fingerprint FROM issues WHERE issue_key = ?`, issue.Key).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		if err := s.insertIssue(issue, fingerprint); err != nil {
			return 0, err
		}
		return Inserted, nil
	case err != nil:
		return 0, fmt.Errorf("failed to look up issue %s: %w", issue.Key, err)
	case existing == fingerprint:
		return Unchanged, nil
	default:
		if err := s.updateIssue(issue, fingerprint); err != nil {
			return 0, err
		}
		return Updated, nil
	}
}

func (s *Store) insertIssue(issue *jira.Issue, fingerprint string) error {
	query := `
	INSERT INTO issues (
		issue_key, issue_id, project, summary, description, status, issue_type,
		priority, resolution, assignee, assignee_id, reporter, creator, labels,
		environment, created, updated, due_date, resolution_date, last_viewed,
		original_estimate, remaining_estimate, time_spent, worklog, fingerprint
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.Exec(query,
		issue.Key,
		issue.ID,
		issue.Project,
		issue.Summary,
		issue.Description,
		issue.Status,
		issue.IssueType,
		issue.Priority,
		issue.Resolution,
		issue.Assignee,
		issue.AssigneeID,
		issue.Reporter,
		issue.Creator,
		strings.Join(issue.Labels, ", "),
		issue.Environment,
		issue.Created,
		issue.Updated,
		issue.DueDate,
		issue.ResolutionDate,
		issue.LastViewed,
		issue.OriginalEstimate,
		issue.RemainingEstimate,
		issue.TimeSpent,
		issue.Worklog,
		fingerprint,
	)
	if err != nil {
		return fmt.Errorf("failed to insert issue %s: %w", issue.Key, err)
	}

	return nil
}

func (s *Store) updateIssue(issue *jira.Issue, fingerprint string) error {
	query := `
	UPDATE issues SET
		issue_id = ?, project = ?, summary = ?, description = ?, status = ?,
		issue_type = ?, priority = ?, resolution = ?, assignee = ?,
		assignee_id = ?, reporter = ?, creator = ?, labels = ?, environment = ?,
		created = ?, updated = ?, due_date = ?, resolution_date = ?,
		last_viewed = ?, original_estimate = ?, remaining_estimate = ?,
		time_spent = ?, worklog = ?, fingerprint = ?
	WHERE issue_key = ?
	`

	_, err := s.Exec(query,
		issue.ID,
		issue.Project,
		issue.Summary,
		issue.Description,
		issue.Status,
		issue.IssueType,
		issue.Priority,
		issue.Resolution,
		issue.Assignee,
		issue.AssigneeID,
		issue.Reporter,
		issue.Creator,
		strings.Join(issue.Labels, ", "),
		issue.Environment,
		issue.Created,
		issue.Updated,
		issue.DueDate,
		issue.ResolutionDate,
		issue.LastViewed,
		issue.OriginalEstimate,
		issue.RemainingEstimate,
		issue.TimeSpent,
		issue.Worklog,
		fingerprint,
		issue.Key,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue %s: %w", issue.Key, err)
	}

	return nil
}

// GetLastSyncTime gets the last successful sync time for a project.
// Returns the zero time if the project has never been synced.
func (s *Store) GetLastSyncTime(project string) (time.Time, error) {
	var lastSyncTime time.Time
	query := `SELECT last_sync_time FROM sync_runs WHERE project = ?`

	err := s.QueryRow(query, project).Scan(&lastSyncTime)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("failed to get last sync time: %w", err)
	}

	return lastSyncTime, nil
}

// RecordSyncRun updates the sync bookkeeping for a project after a
// successful run.
func (s *Store) RecordSyncRun(project string, syncTime time.Time, fetched int) error {
	query := `
	INSERT INTO sync_runs (project, last_sync_time, issues_fetched)
	VALUES (?, ?, ?)
	ON CONFLICT(project) DO UPDATE SET
		last_sync_time = excluded.last_sync_time,
		issues_fetched = excluded.issues_fetched
	`

	_, err := s.Exec(query, project, syncTime, fetched)
	if err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	return nil
}

// CountIssues returns the number of rows in the issues table.
func (s *Store) CountIssues() (int, error) {
	var count int
	if err := s.QueryRow(`SELECT COUNT(*) FROM issues`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count issues: %w", err)
	}
	return count, nil
}

// GetIssue reads one issue row by key. Returns nil if no row exists.
func (s *Store) GetIssue(key string) (*jira.Issue, error) {
	query := `
	SELECT issue_key, issue_id, project, summary, description, status,
		issue_type, priority, resolution, assignee, assignee_id, reporter,
		creator, labels, environment, created, updated, due_date,
		resolution_date, last_viewed, original_estimate, remaining_estimate,
		time_spent, worklog
	FROM issues WHERE issue_key = ?
	`

	var issue jira.Issue
	var labels string
	err := s.QueryRow(query, key).Scan(
		&issue.Key,
		&issue.ID,
		&issue.Project,
		&issue.Summary,
		&issue.Description,
		&issue.Status,
		&issue.IssueType,
		&issue.Priority,
		&issue.Resolution,
		&issue.Assignee,
		&issue.AssigneeID,
		&issue.Reporter,
		&issue.Creator,
		&labels,
		&issue.Environment,
		&issue.Created,
		&issue.Updated,
		&issue.DueDate,
		&issue.ResolutionDate,
		&issue.LastViewed,
		&issue.OriginalEstimate,
		&issue.RemainingEstimate,
		&issue.TimeSpent,
		&issue.Worklog,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue %s: %w", key, err)
	}

	if labels != "" {
		issue.Labels = strings.Split(labels, ", ")
	}

	return &issue, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.DB.Close()
}
