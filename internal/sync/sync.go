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

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/sirseerhq/jira-relay/internal/jira"
	"github.com/sirseerhq/jira-relay/internal/metadata"
	"github.com/sirseerhq/jira-relay/internal/output"
	"github.com/sirseerhq/jira-relay/internal/store"
)

// jiraTimeFormat is the timestamp layout Jira Cloud returns in issue fields.
const jiraTimeFormat = "2006-01-02T15:04:05.000-0700"

// Stats summarizes the outcome of a single sync run.
type Stats struct {
	Fetched   int
	Inserted  int
	Updated   int
	Unchanged int
	Pages     int
}

// Syncer pulls issues from a Jira project and persists them to the store.
// It fetches pages sequentially and upserts issues as they arrive, so a
// run holds at most one page of issues in memory.
type Syncer struct {
	client  jira.Client
	store   *store.Store
	tracker *metadata.Tracker

	// Writer, when set, receives every fetched issue as an NDJSON record
	// in addition to the database upsert.
	Writer output.RecordWriter
}

// New creates a Syncer that fetches with client and persists to st.
func New(client jira.Client, st *store.Store) *Syncer {
	return &Syncer{
		client: client,
		store:  st,
	}
}

// Tracker returns the metadata tracker for the most recent run, or nil if
// Run has not been called.
func (s *Syncer) Tracker() *metadata.Tracker {
	return s.tracker
}

// Run performs one complete sync of the given project window: it pages
// through the Jira search results, upserts each issue by key, and records
// the run in the sync bookkeeping table. The returned stats reflect only
// this run.
//
// If any page fails, Run returns the error immediately; issues persisted
// from earlier pages remain in the database, and the run is not recorded
// as completed.
func (s *Syncer) Run(ctx context.Context, project string, days, pageSize int) (*Stats, error) {
	stats := &Stats{}
	s.tracker = metadata.New()

	opts := jira.FetchOptions{
		Project:  project,
		Days:     days,
		PageSize: pageSize,
	}

	for {
		page, err := s.client.SearchIssues(ctx, opts)
		if err != nil {
			return stats, fmt.Errorf("fetching page at offset %d: %w", opts.StartAt, err)
		}
		stats.Pages++
		s.tracker.IncrementAPICall()

		for i := range page.Issues {
			issue := &page.Issues[i]
			if err := s.processIssue(issue, stats); err != nil {
				return stats, err
			}
		}

		// An empty page ends the run even if the reported total suggests
		// more: Jira's total can overstate the retrievable set (permission
		// filtering), and advancing by zero would spin at the same offset.
		if !page.HasMore || len(page.Issues) == 0 {
			break
		}
		opts.StartAt = page.StartAt + len(page.Issues)
	}

	if err := s.store.RecordSyncRun(project, time.Now().UTC(), stats.Fetched); err != nil {
		return stats, fmt.Errorf("recording sync run: %w", err)
	}

	return stats, nil
}

func (s *Syncer) processIssue(issue *jira.Issue, stats *Stats) error {
	result, err := s.store.UpsertIssue(issue)
	if err != nil {
		return fmt.Errorf("persisting %s: %w", issue.Key, err)
	}

	stats.Fetched++
	switch result {
	case store.Inserted:
		stats.Inserted++
	case store.Updated:
		stats.Updated++
	case store.Unchanged:
		stats.Unchanged++
	}

	// Unparseable dates leave the tracker's range untouched.
	updatedAt, _ := time.Parse(jiraTimeFormat, issue.Updated)
	s.tracker.RecordIssue(result == store.Inserted, result == store.Updated, updatedAt)

	if s.Writer != nil {
		if err := s.Writer.Write(issue); err != nil {
			return fmt.Errorf("writing %s to output: %w", issue.Key, err)
		}
	}

	return nil
}
