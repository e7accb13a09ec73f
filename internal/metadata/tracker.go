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

// Package metadata provides functionality for tracking and persisting
// metadata about sync operations. It records statistics about each run
// including the number of issues processed, API calls made, the range of
// update dates covered, and a link to the previous run of the same project.
//
// The metadata system serves several purposes:
//   - Provides an audit trail for scheduled deployments
//   - Enables troubleshooting by recording sync parameters
//   - Records performance metrics for optimization
//
// Metadata is saved as a JSON file alongside the SQLite database, allowing
// external tools to inspect the outcome of the most recent run.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Tracker collects statistics during a sync operation and generates
// metadata. Create a new tracker at the start of each run and call its
// methods to record activity as pages and issues are processed.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	issueStats   IssueStats
}

// IssueStats holds statistical information about issues processed during
// a sync operation, including per-outcome counts and the temporal range
// (oldest/newest update dates) of the fetched data.
type IssueStats struct {
	TotalIssues int       // Total number of issues processed
	Inserted    int       // Issues new to the database
	Updated     int       // Issues whose stored row changed
	Unchanged   int       // Issues identical to the stored row
	OldestIssue time.Time // Earliest issue update date seen
	NewestIssue time.Time // Latest issue update date seen
}

// New creates a new metadata tracker and initializes it with the current
// time. Call this at the beginning of a sync operation to start tracking.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made. Call this after each
// successful Jira search request to maintain accurate API usage statistics.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// RecordIssue updates the running statistics with the outcome of persisting
// a single issue. The updatedAt time adjusts the oldest/newest range; a
// zero time is ignored so issues with unparseable dates do not skew it.
func (t *Tracker) RecordIssue(inserted, updated bool, updatedAt time.Time) {
	t.issueStats.TotalIssues++

	switch {
	case inserted:
		t.issueStats.Inserted++
	case updated:
		t.issueStats.Updated++
	default:
		t.issueStats.Unchanged++
	}

	if updatedAt.IsZero() {
		return
	}
	if t.issueStats.OldestIssue.IsZero() || updatedAt.Before(t.issueStats.OldestIssue) {
		t.issueStats.OldestIssue = updatedAt
	}
	if updatedAt.After(t.issueStats.NewestIssue) {
		t.issueStats.NewestIssue = updatedAt
	}
}

// GenerateMetadata creates a SyncMetadata instance capturing the complete
// sync operation statistics. Call this at the end of a successful run.
//
// Parameters:
//   - relayVersion: The version of jira-relay (from version.Version)
//   - params: The sync parameters used for this operation
//   - previousSync: Reference to the previous run, if one exists
//
// Returns a complete metadata record ready for persistence.
func (t *Tracker) GenerateMetadata(relayVersion string, params SyncParams, previousSync *SyncRef) *SyncMetadata {
	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	syncID := fmt.Sprintf("%s-%d", params.Project, t.startTime.Unix())

	return &SyncMetadata{
		RelayVersion: relayVersion,
		SyncID:       syncID,
		Parameters:   params,
		Results: SyncResults{
			TotalIssues:  t.issueStats.TotalIssues,
			Inserted:     t.issueStats.Inserted,
			Updated:      t.issueStats.Updated,
			Unchanged:    t.issueStats.Unchanged,
			OldestIssue:  t.issueStats.OldestIssue,
			NewestIssue:  t.issueStats.NewestIssue,
			Duration:     duration.String(),
			APICallCount: t.apiCallCount,
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
		PreviousSync: previousSync,
	}
}

// SaveMetadata persists a SyncMetadata record to the given path. The file
// is written atomically using a temporary file and rename to prevent
// corruption if the process dies mid-write. Each run overwrites the
// previous record; the PreviousSync link preserves the chain.
func SaveMetadata(metadata *SyncMetadata, path string) error {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(metadata); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadMetadata reads a previously saved SyncMetadata record from the given
// path. Returns nil if no metadata file exists, or an error if the file
// cannot be parsed.
func LoadMetadata(path string) (*SyncMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var metadata SyncMetadata
	if err := json.NewDecoder(file).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}

	return &metadata, nil
}

// WriteMetadataToWriter serializes metadata to JSON and writes it to the
// provided io.Writer. The output is formatted with indentation for
// readability, useful for printing a run summary to stdout.
func WriteMetadataToWriter(metadata *SyncMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}
