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
	"path/filepath"
	"testing"
	"time"

	"github.com/sirseerhq/jira-relay/internal/jira"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return s
}

func testIssue(key, summary string) *jira.Issue {
	return &jira.Issue{
		Key:       key,
		ID:        "1" + key,
		Project:   "BSUP",
		Summary:   summary,
		Status:    "Open",
		IssueType: "Task",
		Created:   "2024-01-02T10:00:00.000+0000",
		Updated:   "2024-01-05T12:00:00.000+0000",
	}
}

func TestInitializeIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.Initialize(); err != nil {
		t.Fatalf("second Initialize failed: %v", err)
	}
}

func TestUpsertIssueInsert(t *testing.T) {
	s := newTestStore(t)

	result, err := s.UpsertIssue(testIssue("BSUP-1", "First"))
	if err != nil {
		t.Fatalf("UpsertIssue failed: %v", err)
	}
	if result != Inserted {
		t.Errorf("result = %v, want Inserted", result)
	}

	count, err := s.CountIssues()
	if err != nil {
		t.Fatalf("CountIssues failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestUpsertIssueUnchanged(t *testing.T) {
	s := newTestStore(t)
	issue := testIssue("BSUP-1", "First")

	if _, err := s.UpsertIssue(issue); err != nil {
		t.Fatalf("UpsertIssue failed: %v", err)
	}

	result, err := s.UpsertIssue(issue)
	if err != nil {
		t.Fatalf("second UpsertIssue failed: %v", err)
	}
	if result != Unchanged {
		t.Errorf("result = %v, want Unchanged", result)
	}
}

func TestUpsertIssueUpdate(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.UpsertIssue(testIssue("BSUP-1", "First")); err != nil {
		t.Fatalf("UpsertIssue failed: %v", err)
	}

	changed := testIssue("BSUP-1", "First")
	changed.Status = "Done"
	changed.Resolution = "Fixed"
	changed.Updated = "2024-01-06T12:00:00.000+0000"

	result, err := s.UpsertIssue(changed)
	if err != nil {
		t.Fatalf("UpsertIssue failed: %v", err)
	}
	if result != Updated {
		t.Errorf("result = %v, want Updated", result)
	}

	count, err := s.CountIssues()
	if err != nil {
		t.Fatalf("CountIssues failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1 (update must not duplicate)", count)
	}

	got, err := s.GetIssue("BSUP-1")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got == nil {
		t.Fatal("GetIssue returned nil")
	}
	if got.Status != "Done" || got.Resolution != "Fixed" {
		t.Errorf("row not updated: status=%q resolution=%q", got.Status, got.Resolution)
	}
}

func TestOverlappingSyncsDoNotDuplicate(t *testing.T) {
	// A response containing {A, B} followed by a later response containing
	// {B, C} must leave exactly {A, B, C}, with B reflecting the latest
	// fetched state.
	s := newTestStore(t)

	a := testIssue("BSUP-1", "A")
	b := testIssue("BSUP-2", "B")
	for _, issue := range []*jira.Issue{a, b} {
		if _, err := s.UpsertIssue(issue); err != nil {
			t.Fatalf("UpsertIssue failed: %v", err)
		}
	}

	bNewer := testIssue("BSUP-2", "B")
	bNewer.Status = "Done"
	c := testIssue("BSUP-3", "C")
	for _, issue := range []*jira.Issue{bNewer, c} {
		if _, err := s.UpsertIssue(issue); err != nil {
			t.Fatalf("UpsertIssue failed: %v", err)
		}
	}

	count, err := s.CountIssues()
	if err != nil {
		t.Fatalf("CountIssues failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	got, err := s.GetIssue("BSUP-2")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got.Status != "Done" {
		t.Errorf("BSUP-2 status = %q, want latest fetched state Done", got.Status)
	}
}

func TestGetIssueRoundTrip(t *testing.T) {
	s := newTestStore(t)

	issue := testIssue("BSUP-7", "Round trip")
	issue.Labels = []string{"storage", "quota"}
	issue.Assignee = "Alice Example"
	issue.AssigneeID = "abc123"
	issue.OriginalEstimate = 7200
	issue.Worklog = "1h|started:(2024-01-04T10:00:00.000+0000)"

	if _, err := s.UpsertIssue(issue); err != nil {
		t.Fatalf("UpsertIssue failed: %v", err)
	}

	got, err := s.GetIssue("BSUP-7")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got.Assignee != issue.Assignee || got.AssigneeID != issue.AssigneeID {
		t.Errorf("assignee mismatch: got %q/%q", got.Assignee, got.AssigneeID)
	}
	if got.OriginalEstimate != 7200 {
		t.Errorf("OriginalEstimate = %d, want 7200", got.OriginalEstimate)
	}
	if len(got.Labels) != 2 || got.Labels[0] != "storage" || got.Labels[1] != "quota" {
		t.Errorf("Labels = %v, want [storage quota]", got.Labels)
	}
	if got.Worklog != issue.Worklog {
		t.Errorf("Worklog = %q, want %q", got.Worklog, issue.Worklog)
	}
}

func TestGetIssueMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetIssue("BSUP-999")
	if err != nil {
		t.Fatalf("GetIssue failed: %v", err)
	}
	if got != nil {
		t.Errorf("GetIssue = %+v, want nil for missing row", got)
	}
}

func TestSyncRunBookkeeping(t *testing.T) {
	s := newTestStore(t)

	// Never synced: zero time.
	last, err := s.GetLastSyncTime("BSUP")
	if err != nil {
		t.Fatalf("GetLastSyncTime failed: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("last sync = %v, want zero time", last)
	}

	first := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	if err := s.RecordSyncRun("BSUP", first, 12); err != nil {
		t.Fatalf("RecordSyncRun failed: %v", err)
	}

	last, err = s.GetLastSyncTime("BSUP")
	if err != nil {
		t.Fatalf("GetLastSyncTime failed: %v", err)
	}
	if !last.Equal(first) {
		t.Errorf("last sync = %v, want %v", last, first)
	}

	// A later run replaces the row rather than adding one.
	second := first.Add(time.Hour)
	if err := s.RecordSyncRun("BSUP", second, 3); err != nil {
		t.Fatalf("RecordSyncRun failed: %v", err)
	}
	last, err = s.GetLastSyncTime("BSUP")
	if err != nil {
		t.Fatalf("GetLastSyncTime failed: %v", err)
	}
	if !last.Equal(second) {
		t.Errorf("last sync = %v, want %v", last, second)
	}
}
