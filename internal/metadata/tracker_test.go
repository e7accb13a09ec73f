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

package metadata

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTrackerRecordIssue(t *testing.T) {
	tracker := New()

	early := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	late := time.Date(2024, 1, 9, 10, 0, 0, 0, time.UTC)

	tracker.RecordIssue(true, false, early)
	tracker.RecordIssue(false, true, late)
	tracker.RecordIssue(false, false, time.Time{})

	md := tracker.GenerateMetadata("1.0.0", SyncParams{Project: "BSUP"}, nil)

	if md.Results.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", md.Results.TotalIssues)
	}
	if md.Results.Inserted != 1 || md.Results.Updated != 1 || md.Results.Unchanged != 1 {
		t.Errorf("counts = %d/%d/%d, want 1/1/1",
			md.Results.Inserted, md.Results.Updated, md.Results.Unchanged)
	}
	if !md.Results.OldestIssue.Equal(early) {
		t.Errorf("OldestIssue = %v, want %v", md.Results.OldestIssue, early)
	}
	if !md.Results.NewestIssue.Equal(late) {
		t.Errorf("NewestIssue = %v, want %v", md.Results.NewestIssue, late)
	}
}

func TestTrackerAPICalls(t *testing.T) {
	tracker := New()
	for i := 0; i < 4; i++ {
		tracker.IncrementAPICall()
	}

	md := tracker.GenerateMetadata("1.0.0", SyncParams{Project: "BSUP"}, nil)
	if md.Results.APICallCount != 4 {
		t.Errorf("APICallCount = %d, want 4", md.Results.APICallCount)
	}
}

func TestGenerateMetadataSyncID(t *testing.T) {
	tracker := New()
	md := tracker.GenerateMetadata("1.0.0", SyncParams{Project: "BSUP"}, nil)

	if !strings.HasPrefix(md.SyncID, "BSUP-") {
		t.Errorf("SyncID = %q, want BSUP-<timestamp>", md.SyncID)
	}
	if md.RelayVersion != "1.0.0" {
		t.Errorf("RelayVersion = %q, want 1.0.0", md.RelayVersion)
	}
}

func TestGenerateMetadataPreviousSync(t *testing.T) {
	prev := &SyncRef{SyncID: "BSUP-100", CompletedAt: time.Now()}

	md := New().GenerateMetadata("1.0.0", SyncParams{Project: "BSUP"}, prev)
	if md.PreviousSync == nil || md.PreviousSync.SyncID != "BSUP-100" {
		t.Errorf("PreviousSync = %+v, want link to BSUP-100", md.PreviousSync)
	}
}

func TestSaveAndLoadMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qib-jira.db.metadata.json")

	tracker := New()
	tracker.IncrementAPICall()
	tracker.RecordIssue(true, false, time.Now())
	md := tracker.GenerateMetadata("1.0.0", SyncParams{
		BaseURL:  "https://quadram-institute.atlassian.net",
		Project:  "BSUP",
		Days:     30,
		Database: "qib-jira.db",
		PageSize: 100,
	}, nil)

	if err := SaveMetadata(md, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	loaded, err := LoadMetadata(path)
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadMetadata returned nil for existing file")
	}
	if loaded.SyncID != md.SyncID {
		t.Errorf("SyncID = %q, want %q", loaded.SyncID, md.SyncID)
	}
	if loaded.Parameters.Project != "BSUP" || loaded.Parameters.Days != 30 {
		t.Errorf("parameters not round-tripped: %+v", loaded.Parameters)
	}
	if loaded.Results.TotalIssues != 1 {
		t.Errorf("TotalIssues = %d, want 1", loaded.Results.TotalIssues)
	}
}

func TestLoadMetadataMissing(t *testing.T) {
	loaded, err := LoadMetadata(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadMetadata failed: %v", err)
	}
	if loaded != nil {
		t.Errorf("LoadMetadata = %+v, want nil for missing file", loaded)
	}
}

func TestSaveMetadataLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.json")

	md := New().GenerateMetadata("dev", SyncParams{Project: "BSUP"}, nil)
	if err := SaveMetadata(md, path); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestWriteMetadataToWriter(t *testing.T) {
	md := New().GenerateMetadata("dev", SyncParams{Project: "BSUP"}, nil)

	var buf bytes.Buffer
	if err := WriteMetadataToWriter(md, &buf); err != nil {
		t.Fatalf("WriteMetadataToWriter failed: %v", err)
	}

	var decoded SyncMetadata
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Parameters.Project != "BSUP" {
		t.Errorf("Project = %q, want BSUP", decoded.Parameters.Project)
	}
}
