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

// Package output provides utilities for writing issue data in NDJSON
// (Newline Delimited JSON) format. NDJSON is a convenient format for
// streaming large datasets where each line contains a valid JSON object,
// which makes the output easy to pipe into jq, load into analytics tools,
// or archive alongside the SQLite database.
//
// The primary type is Writer, which provides thread-safe writing of JSON
// records to an io.Writer or file. Records are encoded and flushed one at
// a time so large syncs never accumulate issues in memory.
//
// Example usage:
//
//	w, err := output.NewFileWriter("issues.ndjson")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	for _, issue := range issues {
//	    if err := w.Write(issue); err != nil {
//	        log.Printf("Failed to write issue: %v", err)
//	    }
//	}
package output
