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

// Package store persists Jira issues in a local SQLite database file.
//
// The schema is a single issues table keyed by issue key plus a sync_runs
// bookkeeping table recording the last successful sync per project. Writes
// are idempotent upserts: re-running a sync with an overlapping record set
// never duplicates rows, and the latest fetched state of an issue wins.
// Each row carries a content fingerprint so unchanged issues are skipped
// instead of rewritten.
package store
