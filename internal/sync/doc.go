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

// Package sync implements the core sync engine that pulls issues from Jira
// and persists them to the local SQLite database. It drives the paginated
// search, upserts each issue by key, and reports per-run statistics.
//
// A run is a single complete pass over the configured project window. The
// engine processes one page at a time so memory usage stays flat regardless
// of how many issues the window contains.
package sync
