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

// Package main implements the jira-relay command-line interface.
// This tool fetches issue data from a Jira Cloud project and persists
// it to a local SQLite database for offline reporting and archival.
//
// The CLI supports:
//   - One-shot synchronization of a project's recent issues (default)
//   - Long-running scheduled syncs with the --schedule flag
//   - Health-check pings to an external monitor after successful runs
//   - Optional NDJSON dumps of every fetched issue
//   - Credentials via flags, environment variables, or a dotenv file
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	jira-relay sync [flags]
//
// Example:
//
//	export JIRA_EMAIL=ops@example.org
//	export JIRA_TOKEN=your_api_token
//	jira-relay sync --project BSUP --days 30 --database qib-jira.db
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Credential/configuration error
//   - 3: Network error
package main
