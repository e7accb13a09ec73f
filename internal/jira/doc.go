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

// Package jira provides a client for the Jira Cloud REST API.
//
// The package exposes a small Client interface backed by a REST
// implementation that queries the /rest/api/2/search endpoint with a JQL
// filter built from a project key and a trailing look-back window. Results
// are decoded into a flat Issue record suitable for persistence.
//
// A RetryClient decorator wraps any Client with exponential backoff for
// transient failures (network errors and rate limits); authentication and
// not-found errors are never retried. All failures are mapped onto the
// sentinel errors in internal/errors so callers can branch with errors.Is.
package jira
