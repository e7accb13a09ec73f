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

package jira

import "context"

// Client defines the interface for interacting with Jira's search API.
// This interface allows for easy mocking in tests.
type Client interface {
	// SearchIssues retrieves a page of issues matching the project and
	// look-back window in opts. It supports offset-based pagination through
	// the opts.StartAt parameter to fetch subsequent pages. The page size
	// can be configured via opts.PageSize.
	SearchIssues(ctx context.Context, opts FetchOptions) (*SearchPage, error)
}
