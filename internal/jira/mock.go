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

import (
	"context"
	"fmt"

	relayerrors "github.com/sirseerhq/jira-relay/internal/errors"
)

// MockClient is a mock implementation of the Client interface for testing.
// It serves its configured issues in pages, honoring StartAt and PageSize,
// so pagination behavior can be exercised without a live server.
type MockClient struct {
	// Issues to serve, in order
	Issues []Issue

	// Error to return
	Error error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// FailuresBeforeSuccess makes the first N calls fail with a network
	// error before serving pages normally. Used for retry tests.
	FailuresBeforeSuccess int

	// Track calls for verification
	CallCount int
	LastOpts  FetchOptions
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Issues: generateTestIssues(),
	}
}

// SearchIssues implements the Client interface
func (m *MockClient) SearchIssues(ctx context.Context, opts FetchOptions) (*SearchPage, error) {
	m.CallCount++
	m.LastOpts = opts

	// Check for context cancellation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.FailuresBeforeSuccess > 0 {
		m.FailuresBeforeSuccess--
		return nil, fmt.Errorf("network timeout: %w", relayerrors.ErrNetworkFailure)
	}

	// Simulate various error conditions
	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relayerrors.ErrInvalidCredentials)
	}

	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relayerrors.ErrNetworkFailure)
	}

	if m.ShouldFailNotFound || opts.Project == "NOPE" {
		return nil, fmt.Errorf("project not found: %w", relayerrors.ErrProjectNotFound)
	}

	if m.Error != nil {
		return nil, m.Error
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	start := opts.StartAt
	if start > len(m.Issues) {
		start = len(m.Issues)
	}
	end := start + pageSize
	if end > len(m.Issues) {
		end = len(m.Issues)
	}

	return &SearchPage{
		Issues:  m.Issues[start:end],
		StartAt: start,
		Total:   len(m.Issues),
		HasMore: end < len(m.Issues),
	}, nil
}

// generateTestIssues creates sample issue data for testing
func generateTestIssues() []Issue {
	return []Issue{
		{
			Key:       "BSUP-101",
			ID:        "10101",
			Project:   "BSUP",
			Summary:   "Sequencer output missing from shared drive",
			Status:    "Open",
			IssueType: "Support Request",
			Priority:  "High",
			Assignee:  "Alice Example",
			Reporter:  "Bob Example",
			Created:   "2024-01-08T09:00:00.000+0000",
			Updated:   "2024-01-15T10:30:00.000+0000",
		},
		{
			Key:        "BSUP-102",
			ID:         "10102",
			Project:    "BSUP",
			Summary:    "Cluster job stuck in queue",
			Status:     "Done",
			IssueType:  "Support Request",
			Priority:   "Medium",
			Resolution: "Fixed",
			Assignee:   "Alice Example",
			Reporter:   "Carol Example",
			Created:    "2024-01-09T11:00:00.000+0000",
			Updated:    "2024-01-14T16:45:00.000+0000",
		},
		{
			Key:       "BSUP-103",
			ID:        "10103",
			Project:   "BSUP",
			Summary:   "Request for additional storage quota",
			Status:    "In Progress",
			IssueType: "Task",
			Priority:  "Low",
			Reporter:  "Dave Example",
			Labels:    []string{"storage", "quota"},
			Created:   "2024-01-10T08:15:00.000+0000",
			Updated:   "2024-01-13T09:20:00.000+0000",
		},
	}
}
