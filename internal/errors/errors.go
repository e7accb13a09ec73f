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

// Package errors defines sentinel errors for consistent error handling across the application.
// These errors map to specific exit codes in the CLI for proper scripting support.
package errors

import "errors"

// Sentinel errors for consistent error handling and exit code mapping
var (
	// ErrMissingCredentials indicates the Jira email or API token was not
	// supplied via flags, the environment, or the env file.
	// Maps to exit code 2.
	ErrMissingCredentials = errors.New("jira email and token are required")

	// ErrInvalidCredentials indicates Jira rejected the supplied email/token pair.
	// Maps to exit code 2.
	ErrInvalidCredentials = errors.New("invalid jira credentials")

	// ErrProjectNotFound indicates the specified project does not exist or is not accessible.
	// Maps to exit code 2.
	ErrProjectNotFound = errors.New("project not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates the Jira API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("jira rate limit exceeded")
)
