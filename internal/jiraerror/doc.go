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

// Package jiraerror classifies errors returned while talking to the Jira
// Cloud REST API. HTTP status codes are the primary signal, but transport
// failures surface as opaque error strings from net/http, so the inspector
// also performs string-based classification as a fallback.
//
// The classifications feed two consumers: the REST client, which maps
// failures onto the application's sentinel errors, and the retry layer,
// which only retries transient (network, rate limit) failures.
package jiraerror
