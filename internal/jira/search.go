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
	"fmt"
	"strings"
)

// searchFields is the explicit field list requested from the search
// endpoint. Requesting only what gets persisted keeps response payloads
// small on projects with large descriptions in unrelated fields.
var searchFields = []string{
	"summary",
	"description",
	"status",
	"issuetype",
	"priority",
	"resolution",
	"project",
	"assignee",
	"reporter",
	"creator",
	"labels",
	"environment",
	"created",
	"updated",
	"duedate",
	"resolutiondate",
	"lastViewed",
	"timeoriginalestimate",
	"aggregatetimeestimate",
	"timetracking",
	"worklog",
}

// BuildJQL constructs the JQL query for a project and trailing look-back
// window. The relative date form ("-30d") keeps the query a pure function of
// the configuration: the same project and day count always produce the same
// string. Results are ordered by update time ascending so pagination is
// stable across pages.
func BuildJQL(project string, days int) string {
	return fmt.Sprintf("project = %s AND updated >= -%dd ORDER BY updated ASC", project, days)
}

// searchResponse mirrors the wire format of /rest/api/2/search.
type searchResponse struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []wireIssue `json:"issues"`
}

type wireIssue struct {
	ID     string     `json:"id"`
	Key    string     `json:"key"`
	Fields wireFields `json:"fields"`
}

type wireFields struct {
	Summary               string        `json:"summary"`
	Description           string        `json:"description"`
	Environment           string        `json:"environment"`
	Created               string        `json:"created"`
	Updated               string        `json:"updated"`
	DueDate               string        `json:"duedate"`
	ResolutionDate        string        `json:"resolutiondate"`
	LastViewed            string        `json:"lastViewed"`
	Labels                []string      `json:"labels"`
	Status                *wireNamed    `json:"status"`
	IssueType             *wireNamed    `json:"issuetype"`
	Priority              *wireNamed    `json:"priority"`
	Resolution            *wireNamed    `json:"resolution"`
	Project               *wireProject  `json:"project"`
	Assignee              *wireUser     `json:"assignee"`
	Reporter              *wireUser     `json:"reporter"`
	Creator               *wireUser     `json:"creator"`
	TimeOriginalEstimate  int64         `json:"timeoriginalestimate"`
	AggregateTimeEstimate int64         `json:"aggregatetimeestimate"`
	TimeTracking          *wireTracking `json:"timetracking"`
	Worklog               *wireWorklog  `json:"worklog"`
}

type wireNamed struct {
	Name string `json:"name"`
}

type wireProject struct {
	Key string `json:"key"`
}

type wireUser struct {
	DisplayName string `json:"displayName"`
	AccountID   string `json:"accountId"`
}

type wireTracking struct {
	TimeSpent string `json:"timeSpent"`
}

type wireWorklog struct {
	Worklogs []wireWorklogEntry `json:"worklogs"`
}

type wireWorklogEntry struct {
	TimeSpent string `json:"timeSpent"`
	Started   string `json:"started"`
}

// convertIssue flattens a wire issue into the domain model.
func convertIssue(w *wireIssue) Issue {
	f := w.Fields

	issue := Issue{
		Key:               w.Key,
		ID:                w.ID,
		Summary:           f.Summary,
		Description:       f.Description,
		Environment:       f.Environment,
		Labels:            f.Labels,
		Created:           f.Created,
		Updated:           f.Updated,
		DueDate:           f.DueDate,
		ResolutionDate:    f.ResolutionDate,
		LastViewed:        f.LastViewed,
		OriginalEstimate:  f.TimeOriginalEstimate,
		RemainingEstimate: f.AggregateTimeEstimate,
	}

	if f.Status != nil {
		issue.Status = f.Status.Name
	}
	if f.IssueType != nil {
		issue.IssueType = f.IssueType.Name
	}
	if f.Priority != nil {
		issue.Priority = f.Priority.Name
	}
	if f.Resolution != nil {
		issue.Resolution = f.Resolution.Name
	}
	if f.Project != nil {
		issue.Project = f.Project.Key
	}
	if f.Assignee != nil {
		issue.Assignee = f.Assignee.DisplayName
		issue.AssigneeID = f.Assignee.AccountID
	}
	if f.Reporter != nil {
		issue.Reporter = f.Reporter.DisplayName
	}
	if f.Creator != nil {
		issue.Creator = f.Creator.DisplayName
	}
	if f.TimeTracking != nil {
		issue.TimeSpent = f.TimeTracking.TimeSpent
	}
	if f.Worklog != nil && len(f.Worklog.Worklogs) > 0 {
		entries := make([]string, 0, len(f.Worklog.Worklogs))
		for _, wl := range f.Worklog.Worklogs {
			entries = append(entries, fmt.Sprintf("%s|started:(%s)", wl.TimeSpent, wl.Started))
		}
		issue.Worklog = strings.Join(entries, ", ")
	}

	return issue
}
