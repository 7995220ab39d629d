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

// Package metadata types define the run summary record.
package metadata

import (
	"time"
)

// RunMetadata represents the summary of a single changelog run.
type RunMetadata struct {
	ToolVersion   string     `json:"tool_version"`
	MethodVersion string     `json:"method_version"`
	RunID         string     `json:"run_id"`
	Parameters    RunParams  `json:"parameters"`
	Results       RunResults `json:"results"`
}

// RunParams captures the inputs of a run.
type RunParams struct {
	Organization  string `json:"organization"`
	Repository    string `json:"repository"`
	API           string `json:"api"`
	Pages         int    `json:"pages"`
	Target        string `json:"target"`
	Authenticated bool   `json:"authenticated"`
	DryRun        bool   `json:"dry_run"`
}

// RunResults contains the statistics of a completed run.
type RunResults struct {
	TotalPRs       int        `json:"total_prs"`
	MergedPRs      int        `json:"merged_prs"`
	FirstPR        int        `json:"first_pr_number"`
	LastPR         int        `json:"last_pr_number"`
	OldestMerge    *time.Time `json:"oldest_merge,omitempty"`
	NewestMerge    *time.Time `json:"newest_merge,omitempty"`
	Entries        int        `json:"entries"`
	Inserted       int        `json:"entries_written"`
	Hidden         int        `json:"entries_hidden"`
	MarkersRemoved int        `json:"lines_replaced"`
	Changed        bool       `json:"target_changed"`
	Duration       string     `json:"run_duration"`
	APICallCount   int        `json:"api_calls_made"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    time.Time  `json:"completed_at"`
}
