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

// Package metadata tracks what a changelog run did: API calls made, pull
// requests seen and merged, entries written and whether the target file
// changed. The resulting record is printed as JSON with --summary.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

const (
	// MethodVersion identifies the fetch-and-rewrite procedure the record
	// describes.
	MethodVersion = "closed-pulls-pages-v1"
)

// Tracker collects statistics during a run and generates metadata.
// Create a new tracker at the start of each run.
type Tracker struct {
	startTime    time.Time
	apiCallCount int
	prStats      PRStats
	rewrite      RewriteStats
}

// PRStats holds statistical information about the pull requests seen
// during a run.
type PRStats struct {
	TotalPRs    int        // Closed pull requests returned by the API
	MergedPRs   int        // Of those, the merged ones
	FirstPR     int        // Lowest PR number seen
	LastPR      int        // Highest PR number seen
	OldestMerge *time.Time // Earliest merge time
	NewestMerge *time.Time // Latest merge time
}

// RewriteStats holds the outcome of rewriting the target file.
type RewriteStats struct {
	Entries        int
	Inserted       int
	Hidden         int
	MarkersRemoved int
	Changed        bool
	DryRun         bool
}

// New creates a new metadata tracker and initializes it with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// IncrementAPICall records that an API call was made.
func (t *Tracker) IncrementAPICall() {
	t.apiCallCount++
}

// UpdatePRStats updates the running statistics with one pull request.
// mergedAt is nil for pull requests closed without merging.
func (t *Tracker) UpdatePRStats(prNumber int, mergedAt *time.Time) {
	t.prStats.TotalPRs++

	if prNumber > 0 {
		if t.prStats.FirstPR == 0 || prNumber < t.prStats.FirstPR {
			t.prStats.FirstPR = prNumber
		}
		if prNumber > t.prStats.LastPR {
			t.prStats.LastPR = prNumber
		}
	}

	if mergedAt == nil {
		return
	}
	t.prStats.MergedPRs++
	at := mergedAt.UTC()
	if t.prStats.OldestMerge == nil || at.Before(*t.prStats.OldestMerge) {
		t.prStats.OldestMerge = &at
	}
	if t.prStats.NewestMerge == nil || at.After(*t.prStats.NewestMerge) {
		t.prStats.NewestMerge = &at
	}
}

// RecordRewrite stores the outcome of the target file rewrite.
func (t *Tracker) RecordRewrite(stats RewriteStats) {
	t.rewrite = stats
}

// GenerateMetadata creates a RunMetadata record capturing the complete run.
// Call this once the run has finished.
func (t *Tracker) GenerateMetadata(toolVersion string, params RunParams) *RunMetadata {
	completedAt := time.Now()
	duration := completedAt.Sub(t.startTime)

	return &RunMetadata{
		ToolVersion:   toolVersion,
		MethodVersion: MethodVersion,
		RunID:         fmt.Sprintf("%s-%d", getRunType(t.rewrite.DryRun), t.startTime.Unix()),
		Parameters:    params,
		Results: RunResults{
			TotalPRs:       t.prStats.TotalPRs,
			MergedPRs:      t.prStats.MergedPRs,
			FirstPR:        t.prStats.FirstPR,
			LastPR:         t.prStats.LastPR,
			OldestMerge:    t.prStats.OldestMerge,
			NewestMerge:    t.prStats.NewestMerge,
			Entries:        t.rewrite.Entries,
			Inserted:       t.rewrite.Inserted,
			Hidden:         t.rewrite.Hidden,
			MarkersRemoved: t.rewrite.MarkersRemoved,
			Changed:        t.rewrite.Changed,
			Duration:       duration.String(),
			APICallCount:   t.apiCallCount,
			StartedAt:      t.startTime,
			CompletedAt:    completedAt,
		},
	}
}

// WriteMetadataToWriter serializes metadata to indented JSON and writes it
// to w.
func WriteMetadataToWriter(metadata *RunMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(metadata)
}

func getRunType(dryRun bool) string {
	if dryRun {
		return "dry-run"
	}
	return "sync"
}
