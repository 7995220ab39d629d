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

package github

import (
	"time"
)

// MergedAtLayout is the layout GitHub uses for timestamps. Formatting a UTC
// time with it yields strings whose lexicographic order is chronological.
const MergedAtLayout = "2006-01-02T15:04:05Z"

// PullRequest represents a closed GitHub pull request with the fields the
// changelog needs. MergedAt is nil for pull requests closed without merging.
type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	State    string     `json:"state"`
	MergedAt *time.Time `json:"merged_at,omitempty"`
	Author   Author     `json:"author"`
}

// IsMerged reports whether the pull request carries a merge timestamp.
func (pr PullRequest) IsMerged() bool {
	return pr.MergedAt != nil
}

// MergedAtString returns the merge timestamp in GitHub's wire format, or an
// empty string when the pull request was not merged.
func (pr PullRequest) MergedAtString() string {
	if pr.MergedAt == nil {
		return ""
	}
	return pr.MergedAt.UTC().Format(MergedAtLayout)
}

// Author represents the author of a pull request.
type Author struct {
	Login string `json:"login"`
}

// PullRequestPage represents one page of closed pull requests. HasNextPage
// and EndCursor are only meaningful for the GraphQL backend; the REST backend
// addresses pages by number.
type PullRequestPage struct {
	PullRequests []PullRequest
	HasNextPage  bool
	EndCursor    string
}

// FetchOptions selects the page to fetch.
type FetchOptions struct {
	// Page is the 1-based page number used by the REST backend.
	Page int

	// PerPage controls how many pull requests each page holds.
	// Defaults to 100, the maximum GitHub allows.
	PerPage int

	// After is the GraphQL cursor returned as EndCursor by the previous page.
	// Empty string fetches from the beginning.
	After string
}

// Credentials authenticate requests. A username with a token selects HTTP
// Basic auth; a token alone selects a bearer token; neither means anonymous.
type Credentials struct {
	Username string
	Token    string
}

// IsZero reports whether no credentials were supplied.
func (c Credentials) IsZero() bool {
	return c.Username == "" && c.Token == ""
}

// Default values for fetch operations
const (
	defaultPerPage = 100
	ghostLogin     = "ghost"
)
