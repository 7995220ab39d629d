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
	"context"
	"fmt"
	"strconv"
	"time"

	syncerrors "github.com/sirseerhq/changelog-sync/internal/errors"
)

// MockClient is a mock implementation of the GitHub Client interface for testing.
// Pages are addressed by page number; for cursor-style callers the cursor is
// the decimal number of the next page.
type MockClient struct {
	// Pages to return, keyed by 1-based page number. Missing pages are empty.
	Pages map[int][]PullRequest

	// Error to return
	Error error

	// FailOnPage makes the given page number fail with Error.
	FailOnPage int

	// Cursors makes the mock report itself as cursor paginated.
	Cursors bool

	// Behavior flags
	ShouldFailAuth      bool
	ShouldFailNetwork   bool
	ShouldFailRateLimit bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
	Requested []FetchOptions
}

// NewMockClient creates a new mock client with default test data on page 1.
func NewMockClient() *MockClient {
	return &MockClient{
		Pages: map[int][]PullRequest{1: generateTestPRs()},
	}
}

// FetchClosedPullRequests implements the Client interface
func (m *MockClient) FetchClosedPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.Requested = append(m.Requested, opts)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", syncerrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", syncerrors.ErrNetworkFailure)
	}
	if m.ShouldFailRateLimit {
		return nil, fmt.Errorf("API rate limit exceeded: %w", syncerrors.ErrRateLimit)
	}

	pageNum := opts.Page
	if opts.After != "" {
		n, err := strconv.Atoi(opts.After)
		if err != nil {
			return nil, fmt.Errorf("mock: bad cursor %q", opts.After)
		}
		pageNum = n
	}
	if pageNum <= 0 {
		pageNum = 1
	}

	if m.Error != nil && (m.FailOnPage == 0 || m.FailOnPage == pageNum) {
		return nil, m.Error
	}

	last := 0
	for n := range m.Pages {
		if n > last {
			last = n
		}
	}

	page := &PullRequestPage{
		PullRequests: m.Pages[pageNum],
		HasNextPage:  pageNum < last,
	}
	if page.HasNextPage {
		page.EndCursor = strconv.Itoa(pageNum + 1)
	}
	return page, nil
}

// CursorPaginated implements CursorPaginator.
func (m *MockClient) CursorPaginated() bool {
	return m.Cursors
}

// generateTestPRs creates sample closed pull requests, two of them merged.
func generateTestPRs() []PullRequest {
	older := time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)
	newer := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

	return []PullRequest{
		{
			Number:   12,
			Title:    "Fix biter spawn rate",
			State:    "closed",
			MergedAt: &older,
			Author:   Author{Login: "amannm"},
		},
		{
			Number: 13,
			Title:  "Abandoned experiment",
			State:  "closed",
			Author: Author{Login: "octocat"},
		},
		{
			Number:   14,
			Title:    "Add team chat",
			State:    "closed",
			MergedAt: &newer,
			Author:   Author{Login: "octocat"},
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPage sets the pull requests returned for one page number.
func WithPage(number int, prs []PullRequest) MockClientOption {
	return func(m *MockClient) {
		m.Pages[number] = prs
	}
}

// WithPullRequests replaces all pages with a single first page.
func WithPullRequests(prs []PullRequest) MockClientOption {
	return func(m *MockClient) {
		m.Pages = map[int][]PullRequest{1: prs}
	}
}

// WithError makes the client return a specific error, optionally only for one page.
func WithError(err error, onPage int) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
		m.FailOnPage = onPage
	}
}

// WithCursors makes the mock behave like the GraphQL backend.
func WithCursors() MockClientOption {
	return func(m *MockClient) {
		m.Cursors = true
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// WithRateLimit makes the client simulate an exhausted rate limit
func WithRateLimit() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailRateLimit = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
