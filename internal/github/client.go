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

	syncerrors "github.com/sirseerhq/changelog-sync/internal/errors"
	"github.com/sirseerhq/changelog-sync/internal/giterror"
)

// Client defines the interface for listing closed pull requests.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchClosedPullRequests retrieves one page of closed pull requests,
	// merged or not, from the specified repository.
	FetchClosedPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error)
}

// CursorPaginator is implemented by clients that can only walk pages in
// order, following PullRequestPage.EndCursor. Such clients cannot request a
// page past the last one, so callers stop when HasNextPage is false.
type CursorPaginator interface {
	CursorPaginated() bool
}

// IsCursorPaginated reports whether client walks pages through cursors.
func IsCursorPaginated(client Client) bool {
	cp, ok := client.(CursorPaginator)
	return ok && cp.CursorPaginated()
}

// API backends selectable from the command line and configuration.
const (
	BackendREST    = "rest"
	BackendGraphQL = "graphql"
)

// NewClient builds the client for the named backend.
func NewClient(ctx context.Context, backend, endpoint string, creds Credentials) (Client, error) {
	switch backend {
	case "", BackendREST:
		client, err := NewRESTClient(endpoint, NewHTTPClient(ctx, creds))
		if err != nil {
			return nil, err
		}
		return client, nil
	case BackendGraphQL:
		if creds.IsZero() {
			return nil, fmt.Errorf("the GraphQL API does not accept anonymous requests: %w", syncerrors.ErrMissingCredentials)
		}
		return NewGraphQLClient(endpoint, NewHTTPClient(ctx, creds)), nil
	default:
		return nil, fmt.Errorf("unknown API backend %q (expected %q or %q)", backend, BackendREST, BackendGraphQL)
	}
}

// mapError maps REST and GraphQL errors to our domain errors with actionable messages
func mapError(inspector giterror.Inspector, err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and rate limit
	if inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded (%v). Pass a username and token to raise the limit: %w", err, syncerrors.ErrRateLimit)
	}

	if inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed (%v). Check the username and token arguments: %w", err, syncerrors.ErrInvalidToken)
	}

	if inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, syncerrors.ErrRepoNotFound)
	}

	if inspector.IsMalformedError(err) {
		return fmt.Errorf("unexpected response from GitHub for %s/%s (%v): %w", owner, repo, err, syncerrors.ErrMalformedResponse)
	}

	if inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API (%v). Please check your internet connection and try again: %w", err, syncerrors.ErrNetworkFailure)
	}

	// Generic error
	return fmt.Errorf("failed to fetch pull requests: %w", err)
}
