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
	"net/http"
	"time"

	"github.com/shurcooL/graphql"

	"github.com/sirseerhq/changelog-sync/internal/giterror"
)

// DefaultGraphQLEndpoint is the public GitHub GraphQL endpoint.
const DefaultGraphQLEndpoint = "https://api.github.com/graphql"

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
// It walks closed and merged pull requests newest first, the same order the
// REST listing uses, with cursor-based pagination.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a new GitHub GraphQL client for endpoint using an
// already authenticated HTTP client (see NewHTTPClient).
func NewGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultGraphQLEndpoint
	}

	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// CursorPaginated implements CursorPaginator.
func (c *GraphQLClient) CursorPaginated() bool {
	return true
}

// closedPullRequestsQuery mirrors the REST state=closed listing: CLOSED and
// MERGED states, newest first.
type closedPullRequestsQuery struct {
	Repository struct {
		PullRequests struct {
			PageInfo struct {
				HasNextPage graphql.Boolean
				EndCursor   graphql.String
			}
			Nodes []struct {
				Number   graphql.Int
				Title    graphql.String
				State    graphql.String
				MergedAt *time.Time
				Author   *struct {
					Login graphql.String
				}
			}
		} `graphql:"pullRequests(first: $first, after: $after, states: [CLOSED, MERGED], orderBy: {field: CREATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// FetchClosedPullRequests fetches the page following opts.After. opts.Page is
// ignored; GraphQL has no random access to pages.
func (c *GraphQLClient) FetchClosedPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error) {
	perPage := opts.PerPage
	if perPage <= 0 || perPage > defaultPerPage {
		perPage = defaultPerPage
	}

	var query closedPullRequestsQuery
	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
		"first": graphql.Int(int32(perPage)), // #nosec G115 - perPage is capped at 100
		"after": (*graphql.String)(nil),
	}
	if opts.After != "" {
		variables["after"] = graphql.NewString(graphql.String(opts.After))
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, mapError(c.inspector, err, owner, repo)
	}

	conn := query.Repository.PullRequests
	page := &PullRequestPage{
		HasNextPage:  bool(conn.PageInfo.HasNextPage),
		EndCursor:    string(conn.PageInfo.EndCursor),
		PullRequests: make([]PullRequest, 0, len(conn.Nodes)),
	}

	for _, node := range conn.Nodes {
		pr := PullRequest{
			Number: int(node.Number),
			Title:  string(node.Title),
			State:  string(node.State),
			Author: Author{Login: ghostLogin},
		}
		// Deleted accounts come back as a null author; REST reports them as "ghost".
		if node.Author != nil && node.Author.Login != "" {
			pr.Author.Login = string(node.Author.Login)
		}
		if node.MergedAt != nil {
			mergedAt := node.MergedAt.UTC()
			pr.MergedAt = &mergedAt
		}
		page.PullRequests = append(page.PullRequests, pr)
	}

	return page, nil
}
