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
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v75/github"

	syncerrors "github.com/sirseerhq/changelog-sync/internal/errors"
	"github.com/sirseerhq/changelog-sync/internal/giterror"
	"github.com/sirseerhq/changelog-sync/pkg/version"
)

// DefaultAPIEndpoint is the public GitHub REST API root.
const DefaultAPIEndpoint = "https://api.github.com/"

// RESTClient implements the Client interface on top of the REST endpoint
// GET /repos/{owner}/{repo}/pulls?state=closed&per_page=N&page=M.
type RESTClient struct {
	client    *github.Client
	inspector giterror.Inspector
}

// NewRESTClient creates a REST client rooted at endpoint. An empty endpoint
// selects api.github.com; any other value is treated as a GitHub Enterprise
// style API root (e.g. https://ghe.example.com/api/v3/).
func NewRESTClient(endpoint string, httpClient *http.Client) (*RESTClient, error) {
	client := github.NewClient(httpClient)
	client.UserAgent = version.UserAgent()

	if endpoint != "" {
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		base, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API endpoint %q: %w", endpoint, err)
		}
		client.BaseURL = base
	}

	return &RESTClient{
		client:    client,
		inspector: giterror.NewInspector(),
	}, nil
}

// FetchClosedPullRequests fetches one numbered page of closed pull requests.
// A merged pull request without a title or author is reported as a malformed
// response rather than skipped.
func (c *RESTClient) FetchClosedPullRequests(ctx context.Context, owner, repo string, opts FetchOptions) (*PullRequestPage, error) {
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}

	prs, _, err := c.client.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State: "closed",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	})
	if err != nil {
		return nil, mapError(c.inspector, err, owner, repo)
	}

	result := &PullRequestPage{
		PullRequests: make([]PullRequest, 0, len(prs)),
	}
	for i, pr := range prs {
		converted, err := convertRESTPR(pr)
		if err != nil {
			return nil, fmt.Errorf("page %d, record %d of %s/%s: %w", page, i+1, owner, repo, err)
		}
		result.PullRequests = append(result.PullRequests, converted)
	}

	return result, nil
}

// convertRESTPR converts a go-github pull request to our domain model
func convertRESTPR(pr *github.PullRequest) (PullRequest, error) {
	if pr == nil {
		return PullRequest{}, fmt.Errorf("null pull request record: %w", syncerrors.ErrMalformedResponse)
	}

	converted := PullRequest{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		State:  pr.GetState(),
		Author: Author{Login: pr.GetUser().GetLogin()},
	}

	if pr.MergedAt == nil {
		return converted, nil
	}

	if pr.Title == nil {
		return PullRequest{}, fmt.Errorf("merged pull request #%d has no title: %w", pr.GetNumber(), syncerrors.ErrMalformedResponse)
	}
	if pr.User == nil || pr.User.Login == nil {
		return PullRequest{}, fmt.Errorf("merged pull request #%d has no author: %w", pr.GetNumber(), syncerrors.ErrMalformedResponse)
	}

	mergedAt := pr.MergedAt.UTC()
	converted.MergedAt = &mergedAt
	return converted, nil
}
