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

package changelog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sirseerhq/changelog-sync/internal/github"
)

const (
	// DefaultPages is how many listing pages a run requests.
	DefaultPages = 9

	// PerPage is the page size requested from the API.
	PerPage = 100
)

// CollectOptions controls CollectMerged.
type CollectOptions struct {
	// Pages is the number of pages to request. Zero means DefaultPages.
	Pages int

	// OnPage, when set, is called after each page with the 1-based page
	// number and the number of records it held.
	OnPage func(page, records int)

	// Logger receives per-page debug records. Nil discards them.
	Logger *slog.Logger
}

// CollectMerged requests pages 1 through opts.Pages of the closed pull
// request listing and returns every record seen, in API order. Numbered
// backends are asked for every page even after an empty one; cursor
// backends stop once the API reports no further page. Any failed page
// aborts the run with no partial result.
func CollectMerged(ctx context.Context, client github.Client, owner, repo string, opts CollectOptions) ([]github.PullRequest, error) {
	pages := opts.Pages
	if pages <= 0 {
		pages = DefaultPages
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cursors := github.IsCursorPaginated(client)

	var (
		all    []github.PullRequest
		cursor string
	)
	for n := 1; n <= pages; n++ {
		page, err := client.FetchClosedPullRequests(ctx, owner, repo, github.FetchOptions{
			Page:    n,
			PerPage: PerPage,
			After:   cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("fetching page %d: %w", n, err)
		}

		all = append(all, page.PullRequests...)
		logger.Debug("fetched page", "page", n, "records", len(page.PullRequests), "total", len(all))
		if opts.OnPage != nil {
			opts.OnPage(n, len(page.PullRequests))
		}

		if cursors {
			if !page.HasNextPage {
				break
			}
			cursor = page.EndCursor
		}
	}

	return all, nil
}
