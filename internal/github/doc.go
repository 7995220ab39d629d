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

// Package github lists the closed pull requests of a repository.
//
// Two backends implement the Client interface:
//   - RESTClient uses go-github against GET /repos/{owner}/{repo}/pulls with
//     state=closed and numbered pages. It works anonymously.
//   - GraphQLClient uses shurcooL/graphql and cursors. It needs credentials.
//
// NewHTTPClient builds the authenticated transport both share: HTTP Basic
// auth for a username and token, a bearer token for a token alone.
//
// Basic usage:
//
//	httpClient := github.NewHTTPClient(ctx, github.Credentials{Username: "me", Token: "ghp_..."})
//	client, err := github.NewRESTClient(github.DefaultAPIEndpoint, httpClient)
//	if err != nil {
//	    // Handle error
//	}
//	page, err := client.FetchClosedPullRequests(ctx, "owner", "repo", github.FetchOptions{Page: 1})
//
// Errors are wrapped around the sentinels of internal/errors so callers can
// use errors.Is to pick an exit code.
package github
