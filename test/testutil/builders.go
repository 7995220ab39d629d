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

package testutil

import (
	"fmt"
	"time"
)

// mergedLayout is the timestamp layout GitHub uses in JSON payloads.
const mergedLayout = "2006-01-02T15:04:05Z"

// PullRequestBuilder provides a fluent API for creating test PRs
type PullRequestBuilder struct {
	number   int
	title    string
	author   string
	mergedAt *time.Time
	noUser   bool
}

// NewPullRequestBuilder creates a new closed, unmerged PR builder with defaults
func NewPullRequestBuilder(number int) *PullRequestBuilder {
	return &PullRequestBuilder{
		number: number,
		title:  fmt.Sprintf("PR %d", number),
		author: fmt.Sprintf("user%d", number),
	}
}

// WithTitle sets the PR title
func (b *PullRequestBuilder) WithTitle(title string) *PullRequestBuilder {
	b.title = title
	return b
}

// WithAuthor sets the PR author login
func (b *PullRequestBuilder) WithAuthor(author string) *PullRequestBuilder {
	b.author = author
	return b
}

// WithMergedAt marks the PR as merged at t
func (b *PullRequestBuilder) WithMergedAt(t time.Time) *PullRequestBuilder {
	utc := t.UTC()
	b.mergedAt = &utc
	return b
}

// WithoutUser drops the user object, producing a malformed record
func (b *PullRequestBuilder) WithoutUser() *PullRequestBuilder {
	b.noUser = true
	return b
}

// Build creates the REST representation of the PR
func (b *PullRequestBuilder) Build() map[string]interface{} {
	pr := map[string]interface{}{
		"number":    b.number,
		"title":     b.title,
		"state":     "closed",
		"merged_at": nil,
	}
	if b.mergedAt != nil {
		pr["merged_at"] = b.mergedAt.Format(mergedLayout)
	}
	if !b.noUser {
		pr["user"] = map[string]interface{}{"login": b.author}
	}
	return pr
}

// BuildNode creates the GraphQL node representation of the PR
func (b *PullRequestBuilder) BuildNode() map[string]interface{} {
	node := map[string]interface{}{
		"number":   b.number,
		"title":    b.title,
		"state":    "CLOSED",
		"mergedAt": nil,
		"author":   nil,
	}
	if b.mergedAt != nil {
		node["state"] = "MERGED"
		node["mergedAt"] = b.mergedAt.Format(mergedLayout)
	}
	if !b.noUser {
		node["author"] = map[string]interface{}{"login": b.author}
	}
	return node
}

// GraphQLResponseBuilder helps build GraphQL responses
type GraphQLResponseBuilder struct {
	prs     []map[string]interface{}
	hasNext bool
	cursor  string
	errors  []map[string]interface{}
}

// NewGraphQLResponseBuilder creates a new response builder
func NewGraphQLResponseBuilder() *GraphQLResponseBuilder {
	return &GraphQLResponseBuilder{}
}

// WithPullRequests adds PR nodes to the response
func (b *GraphQLResponseBuilder) WithPullRequests(nodes ...map[string]interface{}) *GraphQLResponseBuilder {
	b.prs = append(b.prs, nodes...)
	return b
}

// WithPagination sets pagination info
func (b *GraphQLResponseBuilder) WithPagination(hasNext bool, cursor string) *GraphQLResponseBuilder {
	b.hasNext = hasNext
	b.cursor = cursor
	return b
}

// WithError adds an error to the response
func (b *GraphQLResponseBuilder) WithError(message string) *GraphQLResponseBuilder {
	b.errors = append(b.errors, map[string]interface{}{"message": message})
	return b
}

// Build creates the final response
func (b *GraphQLResponseBuilder) Build() map[string]interface{} {
	if len(b.errors) > 0 {
		return map[string]interface{}{"data": nil, "errors": b.errors}
	}

	nodes := b.prs
	if nodes == nil {
		nodes = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"pullRequests": map[string]interface{}{
					"nodes": nodes,
					"pageInfo": map[string]interface{}{
						"hasNextPage": b.hasNext,
						"endCursor":   b.cursor,
					},
				},
			},
		},
	}
}
