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
	"sort"
	"strings"

	"github.com/sirseerhq/changelog-sync/internal/github"
)

// HiddenTag marks a pull request title that must not appear in the changelog.
const HiddenTag = "[HIDDEN]"

// Entry is one formatted changelog line before rendering: the merge date,
// the pull request title and the author's GitHub login.
type Entry struct {
	Date  string `json:"date"`
	Title string `json:"title"`
	Login string `json:"login"`
}

// String returns the intermediate "date;title;login" form.
func (e Entry) String() string {
	return e.Date + ";" + e.Title + ";" + e.Login
}

// Hidden reports whether the title carries HiddenTag.
func (e Entry) Hidden() bool {
	return strings.Contains(e.Title, HiddenTag)
}

// BuildEntries keeps the merged pull requests, stable-sorts them by merge
// timestamp descending and formats each as an Entry. Pull requests merged at
// the same second keep the order the API returned them in.
func BuildEntries(prs []github.PullRequest) []Entry {
	type keyed struct {
		mergedAt string
		pr       github.PullRequest
	}

	merged := make([]keyed, 0, len(prs))
	for _, pr := range prs {
		if !pr.IsMerged() {
			continue
		}
		merged = append(merged, keyed{mergedAt: pr.MergedAtString(), pr: pr})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].mergedAt > merged[j].mergedAt
	})

	entries := make([]Entry, 0, len(merged))
	for _, m := range merged {
		date, _, _ := strings.Cut(m.mergedAt, "T")
		entries = append(entries, Entry{
			Date:  date,
			Title: m.pr.Title,
			Login: m.pr.Author.Login,
		})
	}
	return entries
}

// Sanitize swaps double quotes for single quotes so a value can sit inside
// a double-quoted Lua string. Nothing else is escaped.
func Sanitize(s string) string {
	return strings.ReplaceAll(s, `"`, "'")
}
