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

package integration

import (
	"testing"
	"time"

	"github.com/sirseerhq/changelog-sync/test/testutil"
)

const changelogFixture = `-- changelog shown in the game menu
local function add_entry(date, name, text)
	table.insert(entries, {date, name, text})
end

function build_changelog()
	add_entry("2020-01-01", "someone", "Stale entry")
	add_entry("2020-01-02", "someone", "Another stale entry")
	return entries
end
`

const changelogExpected = `-- changelog shown in the game menu
local function add_entry(date, name, text)
	table.insert(entries, {date, name, text})
end

function build_changelog()
	add_entry("2024-03-01", "octocat", "Add 'team' chat")
	add_entry("2024-02-11", "DrButtons", "Balance turrets")
	add_entry("2024-01-05", "BigFatDuck", "Fix biter spawn rate")
	return entries
end
`

func at(s string) time.Time {
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return ts
}

// fixturePages spreads five closed pull requests over pages 1 and 3; page 2
// and pages 4 to 9 are empty.
func fixturePages() map[int][]map[string]interface{} {
	return map[int][]map[string]interface{}{
		1: {
			testutil.NewPullRequestBuilder(1).WithTitle("Fix biter spawn rate").WithAuthor("amannm").WithMergedAt(at("2024-01-05T09:30:00Z")).Build(),
			testutil.NewPullRequestBuilder(2).WithTitle("Abandoned idea").WithAuthor("octocat").Build(),
			testutil.NewPullRequestBuilder(3).WithTitle(`Add "team" chat`).WithAuthor("octocat").WithMergedAt(at("2024-03-01T18:00:00Z")).Build(),
		},
		3: {
			testutil.NewPullRequestBuilder(4).WithTitle("[HIDDEN] bump dependencies").WithAuthor("clifffrey").WithMergedAt(at("2024-02-10T12:00:00Z")).Build(),
			testutil.NewPullRequestBuilder(5).WithTitle("Balance turrets").WithAuthor("XVhc6A").WithMergedAt(at("2024-02-11T08:15:00Z")).Build(),
		},
	}
}

// setup creates a working directory holding the changelog fixture and a
// REST server serving fixturePages.
func setup(t *testing.T) (dir, target string, server *testutil.MockServer) {
	t.Helper()
	dir = t.TempDir()
	target = testutil.WriteFile(t, dir, "maps/biter_battles_v2/changelog_tab.lua", changelogFixture)
	server = testutil.NewRESTServer(t, fixturePages())
	return dir, target, server
}
