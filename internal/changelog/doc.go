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

// Package changelog turns the closed pull request listing of a repository
// into changelog entries.
//
// CollectMerged walks the listing page by page. BuildEntries keeps only
// merged pull requests, orders them newest first by merge time and reduces
// each to a date, title and login. Names maps logins to the display names
// used in game.
package changelog
