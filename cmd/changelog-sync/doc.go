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

// Package main implements the changelog-sync command-line interface.
// It refreshes the changelog tab of the Biter Battles scenario from the
// merged pull requests of its GitHub repository.
//
// Every run fetches nine pages of closed pull requests, keeps the merged
// ones newest first and replaces the add_entry lines of the changelog Lua
// file with one line per pull request. Titles tagged [HIDDEN] are left out.
//
// Usage:
//
//	changelog-sync [username token] [flags]
//
// Example:
//
//	changelog-sync octocat ghp_xxx --dry-run
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error or rate limit
//   - 3: Network error
package main
