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

// Package atomicfile replaces files so that readers see either the old
// content or the new content, never a partial write.
//
// Content is written to a temporary file in the destination directory,
// flushed to disk and renamed over the destination. The temporary file is
// removed on every failure path, and the destination keeps its permission
// bits.
//
// Example usage:
//
//	err := atomicfile.Write("changelog_tab.lua", func(w io.Writer) error {
//	    _, err := io.WriteString(w, content)
//	    return err
//	})
package atomicfile
