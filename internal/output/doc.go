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

// Package output dumps changelog entries for inspection.
//
// Two formats are supported: "lines", the "date;title;login" form with one
// entry per line, and "ndjson", one JSON object per line. Both writers are
// safe for concurrent use and count what they write.
//
// Example usage:
//
//	w, err := output.NewFileWriter("changelog.txt", output.FormatLines)
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := output.WriteAll(w, entries); err != nil {
//	    return err
//	}
package output
