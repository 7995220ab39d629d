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
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// AssertNDJSONEntries validates that a file contains one changelog entry per
// line and returns the decoded entries.
func AssertNDJSONEntries(t *testing.T, filePath string, expectedCount int) []map[string]interface{} {
	t.Helper()

	file, err := os.Open(filePath)
	if err != nil {
		t.Fatalf("Failed to open output file: %v", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	var entries []map[string]interface{}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("Line %d: invalid JSON: %v", len(entries)+1, err)
			continue
		}

		for _, field := range []string{"date", "title", "login"} {
			if _, ok := entry[field]; !ok {
				t.Errorf("Line %d: missing required field '%s'", len(entries)+1, field)
			}
		}

		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("Error reading file: %v", err)
	}

	if len(entries) != expectedCount {
		t.Errorf("Expected %d entries, got %d", expectedCount, len(entries))
	}
	return entries
}

// ParseSummary extracts the JSON run summary printed after the progress
// messages on stderr.
func ParseSummary(t *testing.T, stderr string) map[string]interface{} {
	t.Helper()

	start := strings.Index(stderr, "\n{")
	if start < 0 {
		t.Fatalf("No summary found in stderr:\n%s", stderr)
	}

	var summary map[string]interface{}
	dec := json.NewDecoder(strings.NewReader(stderr[start+1:]))
	if err := dec.Decode(&summary); err != nil {
		t.Fatalf("Invalid summary JSON: %v\n%s", err, stderr)
	}

	for _, field := range []string{"tool_version", "method_version", "run_id", "parameters", "results"} {
		if _, ok := summary[field]; !ok {
			t.Errorf("Missing required summary field: %s", field)
		}
	}
	return summary
}

// AssertContainsString checks if a string contains a substring
func AssertContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Errorf("Expected string to contain %q, got: %s", needle, haystack)
	}
}

// AssertNotContainsString checks if a string does not contain a substring
func AssertNotContainsString(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Errorf("Expected string to NOT contain %q, got: %s", needle, haystack)
	}
}

// AssertEqual compares two values and fails if they're not equal
func AssertEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Errorf("Got %v, want %v", got, want)
	}
}

// AssertFilePermissions checks file has expected permissions
func AssertFilePermissions(t *testing.T, path string, expectedMode os.FileMode) {
	t.Helper()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}

	if mode := info.Mode(); mode != expectedMode {
		t.Errorf("Expected file mode %v, got %v", expectedMode, mode)
	}
}
