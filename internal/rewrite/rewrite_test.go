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

package rewrite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirseerhq/changelog-sync/internal/changelog"
)

var sampleEntries = []changelog.Entry{
	{Date: "2023-03-01", Title: "Fix X", Login: "amannm"},
	{Date: "2023-01-05", Title: "Add Y", Login: "octocat"},
}

func run(t *testing.T, input string, entries []changelog.Entry) (string, Result) {
	t.Helper()
	var out bytes.Buffer
	res, err := Rewrite(strings.NewReader(input), &out, entries, changelog.DefaultNames())
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	return out.String(), res
}

func TestRenderLine(t *testing.T) {
	names := changelog.DefaultNames()

	tests := []struct {
		name  string
		entry changelog.Entry
		want  string
	}{
		{
			name:  "mapped login",
			entry: changelog.Entry{Date: "2023-03-01", Title: "Fix X", Login: "amannm"},
			want:  "\tadd_entry(\"2023-03-01\", \"BigFatDuck\", \"Fix X\")\n",
		},
		{
			name:  "unmapped login",
			entry: changelog.Entry{Date: "2023-01-05", Title: "Add Y", Login: "octocat"},
			want:  "\tadd_entry(\"2023-01-05\", \"octocat\", \"Add Y\")\n",
		},
		{
			name:  "quotes become apostrophes",
			entry: changelog.Entry{Date: "2023-01-05", Title: `Add "fast" mode`, Login: "octocat"},
			want:  "\tadd_entry(\"2023-01-05\", \"octocat\", \"Add 'fast' mode\")\n",
		},
		{
			name:  "backslashes untouched",
			entry: changelog.Entry{Date: "2023-01-05", Title: `C:\path`, Login: "octocat"},
			want:  "\tadd_entry(\"2023-01-05\", \"octocat\", \"C:\\path\")\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderLine(tt.entry, names); got != tt.want {
				t.Errorf("RenderLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite_NonContiguousMarkers(t *testing.T) {
	input := "A\n" +
		"\tadd_entry(\"x\",\"y\",\"z\")\n" +
		"B\n" +
		"\tadd_entry(\"p\",\"q\",\"r\")\n" +
		"C\n"

	got, res := run(t, input, sampleEntries)

	want := "A\n" +
		"\tadd_entry(\"2023-03-01\", \"BigFatDuck\", \"Fix X\")\n" +
		"\tadd_entry(\"2023-01-05\", \"octocat\", \"Add Y\")\n" +
		"B\n" +
		"C\n"
	if got != want {
		t.Errorf("Rewrite() output =\n%q\nwant\n%q", got, want)
	}
	if res.MarkersRemoved != 2 || res.Inserted != 2 || res.Hidden != 0 {
		t.Errorf("Result = %+v", res)
	}
}

func TestRewrite_NoMarkersIsVerbatim(t *testing.T) {
	inputs := []string{
		"",
		"local x = 1\n",
		"no trailing newline",
		"crlf line\r\nsecond\r\n",
		"function add_entry(date, name, text)\nend\n",
		"add_entry(\"no tab\")\n",
	}

	for _, input := range inputs {
		got, res := run(t, input, sampleEntries)
		if got != input {
			t.Errorf("Rewrite(%q) = %q, want input unchanged", input, got)
		}
		if res.Inserted != 0 || res.MarkersRemoved != 0 {
			t.Errorf("Rewrite(%q) Result = %+v", input, res)
		}
	}
}

func TestRewrite_Idempotent(t *testing.T) {
	input := "local t = {}\n" +
		"function add_entry(a, b, c)\n" +
		"end\n" +
		"\tadd_entry(\"2020-01-01\", \"old\", \"Old entry\")\n" +
		"return t\n"

	first, _ := run(t, input, sampleEntries)
	second, _ := run(t, first, sampleEntries)

	if first != second {
		t.Errorf("second run changed output:\n%q\n%q", first, second)
	}
	if !strings.Contains(first, "function add_entry(a, b, c)\n") {
		t.Error("function definition was dropped")
	}
}

func TestRewrite_HiddenEntries(t *testing.T) {
	entries := []changelog.Entry{
		{Date: "2023-03-02", Title: "Secret fix [HIDDEN]", Login: "amannm"},
		{Date: "2023-03-01", Title: "Visible", Login: "octocat"},
	}

	got, res := run(t, "\tadd_entry(\"a\", \"b\", \"c\")\n", entries)

	if strings.Contains(got, "Secret fix") {
		t.Errorf("hidden entry rendered: %q", got)
	}
	if got != "\tadd_entry(\"2023-03-01\", \"octocat\", \"Visible\")\n" {
		t.Errorf("output = %q", got)
	}
	if res.Hidden != 1 || res.Inserted != 1 {
		t.Errorf("Result = %+v", res)
	}
}

func TestRewrite_MarkerWithoutTrailingNewline(t *testing.T) {
	got, _ := run(t, "head\n\tadd_entry(\"a\", \"b\", \"c\")", sampleEntries[:1])

	want := "head\n\tadd_entry(\"2023-03-01\", \"BigFatDuck\", \"Fix X\")\n"
	if got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRewrite_NoEntriesDropsMarkers(t *testing.T) {
	got, res := run(t, "A\n\tadd_entry(\"a\", \"b\", \"c\")\nB\n", nil)
	if got != "A\nB\n" {
		t.Errorf("output = %q", got)
	}
	if res.MarkersRemoved != 1 {
		t.Errorf("MarkersRemoved = %d", res.MarkersRemoved)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRewrite_WriteError(t *testing.T) {
	_, err := Rewrite(strings.NewReader("A\n"), failingWriter{}, nil, changelog.DefaultNames())
	if err == nil {
		t.Fatal("expected error from failing writer")
	}
}

func TestRewriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "changelog_tab.lua")
	input := "A\n\tadd_entry(\"x\", \"y\", \"z\")\nB\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := RewriteFile(path, sampleEntries, changelog.DefaultNames(), Options{})
	if err != nil {
		t.Fatalf("RewriteFile() error = %v", err)
	}
	if !res.Changed {
		t.Error("Changed = false, want true")
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "BigFatDuck") {
		t.Errorf("file not rewritten: %q", data)
	}

	// A second run with the same entries leaves the content as is.
	res, err = RewriteFile(path, sampleEntries, changelog.DefaultNames(), Options{})
	if err != nil {
		t.Fatalf("second RewriteFile() error = %v", err)
	}
	if res.Changed {
		t.Error("second run reported a change")
	}
}

func TestRewriteFile_DryRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "changelog_tab.lua")
	input := "A\n\tadd_entry(\"x\", \"y\", \"z\")\n"
	if err := os.WriteFile(path, []byte(input), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	res, err := RewriteFile(path, sampleEntries, changelog.DefaultNames(), Options{DryRun: true, Stdout: &stdout})
	if err != nil {
		t.Fatalf("RewriteFile() error = %v", err)
	}
	if !res.Changed {
		t.Error("Changed = false, want true")
	}
	if !strings.Contains(stdout.String(), "BigFatDuck") {
		t.Errorf("dry run output = %q", stdout.String())
	}

	data, _ := os.ReadFile(path)
	if string(data) != input {
		t.Errorf("dry run modified the file: %q", data)
	}
}

func TestRewriteFile_Missing(t *testing.T) {
	_, err := RewriteFile(filepath.Join(t.TempDir(), "nope.lua"), sampleEntries, changelog.DefaultNames(), Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}
