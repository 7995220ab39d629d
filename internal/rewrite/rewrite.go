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

// Package rewrite replaces the generated changelog block of a Lua source
// file with freshly rendered entries.
package rewrite

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirseerhq/changelog-sync/internal/atomicfile"
	"github.com/sirseerhq/changelog-sync/internal/changelog"
)

// Marker identifies a generated line. A line is generated when it contains
// Marker anywhere; the leading tab keeps "function add_entry(" definitions
// out of the match.
const Marker = "\tadd_entry("

// Result describes a rewrite.
type Result struct {
	// MarkersRemoved counts the generated lines dropped from the input.
	MarkersRemoved int

	// Inserted counts the lines written at the first marker.
	Inserted int

	// Hidden counts the entries skipped because their title is hidden.
	Hidden int

	// Changed reports whether the output differs from the input. Only set
	// by RewriteFile.
	Changed bool
}

// RenderLine formats entry as a generated Lua line, newline included.
func RenderLine(entry changelog.Entry, names changelog.Names) string {
	date := changelog.Sanitize(strings.TrimRight(entry.Date, "\n"))
	title := changelog.Sanitize(strings.TrimRight(entry.Title, "\n"))
	name := names.Resolve(entry.Login)
	return "\tadd_entry(\"" + date + "\", \"" + name + "\", \"" + title + "\")\n"
}

// Rewrite copies r to w, dropping every marker line and writing the rendered
// entries where the first marker was. Bytes outside marker lines, line
// terminators included, are copied unchanged. Input without markers is
// copied verbatim and nothing is inserted.
func Rewrite(r io.Reader, w io.Writer, entries []changelog.Entry, names changelog.Names) (Result, error) {
	var res Result
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return res, fmt.Errorf("failed to read input: %w", err)
		}

		if line != "" {
			if strings.Contains(line, Marker) {
				if res.MarkersRemoved == 0 {
					if werr := writeEntries(w, entries, names, &res); werr != nil {
						return res, werr
					}
				}
				res.MarkersRemoved++
			} else if _, werr := io.WriteString(w, line); werr != nil {
				return res, fmt.Errorf("failed to write output: %w", werr)
			}
		}

		if err != nil {
			return res, nil
		}
	}
}

func writeEntries(w io.Writer, entries []changelog.Entry, names changelog.Names, res *Result) error {
	for _, entry := range entries {
		if entry.Hidden() {
			res.Hidden++
			continue
		}
		if _, err := io.WriteString(w, RenderLine(entry, names)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		res.Inserted++
	}
	return nil
}

// Options controls RewriteFile.
type Options struct {
	// DryRun writes the rewritten content to Stdout instead of replacing
	// the file.
	DryRun bool
	Stdout io.Writer
}

// RewriteFile rewrites path in place. The file is replaced atomically and
// only after the whole new content has been produced, so a failure leaves
// it untouched.
func RewriteFile(path string, entries []changelog.Entry, names changelog.Names, opts Options) (Result, error) {
	original, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var out bytes.Buffer
	res, err := Rewrite(bytes.NewReader(original), &out, entries, names)
	if err != nil {
		return res, err
	}
	res.Changed = atomicfile.Checksum(original) != atomicfile.Checksum(out.Bytes())

	if opts.DryRun {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		if _, err := stdout.Write(out.Bytes()); err != nil {
			return res, fmt.Errorf("failed to write dry-run output: %w", err)
		}
		return res, nil
	}

	if err := atomicfile.WriteFile(path, out.Bytes()); err != nil {
		return res, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return res, nil
}
