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

package output

import (
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/changelog-sync/internal/changelog"
)

// Dump formats accepted by New and NewFileWriter.
const (
	FormatLines  = "lines"
	FormatNDJSON = "ndjson"
)

// OutputWriter defines the interface for dumping changelog entries.
type OutputWriter interface {
	// Write writes a single entry to the output.
	Write(entry changelog.Entry) error

	// Count returns the number of entries written so far.
	Count() int

	// Close closes the underlying writer and releases any resources.
	// This should be called when all writing is complete.
	Close() error
}

// New returns the writer for format on top of w.
func New(w io.Writer, format string) (OutputWriter, error) {
	switch format {
	case "", FormatLines:
		return NewLineWriter(w), nil
	case FormatNDJSON:
		return NewWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown dump format %q (expected %q or %q)", format, FormatLines, FormatNDJSON)
	}
}

// NewFileWriter creates a writer for format that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename, format string) (OutputWriter, error) {
	// Reject the format before truncating anything.
	if _, err := New(io.Discard, format); err != nil {
		return nil, err
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	w, _ := New(file, format)
	switch typed := w.(type) {
	case *Writer:
		typed.closeFunc = file.Close
	case *LineWriter:
		typed.closeFunc = file.Close
	}
	return w, nil
}

// WriteAll writes every entry to w and returns the first error.
func WriteAll(w OutputWriter, entries []changelog.Entry) error {
	for _, entry := range entries {
		if err := w.Write(entry); err != nil {
			return err
		}
	}
	return nil
}
