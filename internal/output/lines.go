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
	"sync"

	"github.com/sirseerhq/changelog-sync/internal/changelog"
)

// LineWriter writes entries in their "date;title;login" form, one per line.
type LineWriter struct {
	mu        sync.Mutex
	output    io.Writer
	count     int
	closeFunc func() error
}

// NewLineWriter creates a line writer on top of w.
func NewLineWriter(w io.Writer) *LineWriter {
	return &LineWriter{output: w}
}

// Write writes a single entry followed by a newline.
func (w *LineWriter) Write(entry changelog.Entry) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.output, entry.String()+"\n"); err != nil {
		return fmt.Errorf("failed to write entry: %w", err)
	}

	w.count++
	return nil
}

// Count returns the number of entries written.
func (w *LineWriter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
