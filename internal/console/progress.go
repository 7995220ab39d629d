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

package console

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Spinner character sets: braille dots for terminals, |/-\ otherwise.
const (
	unicodeCharSet = 14
	asciiCharSet   = 9
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// Progress shows a spinner with the page being fetched. It is inert when
// disabled or when its output is not a terminal, so callers never need to
// check before using it.
type Progress struct {
	s     *spinner.Spinner
	total int
}

// NewProgress creates a progress indicator writing to out for a run of
// total pages.
func NewProgress(out *os.File, total int, enabled bool) *Progress {
	p := &Progress{total: total}
	if !enabled || !IsTerminal(out) {
		return p
	}

	charSet := unicodeCharSet
	if os.Getenv("CHANGELOG_SYNC_ASCII") == "1" {
		charSet = asciiCharSet
	}
	p.s = spinner.New(spinner.CharSets[charSet], 100*time.Millisecond, spinner.WithWriter(out))
	p.s.Suffix = fmt.Sprintf(" Fetching page 1/%d", total)
	return p
}

// active reports whether the spinner is drawn.
func (p *Progress) active() bool {
	return p.s != nil
}

// Start starts drawing.
func (p *Progress) Start() {
	if p.s != nil {
		p.s.Start()
	}
}

// Page reports that page n came back with records pull requests.
func (p *Progress) Page(n, records int) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = fmt.Sprintf(" Fetched page %d/%d (%d pull requests)", n, p.total, records)
	p.s.Unlock()
}

// Stop clears the spinner.
func (p *Progress) Stop() {
	if p.s != nil {
		p.s.Stop()
	}
}
