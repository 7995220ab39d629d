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

// Package console renders user-facing terminal output: colored warning and
// error lines, a progress spinner and the debug logger.
//
// Colors and the spinner are only used when the destination is a terminal.
// Set NO_COLOR to disable colors everywhere.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg   = color.New(color.FgRed).SprintFunc()
	warnLabel  = color.New(color.FgYellow, color.Bold).SprintFunc()
	hintLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	okLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// UseColorFor enables colors only when f is a terminal. fatih/color decides
// from stdout at init, but the labels go to stderr. NO_COLOR and TERM=dumb
// still disable colors.
func UseColorFor(f *os.File) {
	color.NoColor = os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" || !IsTerminal(f)
}

// Error writes "Error: msg" to w.
func Error(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", errorLabel("Error:"), errorMsg(strings.TrimRight(msg, "\n")))
}

// Warning writes "Warning: msg" to w.
func Warning(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", warnLabel("Warning:"), strings.TrimRight(msg, "\n"))
}

// Hint writes "Hint: msg" to w.
func Hint(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", hintLabel("Hint:"), strings.TrimRight(msg, "\n"))
}

// Done writes a success line to w.
func Done(w io.Writer, msg string) {
	fmt.Fprintf(w, "%s %s\n", okLabel("Done:"), strings.TrimRight(msg, "\n"))
}
