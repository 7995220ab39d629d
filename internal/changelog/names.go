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

package changelog

import "strings"

// defaultNames maps contributor GitHub logins to the names they go by in game.
var defaultNames = map[string]string{
	"Ragnarok77-factorio": "Ragnarok77",
	"XVhc6A":              "DrButtons",
	"amannm":              "BigFatDuck",
	"clifffrey":           "cliff_build",
}

// Names resolves GitHub logins to display names. The zero value resolves
// every login to itself. A Names value is never modified after construction.
type Names struct {
	byLogin map[string]string
}

// DefaultNames returns the built-in login table.
func DefaultNames() Names {
	return NewNames(nil)
}

// NewNames returns the built-in table extended with extra. Entries in extra
// win over built-in ones for the same login.
func NewNames(extra map[string]string) Names {
	byLogin := make(map[string]string, len(defaultNames)+len(extra))
	for login, name := range defaultNames {
		byLogin[login] = name
	}
	for login, name := range extra {
		byLogin[login] = name
	}
	return Names{byLogin: byLogin}
}

// Resolve cleans login (trailing newlines trimmed, double quotes swapped for
// single quotes) and returns its display name, or the cleaned login when it
// is not in the table.
func (n Names) Resolve(login string) string {
	cleaned := Sanitize(strings.TrimRight(login, "\n"))
	if name, ok := n.byLogin[cleaned]; ok {
		return name
	}
	return cleaned
}

// Len returns the number of logins in the table.
func (n Names) Len() int {
	return len(n.byLogin)
}
