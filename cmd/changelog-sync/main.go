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

package main

import (
	"errors"
	"os"

	"github.com/sirseerhq/changelog-sync/internal/console"
	syncerrors "github.com/sirseerhq/changelog-sync/internal/errors"
)

func main() {
	console.UseColorFor(os.Stderr)
	rootCmd := newRootCommand(os.Stdout, os.Stderr)

	if err := rootCmd.Execute(); err != nil {
		console.Error(os.Stderr, err.Error())
		if errors.Is(err, syncerrors.ErrRateLimit) {
			console.Hint(os.Stderr, rateLimitHint)
		}
		os.Exit(mapErrorToExitCode(err))
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, syncerrors.ErrInvalidToken) ||
		errors.Is(err, syncerrors.ErrRepoNotFound) ||
		errors.Is(err, syncerrors.ErrRateLimit) ||
		errors.Is(err, syncerrors.ErrMissingCredentials) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, syncerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
