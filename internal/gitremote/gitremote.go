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

// Package gitremote finds the GitHub repository a working copy belongs to by
// reading its remote configuration.
package gitremote

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted by DetectRepository.
const DefaultRemote = "origin"

// ErrNoRemote is returned when the repository has no usable remote.
var ErrNoRemote = errors.New("no remote configured")

// openRepo opens the repository containing path, walking up the directory
// tree to find it. An empty path means the working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return repo, nil
}

// DetectRepository returns the "owner/name" of the GitHub repository that
// remote points to in the working copy containing path.
func DetectRepository(path, remote string) (string, error) {
	if remote == "" {
		remote = DefaultRemote
	}

	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	r, err := repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return "", fmt.Errorf("remote %q: %w", remote, ErrNoRemote)
		}
		return "", fmt.Errorf("reading remote %q: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL: %w", remote, ErrNoRemote)
	}

	owner, name, err := ParseRemoteURL(urls[0])
	if err != nil {
		return "", err
	}
	return owner + "/" + name, nil
}

// ParseRemoteURL extracts owner and repository name from a remote URL.
// Handles:
//   - "https://github.com/owner/name.git"
//   - "ssh://git@github.com/owner/name.git"
//   - "git@github.com:owner/name.git" (SCP-style)
func ParseRemoteURL(raw string) (owner, name string, err error) {
	raw = strings.TrimSpace(raw)

	var path string
	switch {
	case strings.Contains(raw, "://"):
		u, parseErr := url.Parse(raw)
		if parseErr != nil {
			return "", "", fmt.Errorf("parsing remote URL %q: %w", raw, parseErr)
		}
		path = u.Path
	case strings.Contains(raw, ":"):
		// SCP-style: [user@]host:owner/name
		_, path, _ = strings.Cut(raw, ":")
	default:
		return "", "", fmt.Errorf("unsupported remote URL %q", raw)
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("remote URL %q does not name an owner/repository", raw)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
