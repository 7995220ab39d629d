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

// Package config provides configuration management for changelog-sync with
// a well-defined precedence order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Repository-specific configuration (target and pages)
//  3. Environment variables
//  4. Configuration file
//  5. Built-in defaults
//
// Without a configuration file the built-in defaults reproduce the
// historical behavior of the tool exactly.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPaths lists the files LoadConfig looks for when no explicit path
// is given, relative to the working directory.
var DefaultPaths = []string{
	".changelog-sync.yaml",
	".changelog-sync.yml",
}

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it uses the first of DefaultPaths that
// exists.
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides. Path expansion (~ and environment variables) is
// performed on the target path.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	} else {
		for _, path := range DefaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
				}
				break
			}
		}
	}

	applyEnvOverrides(cfg)

	cfg.Target = expandPath(cfg.Target)
	for repo, rc := range cfg.Repositories {
		if rc.Target != "" {
			rc.Target = expandPath(rc.Target)
			cfg.Repositories[repo] = rc
		}
	}

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// GitHub endpoints
	if endpoint := os.Getenv("GITHUB_API_ENDPOINT"); endpoint != "" {
		cfg.GitHub.APIEndpoint = endpoint
	}
	if endpoint := os.Getenv("GITHUB_GRAPHQL_ENDPOINT"); endpoint != "" {
		cfg.GitHub.GraphQLEndpoint = endpoint
	}

	if repo := os.Getenv("CHANGELOG_SYNC_REPOSITORY"); repo != "" {
		cfg.GitHub.Repository = repo
	}
	if api := os.Getenv("CHANGELOG_SYNC_API"); api != "" {
		cfg.GitHub.API = api
	}
	if target := os.Getenv("CHANGELOG_SYNC_TARGET"); target != "" {
		cfg.Target = target
	}
	if pages := os.Getenv("CHANGELOG_SYNC_PAGES"); pages != "" {
		if n, err := parsePositiveInt(pages); err == nil {
			cfg.Pages = n
		}
	}
	if spinner := os.Getenv("CHANGELOG_SYNC_SPINNER"); spinner != "" {
		cfg.Display.Spinner = parseBool(spinner)
	}
}

// expandPath expands ~ and environment variables in paths
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home := os.Getenv("HOME")
		if home == "" {
			home = os.Getenv("USERPROFILE") // Windows
		}
		path = filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, fmt.Errorf("failed to parse integer from '%s': %w", s, err)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// parseBool parses various boolean representations
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}

// GetTarget returns the changelog file for a repository, taking into
// account repository-specific overrides.
func (c *Config) GetTarget(repo string) string {
	if rc, ok := c.Repositories[repo]; ok && rc.Target != "" {
		return rc.Target
	}
	return c.Target
}

// GetPages returns the number of listing pages to request for a repository.
func (c *Config) GetPages(repo string) int {
	if rc, ok := c.Repositories[repo]; ok && rc.Pages > 0 {
		return rc.Pages
	}
	return c.Pages
}

// SplitRepository splits an "owner/name" repository reference.
func SplitRepository(repo string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/name", repo)
	}
	return owner, name, nil
}

// Validate checks if the configuration contains valid values. This should
// be called after loading configuration and applying flags to catch invalid
// settings early.
func (c *Config) Validate() error {
	if c.Pages <= 0 {
		return fmt.Errorf("page count must be positive, got: %d", c.Pages)
	}
	if c.GitHub.APIEndpoint == "" {
		return fmt.Errorf("GitHub API endpoint cannot be empty")
	}
	if c.GitHub.GraphQLEndpoint == "" {
		return fmt.Errorf("GitHub GraphQL endpoint cannot be empty")
	}
	if c.GitHub.API != "rest" && c.GitHub.API != "graphql" {
		return fmt.Errorf("unknown API %q, expected rest or graphql", c.GitHub.API)
	}
	if _, _, err := SplitRepository(c.GitHub.Repository); err != nil {
		return err
	}
	if c.Target == "" {
		return fmt.Errorf("target file cannot be empty")
	}
	for repo, rc := range c.Repositories {
		if rc.Pages < 0 {
			return fmt.Errorf("page count for %s must not be negative, got: %d", repo, rc.Pages)
		}
	}
	for login, name := range c.Names {
		if strings.TrimSpace(login) == "" || strings.TrimSpace(name) == "" {
			return fmt.Errorf("name mapping entries need a login and a display name, got %q: %q", login, name)
		}
	}
	return nil
}
