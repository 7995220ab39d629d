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

// Package config types define the configuration structures used by
// changelog-sync. Values come from a YAML file, environment variables and
// command-line flags.
package config

// Built-in defaults reproduce the changelog of Biter Battles.
const (
	DefaultRepository = "Factorio-Biter-Battles/Factorio-Biter-Battles"
	DefaultTarget     = "maps/biter_battles_v2/changelog_tab.lua"
	DefaultPages      = 9
	DefaultBackend    = "rest"
)

// Config represents the complete configuration for changelog-sync.
type Config struct {
	GitHub       GitHubConfig          `yaml:"github"`
	Target       string                `yaml:"target"`
	Pages        int                   `yaml:"pages"`
	Names        map[string]string     `yaml:"names"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	Display      DisplayConfig         `yaml:"display"`
}

// GitHubConfig contains GitHub-specific settings. Custom endpoints allow
// GitHub Enterprise deployments and test servers.
type GitHubConfig struct {
	APIEndpoint     string `yaml:"api_endpoint"`
	GraphQLEndpoint string `yaml:"graphql_endpoint"`
	TokenEnv        string `yaml:"token_env"`
	Repository      string `yaml:"repository"`
	API             string `yaml:"api"`
}

// RepoConfig overrides the target file and page count for one repository.
type RepoConfig struct {
	Target string `yaml:"target"`
	Pages  int    `yaml:"pages"`
}

// DisplayConfig controls terminal output.
type DisplayConfig struct {
	Spinner bool `yaml:"spinner"`
}

// DefaultConfig returns a Config that reproduces the built-in behavior:
// nine pages of the Biter Battles repository against public GitHub.
func DefaultConfig() *Config {
	return &Config{
		GitHub: GitHubConfig{
			APIEndpoint:     "https://api.github.com",
			GraphQLEndpoint: "https://api.github.com/graphql",
			TokenEnv:        "GITHUB_TOKEN",
			Repository:      DefaultRepository,
			API:             DefaultBackend,
		},
		Target:       DefaultTarget,
		Pages:        DefaultPages,
		Names:        make(map[string]string),
		Repositories: make(map[string]RepoConfig),
		Display: DisplayConfig{
			Spinner: true,
		},
	}
}
