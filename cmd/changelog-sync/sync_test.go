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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"

	syncerrors "github.com/sirseerhq/changelog-sync/internal/errors"
	"github.com/sirseerhq/changelog-sync/internal/github"
	"github.com/sirseerhq/changelog-sync/internal/metadata"
)

const changelogTab = `local function add_entry(date, name, text)
	entries[#entries + 1] = {date, name, text}
end

	add_entry("2020-01-01", "old", "Old entry")
	add_entry("2019-12-31", "old", "Older entry")

return entries
`

// testEnv isolates a run: empty working directory with a changelog file, no
// token in the environment.
type testEnv struct {
	dir    string
	target string
	stdout bytes.Buffer
	stderr bytes.Buffer
	mock   *github.MockClient
	creds  github.Credentials
	api    string
}

func newTestEnv(t *testing.T, mock *github.MockClient) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("GITHUB_TOKEN", "")

	target := filepath.Join(dir, "changelog_tab.lua")
	if err := os.WriteFile(target, []byte(changelogTab), 0o644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{dir: dir, target: target, mock: mock}
}

func (e *testEnv) options() *syncOptions {
	return &syncOptions{
		target:     e.target,
		dumpFormat: "lines",
		stdout:     &e.stdout,
		stderr:     &e.stderr,
		newClient: func(ctx context.Context, backend, endpoint string, creds github.Credentials) (github.Client, error) {
			e.creds = creds
			e.api = backend
			return e.mock, nil
		},
	}
}

func TestRunSync_RewritesTarget(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())

	if err := runSync(context.Background(), "changelog-sync", nil, env.options()); err != nil {
		t.Fatalf("runSync() error = %v\nstderr:\n%s", err, env.stderr.String())
	}

	data, _ := os.ReadFile(env.target)
	want := `local function add_entry(date, name, text)
	entries[#entries + 1] = {date, name, text}
end

	add_entry("2024-03-01", "octocat", "Add team chat")
	add_entry("2024-01-05", "BigFatDuck", "Fix biter spawn rate")

return entries
`
	if string(data) != want {
		t.Errorf("target =\n%s\nwant\n%s", data, want)
	}

	if env.mock.CallCount != 9 {
		t.Errorf("CallCount = %d, want 9", env.mock.CallCount)
	}
	if env.mock.LastOwner != "Factorio-Biter-Battles" || env.mock.LastRepo != "Factorio-Biter-Battles" {
		t.Errorf("repository = %s/%s", env.mock.LastOwner, env.mock.LastRepo)
	}
	if env.api != "rest" {
		t.Errorf("backend = %q, want rest", env.api)
	}
	if !env.creds.IsZero() {
		t.Errorf("credentials = %+v, want anonymous", env.creds)
	}

	stderr := env.stderr.String()
	for _, want := range []string{
		"Usage of script with usage of GitHub token for more API requests: changelog-sync username token",
		"No arguments used, will use the default connection to the GitHub API without any token",
		"Found 2 merged pull requests among 3 closed",
		"2 entries written to",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}

	// A second run with the same data leaves the file untouched.
	env.stderr.Reset()
	if err := runSync(context.Background(), "changelog-sync", nil, env.options()); err != nil {
		t.Fatalf("second runSync() error = %v", err)
	}
	again, _ := os.ReadFile(env.target)
	if string(again) != want {
		t.Error("second run changed the file")
	}
	if !strings.Contains(env.stderr.String(), "already up to date") {
		t.Errorf("second run stderr:\n%s", env.stderr.String())
	}
}

func TestRunSync_Arguments(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCreds github.Credentials
		wantMsg   string
	}{
		{
			name:    "no arguments",
			args:    nil,
			wantMsg: "No arguments used",
		},
		{
			name:      "username and token",
			args:      []string{"octocat", "ghp_secret"},
			wantCreds: github.Credentials{Username: "octocat", Token: "ghp_secret"},
			wantMsg:   "Two arguments provided, will use the token to connect to the API",
		},
		{
			name:    "one argument",
			args:    []string{"octocat"},
			wantMsg: "Wrong number of arguments (should be 2 or 0) for the script",
		},
		{
			name:    "three arguments",
			args:    []string{"a", "b", "c"},
			wantMsg: "Wrong number of arguments (should be 2 or 0) for the script",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, github.NewMockClient())

			if err := runSync(context.Background(), "changelog-sync", tt.args, env.options()); err != nil {
				t.Fatalf("runSync() error = %v", err)
			}
			if env.creds != tt.wantCreds {
				t.Errorf("credentials = %+v, want %+v", env.creds, tt.wantCreds)
			}
			if !strings.Contains(env.stderr.String(), tt.wantMsg) {
				t.Errorf("stderr missing %q:\n%s", tt.wantMsg, env.stderr.String())
			}
		})
	}
}

func TestRunSync_TokenFromEnvironment(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())
	t.Setenv("GITHUB_TOKEN", "ghp_env")

	if err := runSync(context.Background(), "changelog-sync", nil, env.options()); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if env.creds != (github.Credentials{Token: "ghp_env"}) {
		t.Errorf("credentials = %+v, want bearer token from env", env.creds)
	}
	if !strings.Contains(env.stderr.String(), "Using the token from GITHUB_TOKEN") {
		t.Errorf("stderr:\n%s", env.stderr.String())
	}

	// Positional credentials win.
	env2 := newTestEnv(t, github.NewMockClient())
	t.Setenv("GITHUB_TOKEN", "ghp_env")
	if err := runSync(context.Background(), "changelog-sync", []string{"u", "t"}, env2.options()); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if env2.creds != (github.Credentials{Username: "u", Token: "t"}) {
		t.Errorf("credentials = %+v", env2.creds)
	}
}

func TestRunSync_DryRun(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())
	opts := env.options()
	opts.dryRun = true

	if err := runSync(context.Background(), "changelog-sync", nil, opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}

	data, _ := os.ReadFile(env.target)
	if string(data) != changelogTab {
		t.Error("dry run modified the target")
	}
	if !strings.Contains(env.stdout.String(), `add_entry("2024-03-01", "octocat", "Add team chat")`) {
		t.Errorf("stdout:\n%s", env.stdout.String())
	}
}

func TestRunSync_HiddenAndQuotes(t *testing.T) {
	at := mustTime(t, "2024-02-02T10:00:00Z")
	older := mustTime(t, "2024-02-01T10:00:00Z")
	mock := github.NewMockClientWithOptions(github.WithPullRequests([]github.PullRequest{
		{Number: 1, Title: "Secret fix [HIDDEN]", MergedAt: &at, Author: github.Author{Login: "amannm"}},
		{Number: 2, Title: `Add "fast" mode`, MergedAt: &older, Author: github.Author{Login: "clifffrey"}},
	}))
	env := newTestEnv(t, mock)

	if err := runSync(context.Background(), "changelog-sync", nil, env.options()); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}

	data, _ := os.ReadFile(env.target)
	if strings.Contains(string(data), "Secret fix") {
		t.Error("hidden entry written")
	}
	if !strings.Contains(string(data), "\tadd_entry(\"2024-02-01\", \"cliff_build\", \"Add 'fast' mode\")\n") {
		t.Errorf("target:\n%s", data)
	}
	if !strings.Contains(env.stderr.String(), "(1 hidden)") {
		t.Errorf("stderr:\n%s", env.stderr.String())
	}
}

func TestRunSync_DumpEntries(t *testing.T) {
	for _, format := range []string{"lines", "ndjson"} {
		t.Run(format, func(t *testing.T) {
			env := newTestEnv(t, github.NewMockClient())
			opts := env.options()
			opts.dumpPath = filepath.Join(env.dir, "changelog.txt")
			opts.dumpFormat = format

			if err := runSync(context.Background(), "changelog-sync", nil, opts); err != nil {
				t.Fatalf("runSync() error = %v", err)
			}

			data, err := os.ReadFile(opts.dumpPath)
			if err != nil {
				t.Fatalf("dump not written: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 2 {
				t.Fatalf("dump has %d lines:\n%s", len(lines), data)
			}
			if format == "lines" && lines[0] != "2024-03-01;Add team chat;octocat" {
				t.Errorf("first line = %q", lines[0])
			}
			if format == "ndjson" && !json.Valid([]byte(lines[0])) {
				t.Errorf("first line is not JSON: %q", lines[0])
			}
		})
	}
}

func TestRunSync_Summary(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())
	opts := env.options()
	opts.summary = true

	if err := runSync(context.Background(), "changelog-sync", nil, opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}

	stderr := env.stderr.String()
	start := strings.Index(stderr, "{")
	if start < 0 {
		t.Fatalf("no summary in stderr:\n%s", stderr)
	}
	var md metadata.RunMetadata
	if err := json.Unmarshal([]byte(stderr[start:]), &md); err != nil {
		t.Fatalf("summary is not JSON: %v\n%s", err, stderr[start:])
	}
	if md.Results.APICallCount != 9 || md.Results.MergedPRs != 2 || md.Results.Inserted != 2 {
		t.Errorf("summary results = %+v", md.Results)
	}
	if md.Parameters.Repository != "Factorio-Biter-Battles" || md.Parameters.Pages != 9 {
		t.Errorf("summary parameters = %+v", md.Parameters)
	}
}

func TestRunSync_ConfigFile(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())
	cfg := fmt.Sprintf(`github:
  repository: org/game
pages: 2
names:
  octocat: Octo
repositories:
  "org/game":
    target: %q
`, env.target)
	if err := os.WriteFile(".changelog-sync.yaml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := env.options()
	opts.target = ""
	if err := runSync(context.Background(), "changelog-sync", nil, opts); err != nil {
		t.Fatalf("runSync() error = %v\n%s", err, env.stderr.String())
	}

	if env.mock.LastOwner != "org" || env.mock.LastRepo != "game" {
		t.Errorf("repository = %s/%s", env.mock.LastOwner, env.mock.LastRepo)
	}
	if env.mock.CallCount != 2 {
		t.Errorf("CallCount = %d, want 2", env.mock.CallCount)
	}
	data, _ := os.ReadFile(env.target)
	if !strings.Contains(string(data), `"Octo"`) {
		t.Errorf("configured name not applied:\n%s", data)
	}
}

func TestRunSync_DetectRepo(t *testing.T) {
	env := newTestEnv(t, github.NewMockClient())
	repo, err := gogit.PlainInit(env.dir, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:fork/biter-battles.git"}}); err != nil {
		t.Fatal(err)
	}

	opts := env.options()
	opts.detectRepo = true
	if err := runSync(context.Background(), "changelog-sync", nil, opts); err != nil {
		t.Fatalf("runSync() error = %v", err)
	}
	if env.mock.LastOwner != "fork" || env.mock.LastRepo != "biter-battles" {
		t.Errorf("repository = %s/%s", env.mock.LastOwner, env.mock.LastRepo)
	}
}

func TestRunSync_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mock     *github.MockClient
		mutate   func(*syncOptions)
		wantErr  error
		wantText string
		wantCode int
	}{
		{
			name:     "rate limited",
			mock:     github.NewMockClientWithOptions(github.WithRateLimit()),
			wantErr:  syncerrors.ErrRateLimit,
			wantCode: 2,
		},
		{
			name:     "bad credentials",
			mock:     github.NewMockClientWithOptions(github.WithAuthFailure()),
			wantErr:  syncerrors.ErrInvalidToken,
			wantCode: 2,
		},
		{
			name:     "network failure on a later page",
			mock:     github.NewMockClientWithOptions(github.WithError(syncerrors.ErrNetworkFailure, 5)),
			wantErr:  syncerrors.ErrNetworkFailure,
			wantCode: 3,
		},
		{
			name:     "missing target",
			mock:     github.NewMockClient(),
			mutate:   func(o *syncOptions) { o.target = "does-not-exist.lua" },
			wantErr:  os.ErrNotExist,
			wantCode: 1,
		},
		{
			name:     "invalid repository flag",
			mock:     github.NewMockClient(),
			mutate:   func(o *syncOptions) { o.repo = "not-a-repo" },
			wantText: "expected owner/name",
			wantCode: 1,
		},
		{
			name:     "unknown api",
			mock:     github.NewMockClient(),
			mutate:   func(o *syncOptions) { o.api = "soap" },
			wantText: "unknown API",
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.mock)
			opts := env.options()
			if tt.mutate != nil {
				tt.mutate(opts)
			}

			err := runSync(context.Background(), "changelog-sync", nil, opts)
			if err == nil {
				t.Fatal("runSync() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantText != "" && !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error = %v, want containing %q", err, tt.wantText)
			}
			if code := mapErrorToExitCode(err); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}

			// A failed run never touches the target.
			if data, err := os.ReadFile(env.target); err == nil && string(data) != changelogTab {
				t.Error("target modified by a failed run")
			}
		})
	}
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{fmt.Errorf("page 1: %w", syncerrors.ErrInvalidToken), 2},
		{fmt.Errorf("page 1: %w", syncerrors.ErrRepoNotFound), 2},
		{fmt.Errorf("page 1: %w", syncerrors.ErrRateLimit), 2},
		{syncerrors.ErrMissingCredentials, 2},
		{fmt.Errorf("page 1: %w", syncerrors.ErrNetworkFailure), 3},
		{syncerrors.ErrMalformedResponse, 1},
	}

	for _, tt := range tests {
		if got := mapErrorToExitCode(tt.err); got != tt.want {
			t.Errorf("mapErrorToExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRootCommand_Flags(t *testing.T) {
	cmd := newRootCommand(&bytes.Buffer{}, &bytes.Buffer{})

	for _, name := range []string{"config", "repo", "target", "api", "pages", "detect-repo", "dry-run", "dump-entries", "dump-format", "summary", "verbose"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not defined", name)
		}
	}

	if cmd.Flags().Lookup("dump_entries") != cmd.Flags().Lookup("dump-entries") {
		t.Error("--dump_entries should resolve to --dump-entries")
	}

	cmd.SetArgs([]string{"--repo", "a/b", "--detect-repo"})
	if err := cmd.Execute(); err == nil {
		t.Error("--repo and --detect-repo should be mutually exclusive")
	}
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(github.MergedAtLayout, s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
