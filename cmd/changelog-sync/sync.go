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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sirseerhq/changelog-sync/internal/changelog"
	"github.com/sirseerhq/changelog-sync/internal/config"
	"github.com/sirseerhq/changelog-sync/internal/console"
	"github.com/sirseerhq/changelog-sync/internal/gitremote"
	"github.com/sirseerhq/changelog-sync/internal/github"
	"github.com/sirseerhq/changelog-sync/internal/metadata"
	"github.com/sirseerhq/changelog-sync/internal/output"
	"github.com/sirseerhq/changelog-sync/internal/rewrite"
	"github.com/sirseerhq/changelog-sync/pkg/version"
)

const rateLimitHint = "Unauthenticated requests are limited to 60 per hour. Pass a GitHub username and token as the two arguments, or export a token in the variable named by github.token_env."

// runTimeout bounds a whole run: nine sequential page requests.
const runTimeout = 2 * time.Minute

// syncOptions holds the flag values of a run.
type syncOptions struct {
	configPath string
	repo       string
	target     string
	api        string
	pages      int
	detectRepo bool
	dryRun     bool
	dumpPath   string
	dumpFormat string
	summary    bool
	verbose    bool

	stdout io.Writer
	stderr io.Writer

	// newClient builds the GitHub client; tests substitute a mock.
	newClient func(ctx context.Context, backend, endpoint string, creds github.Credentials) (github.Client, error)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &syncOptions{
		stdout:    stdout,
		stderr:    stderr,
		newClient: github.NewClient,
	}

	cmd := &cobra.Command{
		Use:   "changelog-sync [username token]",
		Short: "Refresh the in-game changelog from merged pull requests",
		Long: `changelog-sync fetches the closed pull requests of a GitHub repository,
keeps the merged ones and rewrites the add_entry lines of the changelog Lua
file with one entry per pull request, newest first.

Pass a GitHub username and token to raise the API rate limit. Without them
requests are anonymous unless a token is exported in GITHUB_TOKEN.`,
		Version:       version.Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true, // Don't show usage on error
		SilenceErrors: true, // We'll handle error printing ourselves
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			return runSync(ctx, cmd.Name(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(normalizeFlagName)
	flags.StringVar(&opts.configPath, "config", "", "Configuration file (default: .changelog-sync.yaml in the working directory)")
	flags.StringVar(&opts.repo, "repo", "", "GitHub repository as owner/name (default: "+config.DefaultRepository+")")
	flags.StringVar(&opts.target, "target", "", "Changelog Lua file to rewrite (default: "+config.DefaultTarget+")")
	flags.StringVar(&opts.api, "api", "", "GitHub API to use: rest or graphql (default: rest)")
	flags.IntVar(&opts.pages, "pages", 0, "Number of pages of 100 pull requests to fetch (default: 9)")
	flags.BoolVar(&opts.detectRepo, "detect-repo", false, "Take the repository from the origin remote of the working copy")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the rewritten file to stdout instead of replacing it")
	flags.StringVar(&opts.dumpPath, "dump-entries", "", "Also write the formatted entries to this file")
	flags.StringVar(&opts.dumpFormat, "dump-format", output.FormatLines, "Format of --dump-entries: lines or ndjson")
	flags.BoolVar(&opts.summary, "summary", false, "Print a JSON summary of the run to stderr")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every API request")

	cmd.MarkFlagsMutuallyExclusive("repo", "detect-repo")

	return cmd
}

// normalizeFlagName accepts underscores in place of dashes, so --dump_entries
// and --dump-entries name the same flag.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// runSync executes one changelog refresh.
func runSync(ctx context.Context, name string, args []string, opts *syncOptions) error {
	stderr := opts.stderr
	logger := console.NewLogger(stderr, opts.verbose)

	printUsageHints(stderr, name)
	creds := credentialsFromArgs(stderr, args)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "repository", cfg.GitHub.Repository, "api", cfg.GitHub.API, "target", cfg.Target)

	if creds.IsZero() && cfg.GitHub.TokenEnv != "" {
		if token := os.Getenv(cfg.GitHub.TokenEnv); token != "" {
			fmt.Fprintf(stderr, "Using the token from %s\n", cfg.GitHub.TokenEnv)
			creds.Token = token
		}
	}

	repoName := cfg.GitHub.Repository
	owner, repo, err := config.SplitRepository(repoName)
	if err != nil {
		return err
	}

	target := cfg.GetTarget(repoName)
	if opts.target != "" {
		target = opts.target
	}
	pages := cfg.GetPages(repoName)
	if opts.pages > 0 {
		pages = opts.pages
	}

	// Fail before spending API requests on a file that is not there.
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("changelog file %s: %w", target, err)
	}

	endpoint := cfg.GitHub.APIEndpoint
	if cfg.GitHub.API == github.BackendGraphQL {
		endpoint = cfg.GitHub.GraphQLEndpoint
	}
	client, err := opts.newClient(ctx, cfg.GitHub.API, endpoint, creds)
	if err != nil {
		return err
	}

	tracker := metadata.New()
	entries, err := fetchEntries(ctx, client, owner, repo, pages, cfg.Display.Spinner && !opts.verbose, tracker, opts, logger)
	if err != nil {
		return err
	}

	if opts.dumpPath != "" {
		if err := dumpEntries(opts.dumpPath, opts.dumpFormat, entries); err != nil {
			return err
		}
		logger.Debug("entries dumped", "path", opts.dumpPath, "format", opts.dumpFormat)
	}

	names := changelog.NewNames(cfg.Names)
	logger.Debug("name table ready", "logins", names.Len())
	res, err := rewrite.RewriteFile(target, entries, names, rewrite.Options{DryRun: opts.dryRun, Stdout: opts.stdout})
	if err != nil {
		return err
	}
	tracker.RecordRewrite(metadata.RewriteStats{
		Entries:        len(entries),
		Inserted:       res.Inserted,
		Hidden:         res.Hidden,
		MarkersRemoved: res.MarkersRemoved,
		Changed:        res.Changed,
		DryRun:         opts.dryRun,
	})

	reportResult(stderr, target, res, opts.dryRun)

	if opts.summary {
		md := tracker.GenerateMetadata(version.Version, metadata.RunParams{
			Organization:  owner,
			Repository:    repo,
			API:           cfg.GitHub.API,
			Pages:         pages,
			Target:        target,
			Authenticated: !creds.IsZero(),
			DryRun:        opts.dryRun,
		})
		if err := metadata.WriteMetadataToWriter(md, stderr); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}

	return nil
}

// loadConfig loads the configuration file and applies the command-line flags
// on top of it.
func loadConfig(opts *syncOptions) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.repo != "" {
		cfg.GitHub.Repository = opts.repo
	}
	if opts.detectRepo {
		detected, err := gitremote.DetectRepository("", gitremote.DefaultRemote)
		if err != nil {
			return nil, fmt.Errorf("failed to detect the repository: %w", err)
		}
		cfg.GitHub.Repository = detected
	}
	if opts.api != "" {
		cfg.GitHub.API = opts.api
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// printUsageHints prints the invocation hints shown at the start of every run.
func printUsageHints(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage of script with usage of GitHub token for more API requests: %s username token\n", name)
	fmt.Fprintf(w, "Usage of script without any token: %s\n", name)
	fmt.Fprintln(w, "If the script fails with a rate limit error, you spammed the GitHub API too much; use a token instead (if the token doesn't work, you failed to give the correct GitHub username and token)")
}

// credentialsFromArgs interprets the positional arguments. Exactly two
// arguments are a username and a token; any other count falls back to
// anonymous requests.
func credentialsFromArgs(w io.Writer, args []string) github.Credentials {
	switch len(args) {
	case 0:
		fmt.Fprintln(w, "No arguments used, will use the default connection to the GitHub API without any token")
		return github.Credentials{}
	case 2:
		fmt.Fprintln(w, "Two arguments provided, will use the token to connect to the API")
		return github.Credentials{Username: args[0], Token: args[1]}
	default:
		console.Warning(w, "Wrong number of arguments (should be 2 or 0) for the script, will use the default connection to the GitHub API without any token")
		return github.Credentials{}
	}
}

// fetchEntries collects the closed pull requests and turns the merged ones
// into sorted entries.
func fetchEntries(ctx context.Context, client github.Client, owner, repo string, pages int, spinner bool, tracker *metadata.Tracker, opts *syncOptions, logger *slog.Logger) ([]changelog.Entry, error) {
	fmt.Fprintf(opts.stderr, "Fetching closed pull requests from %s/%s (%d pages of %d)...\n", owner, repo, pages, changelog.PerPage)

	stderrFile, _ := opts.stderr.(*os.File)
	progress := console.NewProgress(stderrFile, pages, spinner)
	progress.Start()

	prs, err := changelog.CollectMerged(ctx, client, owner, repo, changelog.CollectOptions{
		Pages: pages,
		OnPage: func(page, records int) {
			tracker.IncrementAPICall()
			progress.Page(page, records)
		},
		Logger: logger,
	})
	progress.Stop()
	if err != nil {
		return nil, err
	}

	for _, pr := range prs {
		tracker.UpdatePRStats(pr.Number, pr.MergedAt)
	}
	entries := changelog.BuildEntries(prs)
	fmt.Fprintf(opts.stderr, "Found %d merged pull requests among %d closed\n", len(entries), len(prs))
	return entries, nil
}

func dumpEntries(path, format string, entries []changelog.Entry) error {
	w, err := output.NewFileWriter(path, format)
	if err != nil {
		return err
	}
	if err := output.WriteAll(w, entries); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func reportResult(w io.Writer, target string, res rewrite.Result, dryRun bool) {
	if res.MarkersRemoved == 0 {
		console.Warning(w, fmt.Sprintf("no add_entry lines found in %s; nothing was inserted", target))
		return
	}

	msg := fmt.Sprintf("%d entries written to %s (%d hidden)", res.Inserted, target, res.Hidden)
	switch {
	case dryRun:
		msg = fmt.Sprintf("dry run, %d entries rendered for %s (%d hidden)", res.Inserted, target, res.Hidden)
	case !res.Changed:
		msg += ", already up to date"
	}
	console.Done(w, msg)
}
