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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/jira-relay/internal/config"
	relayerrors "github.com/sirseerhq/jira-relay/internal/errors"
	"github.com/sirseerhq/jira-relay/internal/healthcheck"
	"github.com/sirseerhq/jira-relay/internal/jira"
	"github.com/sirseerhq/jira-relay/internal/metadata"
	"github.com/sirseerhq/jira-relay/internal/output"
	"github.com/sirseerhq/jira-relay/internal/schedule"
	"github.com/sirseerhq/jira-relay/internal/store"
	syncengine "github.com/sirseerhq/jira-relay/internal/sync"
	"github.com/sirseerhq/jira-relay/pkg/version"
)

// syncCmd represents the sync command
func newSyncCommand() *cobra.Command {
	var (
		email          string
		token          string
		database       string
		project        string
		days           int
		scheduleMins   int
		healthCheckURL string
		envFile        string
		configFile     string
		outputFile     string
		pageSize       int
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync recently updated issues from a Jira project",
		Long: `Sync issues from a Jira Cloud project into a local SQLite database.

Issues updated within the look-back window are fetched page by page and
upserted by issue key, so repeated runs never duplicate rows.

Authentication is required via a Jira API token:
  - Use --email and --token flags to provide credentials directly
  - Or set JIRA_EMAIL and JIRA_TOKEN environment variables
  - Or place them in a dotenv file (default: .env)

With --schedule N the sync repeats every N minutes until interrupted;
without it the program performs exactly one run and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configFile, envFile)
			if err != nil {
				return err
			}

			// Flags override everything, but only when actually set.
			if email != "" {
				cfg.Email = email
			}
			if token != "" {
				cfg.Token = token
			}
			if healthCheckURL != "" {
				cfg.HealthCheckURL = healthCheckURL
			}
			flags := cmd.Flags()
			if flags.Changed("database") {
				cfg.Defaults.Database = database
			}
			if flags.Changed("project") {
				cfg.Defaults.Project = project
			}
			if flags.Changed("days") {
				cfg.Defaults.Days = days
			}
			if flags.Changed("page-size") {
				cfg.Defaults.PageSize = pageSize
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Email == "" || cfg.Token == "" {
				return fmt.Errorf("set JIRA_EMAIL and JIRA_TOKEN or use --email and --token flags: %w",
					relayerrors.ErrMissingCredentials)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runSync(ctx, cfg, scheduleMins, outputFile)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Jira account email (overrides JIRA_EMAIL env var)")
	cmd.Flags().StringVar(&token, "token", "", "Jira API token (overrides JIRA_TOKEN env var)")
	cmd.Flags().StringVar(&database, "database", "qib-jira.db", "SQLite database file path")
	cmd.Flags().StringVar(&project, "project", "BSUP", "Jira project key")
	cmd.Flags().IntVar(&days, "days", 30, "Look-back window in days")
	cmd.Flags().IntVar(&scheduleMins, "schedule", 0, "Repeat the sync every N minutes (0 = run once)")
	cmd.Flags().StringVar(&healthCheckURL, "health-check", "", "URL to ping after each successful sync (overrides HEALTH_CHECK_URL env var)")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "Dotenv file with credentials (missing file is ignored)")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML config file path")
	cmd.Flags().StringVar(&outputFile, "output", "", "Also write fetched issues as NDJSON to this file")
	cmd.Flags().IntVar(&pageSize, "page-size", 100, "Issues per search page (max 100)")

	return cmd
}

// runSync wires the client, store, and notifier together and executes the
// sync either once or on the configured schedule.
func runSync(ctx context.Context, cfg *config.Config, scheduleMins int, outputFile string) error {
	st, err := store.Open(cfg.Defaults.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	if err := st.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	client := jira.NewRetryClient(
		jira.NewRESTClient(cfg.Jira.BaseURL, cfg.Jira.APIVersion, cfg.Email, cfg.Token),
		&jira.RetryConfig{
			MaxRetries:     cfg.Retry.MaxRetries,
			InitialBackoff: cfg.InitialBackoff(),
			MaxBackoff:     cfg.MaxBackoff(),
		},
	)

	syncer := syncengine.New(client, st)
	if outputFile != "" {
		writer, wErr := output.NewFileWriter(outputFile)
		if wErr != nil {
			return fmt.Errorf("failed to create output file: %w", wErr)
		}
		defer writer.Close()
		syncer.Writer = writer
	}

	notifier := healthcheck.New(cfg.HealthCheckURL)

	job := func(ctx context.Context) error {
		return runOnce(ctx, cfg, st, syncer, notifier)
	}

	if scheduleMins > 0 {
		interval := time.Duration(scheduleMins) * time.Minute
		fmt.Fprintf(os.Stderr, "Starting scheduled sync every %s\n", interval)
		err := schedule.Run(ctx, interval, os.Stderr, job)
		if errors.Is(err, context.Canceled) {
			// Interrupt during a scheduled loop is a clean shutdown.
			fmt.Fprintf(os.Stderr, "Sync schedule stopped\n")
			return nil
		}
		return err
	}

	return job(ctx)
}

// runOnce performs a single sync cycle: fetch and persist, record run
// metadata, then ping the health-check endpoint.
func runOnce(ctx context.Context, cfg *config.Config, st *store.Store, syncer *syncengine.Syncer, notifier *healthcheck.Notifier) error {
	fmt.Fprintf(os.Stderr, "Syncing project %s (last %d days) from %s...\n",
		cfg.Defaults.Project, cfg.Defaults.Days, cfg.Jira.BaseURL)

	if last, err := st.GetLastSyncTime(cfg.Defaults.Project); err == nil && !last.IsZero() {
		fmt.Fprintf(os.Stderr, "Previous successful sync: %s (%s ago)\n",
			last.Format(time.RFC3339), time.Since(last).Round(time.Second))
	}

	stats, err := syncer.Run(ctx, cfg.Defaults.Project, cfg.Defaults.Days, cfg.Defaults.PageSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Synced %d issues (%d new, %d updated, %d unchanged) in %d pages\n",
		stats.Fetched, stats.Inserted, stats.Updated, stats.Unchanged, stats.Pages)

	if err := saveRunMetadata(cfg, syncer); err != nil {
		// Metadata is an audit artifact; a failed write must not undo a
		// successful sync.
		fmt.Fprintf(os.Stderr, "Warning: failed to save run metadata: %v\n", err)
	}

	if notifier.Enabled() {
		if err := notifier.Ping(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return nil
}

// saveRunMetadata writes the per-run metadata JSON next to the database,
// linking it to the previous run when one exists.
func saveRunMetadata(cfg *config.Config, syncer *syncengine.Syncer) error {
	path := cfg.Defaults.Database + ".metadata.json"

	var previous *metadata.SyncRef
	if prev, err := metadata.LoadMetadata(path); err == nil && prev != nil {
		previous = &metadata.SyncRef{
			SyncID:      prev.SyncID,
			CompletedAt: prev.Results.CompletedAt,
		}
	}

	md := syncer.Tracker().GenerateMetadata(version.Version, metadata.SyncParams{
		BaseURL:  cfg.Jira.BaseURL,
		Project:  cfg.Defaults.Project,
		Days:     cfg.Defaults.Days,
		Database: cfg.Defaults.Database,
		PageSize: cfg.Defaults.PageSize,
	}, previous)

	return metadata.SaveMetadata(md, path)
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrMissingCredentials) ||
		errors.Is(err, relayerrors.ErrInvalidCredentials) ||
		errors.Is(err, relayerrors.ErrProjectNotFound) ||
		errors.Is(err, relayerrors.ErrRateLimit) {
		return 2 // Credential/configuration errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
