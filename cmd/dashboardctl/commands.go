package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/ictuniversity/erp-dashboard/internal/app"
	"github.com/ictuniversity/erp-dashboard/internal/core/domain"
	"github.com/ictuniversity/erp-dashboard/internal/core/ports"
	"github.com/ictuniversity/erp-dashboard/internal/core/service"
	"github.com/ictuniversity/erp-dashboard/internal/pkg/config"
	"github.com/ictuniversity/erp-dashboard/pkg/logger"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

type rootOptions struct {
	logLevel string
	role     string
	pretty   bool
}

type watchOptions struct {
	duration time.Duration
	interval time.Duration
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "dashboardctl",
		Short:         "Fetch and watch role dashboards from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	root.PersistentFlags().StringVar(&opts.role, "role", "", "role whose dashboard is fetched (required)")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent JSON output")
	_ = root.MarkPersistentFlagRequired("role")

	root.AddCommand(newSnapshotCmd(opts), newWatchCmd(opts))
	return root
}

// =============================================================================
// SNAPSHOT COMMAND
// =============================================================================

func newSnapshotCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch one dashboard snapshot, with retries, and print it as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadDashboardConfig(cmd.Context(), opts)
			if err != nil {
				return err
			}

			fetcher := app.NewRetryingFetcher(cfg, nil, log)
			snapshot, ferr := fetcher.FetchWithRetry(cmd.Context(), domain.Role(opts.role))
			if ferr != nil {
				return fmt.Errorf("fetch %s dashboard after %d attempt(s): %s", opts.role, ferr.Attempts, ferr.Message)
			}
			return writeJSON(cmd.OutOrStdout(), snapshot, opts.pretty)
		},
	}
}

// =============================================================================
// WATCH COMMAND
// =============================================================================

// stateLine is one published state as printed by watch.
type stateLine struct {
	Role        string                  `json:"role"`
	Status      string                  `json:"status"`
	Loading     bool                    `json:"loading"`
	IsStale     bool                    `json:"is_stale"`
	LastUpdated *time.Time              `json:"last_updated"`
	Error       *domain.ClassifiedError `json:"error"`
	Statistics  int                     `json:"statistics"`
	Activity    int                     `json:"activity"`
	Actions     int                     `json:"actions"`
}

func toStateLine(s ports.DashboardState) stateLine {
	line := stateLine{
		Role:        string(s.Role),
		Status:      string(s.Status),
		Loading:     s.Loading,
		IsStale:     s.IsStale,
		LastUpdated: s.LastUpdated,
		Error:       s.Error,
	}
	if s.Data != nil {
		line.Statistics = len(s.Data.Statistics)
		line.Activity = len(s.Data.Activity)
		line.Actions = len(s.Data.Actions)
	}
	return line
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	wopts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Mount a sync controller and print every published state as a JSON line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if wopts.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, wopts.duration)
				defer cancel()
			}
			return runWatch(ctx, cmd.OutOrStdout(), opts, wopts)
		},
	}
	cmd.Flags().DurationVar(&wopts.duration, "for", 0, "stop after this long (0 watches until interrupted)")
	cmd.Flags().DurationVar(&wopts.interval, "interval", 0, "override the role's refresh interval")
	return cmd
}

func runWatch(ctx context.Context, out io.Writer, opts *rootOptions, wopts *watchOptions) error {
	cfg, log, err := loadDashboardConfig(ctx, opts)
	if err != nil {
		return err
	}

	var syncOpts []service.SyncOption
	if wopts.interval > 0 {
		syncOpts = append(syncOpts, service.WithRefreshInterval(wopts.interval))
	}
	fetcher := app.NewRetryingFetcher(cfg, nil, log)
	ctrl := app.NewControllerFactory(cfg, fetcher, log, syncOpts...)(domain.Role(opts.role))
	defer ctrl.Close()

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	ctrl.Subscribe(func(s ports.DashboardState) {
		if err := enc.Encode(toStateLine(s)); err != nil {
			log.Warn().Err(err).Msg("write state")
		}
	})

	ctrl.Start(ctx)
	<-ctx.Done()
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func loadDashboardConfig(ctx context.Context, opts *rootOptions) (config.DashboardConfig, zerolog.Logger, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadFrom(ctx, envconfig.OsLookuper())
	if err != nil {
		return config.DashboardConfig{}, zerolog.Nop(), err
	}

	log := logger.Init(logger.Options{
		Level:   opts.logLevel,
		Pretty:  true,
		Output:  os.Stderr,
		Service: "dashboardctl",
	})
	return cfg.Dashboard, log, nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
