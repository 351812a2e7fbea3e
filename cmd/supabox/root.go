package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"supabox/internal/config"
	"supabox/internal/domain/entity"
	"supabox/internal/infra/rapidapi"
	"supabox/internal/observability/logging"
	eventsUC "supabox/internal/usecase/events"
)

// eventLister is the part of the events service the CLI needs.
type eventLister interface {
	List(ctx context.Context, sport entity.Sport) (*entity.Listing, error)
	ListAll(ctx context.Context) ([]*entity.Listing, error)
}

// serviceFactory builds the events service once flags are parsed.
type serviceFactory func(logger *slog.Logger) (eventLister, error)

func newRootCmd(build serviceFactory, stdout, stderr io.Writer) *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:           "supabox",
		Short:         "Your Combat Sports Hub in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	// ログは stderr、結果は stdout
	logger := func() *slog.Logger {
		return logging.NewTextLogger(stderr, logging.ParseLevel(logLevel))
	}

	root.AddCommand(newEventsCmd(build, logger), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the supabox version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println("supabox " + version)
		},
	}
}

// newEventService wires the same fetchers and normalizer the API server uses.
func newEventService(logger *slog.Logger) (eventLister, error) {
	cfg, err := config.LoadUpstreamConfig()
	if err != nil {
		return nil, err
	}

	client := rapidapi.NewClient(rapidapi.NewHTTPClient(cfg.Timeout), cfg.APIKey, cfg.RatePerSecond, cfg.Burst)
	boxing := rapidapi.NewBoxingFetcher(client, cfg.Boxing)
	mma := rapidapi.NewMMAFetcher(client, cfg.MMA, func() time.Time {
		return cfg.MMAScheduleDay(time.Now())
	})

	logger.Debug("upstream configured",
		slog.String("boxing_url", boxing.URL()),
		slog.String("mma_url", mma.URL(cfg.MMAScheduleDay(time.Now()))))

	return eventsUC.NewService(eventsUC.NewNormalizer(cfg.Location()), cfg.Timeout, boxing, mma), nil
}
