package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"supabox/internal/domain/entity"
	"supabox/internal/observability/logging"
)

const sportAll = "all"

// errFetchFailed marks a failure already rendered for the user.
var errFetchFailed = errors.New("fetch failed")

func newEventsCmd(build serviceFactory, logger func() *slog.Logger) *cobra.Command {
	var (
		sportFlag string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List upcoming boxing or MMA events",
		Long: `List upcoming events for one sport (boxing, mma) or both (all).

The RapidAPI key is read from RAPIDAPI_KEY, optionally via a .env file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output = strings.ToLower(strings.TrimSpace(output))
			if output != "table" && output != "json" {
				return fmt.Errorf("unknown output %q (want table or json)", output)
			}

			var sports []entity.Sport
			if strings.EqualFold(strings.TrimSpace(sportFlag), sportAll) {
				sports = entity.Sports
			} else {
				sport, err := entity.ParseSport(sportFlag)
				if err != nil {
					return err
				}
				sports = []entity.Sport{sport}
			}

			log := logger()
			svc, err := build(log)
			if err != nil {
				return fmt.Errorf("configure upstream: %w", err)
			}

			ctx := logging.WithLogger(cmd.Context(), log)

			// 取得中の表示は stderr（stdout はパイプ用）
			for _, sport := range sports {
				fmt.Fprintln(cmd.ErrOrStderr(), sport.LoadingMessage())
			}

			var listings []*entity.Listing
			if len(sports) == 1 {
				listing, err := svc.List(ctx, sports[0])
				if err != nil {
					renderError(cmd.OutOrStdout(), sports[0], err)
					return errFetchFailed
				}
				listings = []*entity.Listing{listing}
			} else {
				listings, err = svc.ListAll(ctx)
				if err != nil {
					renderError(cmd.OutOrStdout(), "", err)
					return errFetchFailed
				}
			}

			if output == "json" {
				return renderJSON(cmd.OutOrStdout(), listings)
			}
			for _, l := range listings {
				renderTable(cmd.OutOrStdout(), l)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&sportFlag, "sport", "s", string(entity.SportBoxing), "sport to list: boxing, mma or all")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table or json")
	return cmd
}
