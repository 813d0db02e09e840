package cmd

import (
	"context"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/custodymetrics/custodypanel/internal/iopanel"
	"github.com/custodymetrics/custodypanel/internal/iostore"
	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/summary"
)

// getSummarizeCmd returns the summarize command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSummarizeCmd() *cobra.Command {
	var outputDir string

	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Tabulate deaths by overcrowding status and cause",
		Long: `Collapse the merged panel into the descriptive tables.

This command:
  1. Loads the merged panel from the local store (run merge first)
  2. Tabulates prison-months, deaths, summed population and the
     death rate per 1000 prisoners per overcrowding status
  3. Breaks deaths down by cause within each status, with rates and
     shares of each status's deaths
  4. Derives crude rate ratios against the below-capacity bucket
  5. Builds the national monthly population series, skipping
     configured bad-reporting months
  6. Computes the capacity headline for the latest month
  7. Writes everything into one summary workbook

Examples:
  custodypanel summarize -o results/`,
		Aliases: []string{"tables"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSummarize(cmd, outputDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	summarizeCmd.Flags().StringVarP(
		&outputDir, "output", "o", ".",
		"directory for the summary workbook",
	)

	return summarizeCmd
}

func runSummarize(cmd *cobra.Command, outputDir string) error {
	ctx := context.Background()

	cfg.Update([]config.Option{config.OptOutputDir(outputDir)})

	store, err := iostore.New(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	rows, err := store.LoadPanel(ctx)
	if err != nil {
		return err
	}

	b := panel.Bucketer{
		Low:  cfg.Merge.BucketLow,
		High: cfg.Merge.BucketHigh,
	}

	byStatus := summary.ByStatus(rows, b)
	byType := summary.ByDeathType(rows, b)
	ratios := summary.RateRatios(byStatus)

	snapshots := make([]panel.Snapshot, len(rows))
	for i := range rows {
		snapshots[i] = rows[i].Snapshot
	}
	totals := panel.MonthlyTotals(snapshots, cfg.Merge.ExcludeMonths)

	headline := latestHeadline(snapshots, b)

	outPath := filepath.Join(cfg.Paths.OutputDir, "summary.xlsx")
	err = iopanel.WriteSummaryXLSX(
		outPath, byStatus, byType, ratios, totals, headline)
	if err != nil {
		return err
	}

	gn.Info("Wrote summary tables to <em>%s</em>", outPath)
	gn.Info("System occupancy in %s: <em>%.1f%%</em> "+
		"(%d of %d prisons overcrowded)",
		headline.Month, headline.SystemOccupancyPct,
		headline.OvercrowdedPrisons, headline.Prisons)
	return nil
}

// latestHeadline reduces the panel to its last month's snapshots before
// computing the headline.
func latestHeadline(
	snapshots []panel.Snapshot,
	b panel.Bucketer,
) summary.Headline {
	var last string
	for i := range snapshots {
		if snapshots[i].Status == "" {
			continue
		}
		if k := snapshots[i].Month.Key(); k > last {
			last = k
		}
	}
	var latest []panel.Snapshot
	for i := range snapshots {
		if snapshots[i].Month.Key() == last {
			latest = append(latest, snapshots[i])
		}
	}
	return summary.CapacityHeadline(latest, b)
}
