package cmd

import (
	"context"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/custodymetrics/custodypanel/internal/iopanel"
	"github.com/custodymetrics/custodypanel/internal/iostore"
	"github.com/custodymetrics/custodypanel/pkg/config"
)

// getMergeCmd returns the merge command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getMergeCmd() *cobra.Command {
	var (
		capacityFile string
		deathsFile   string
		outputDir    string
	)

	mergeCmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge capacity and deaths tables into the monthly panel",
		Long: `Join the monthly prison capacity table with the
deaths-in-custody reports into one panel, one row per prison per month.

This command:
  1. Reads the capacity CSV (Prison Name, Report_Date, Population,
     In Use CNA, Operational Capacity), skipping aggregate rows and
     immigration-removal centers
  2. Computes occupancy (population relative to in-use CNA) and the
     three-level overcrowding status
  3. Reads the deaths table (CSV or XLSX) and classifies the free-text
     cause into Natural causes, Self-inflicted or Other
  4. Left-joins monthly death counts onto the capacity snapshots;
     months without deaths get zeros
  5. Verifies one row per prison per month (violations are reported,
     never repaired silently)
  6. Writes the merged panel CSV and saves it into the local store

Examples:
  custodypanel merge -c capacity.csv -d deaths.xlsx -o results/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMerge(cmd, capacityFile, deathsFile, outputDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	mergeCmd.Flags().StringVarP(
		&capacityFile, "capacity", "c", "",
		"prison capacity CSV file (required)",
	)
	mergeCmd.Flags().StringVarP(
		&deathsFile, "deaths", "d", "",
		"deaths-in-custody file, CSV or XLSX (required)",
	)
	mergeCmd.Flags().StringVarP(
		&outputDir, "output", "o", ".",
		"directory for the merged panel CSV",
	)
	_ = mergeCmd.MarkFlagRequired("capacity")
	_ = mergeCmd.MarkFlagRequired("deaths")

	return mergeCmd
}

func runMerge(
	cmd *cobra.Command,
	capacityFile, deathsFile, outputDir string,
) error {
	ctx := context.Background()

	cfg.Update([]config.Option{
		config.OptCapacityFile(capacityFile),
		config.OptDeathsFile(deathsFile),
		config.OptOutputDir(outputDir),
	})

	rows, report, err := iopanel.NewMerger(cfg).Merge(ctx)
	if err != nil {
		return err
	}

	if report.OK() {
		gn.Info("Verified one row per prison per month")
	} else {
		gn.Warn("<warn>Found %d duplicate prison-month groups</warn>",
			report.DuplicateGroups)
	}
	if report.UnmatchedDeaths > 0 {
		gn.Warn(
			"<warn>%d death incidents have no matching panel month</warn>",
			report.UnmatchedDeaths,
		)
	}

	outPath := filepath.Join(cfg.Paths.OutputDir, "panel.csv")
	if err = iopanel.WriteMergedCSV(outPath, rows); err != nil {
		return err
	}

	store, err := iostore.New(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err = store.Migrate(ctx); err != nil {
		return err
	}
	if err = store.SavePanel(ctx, rows); err != nil {
		return err
	}

	gn.Info("Merged <em>%d</em> prison-month rows into %s",
		len(rows), outPath)
	return nil
}
