package cmd

import (
	"context"
	"path/filepath"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"

	"github.com/custodymetrics/custodypanel/internal/ioprisons"
	"github.com/custodymetrics/custodypanel/internal/iostore"
	"github.com/custodymetrics/custodypanel/pkg/config"
)

// getPrisonsCmd returns the prisons command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPrisonsCmd() *cobra.Command {
	var outputDir string

	prisonsCmd := &cobra.Command{
		Use:   "prisons",
		Short: "Build the prison metadata table",
		Long: `Build the canonical prison table for the study window.

This command:
  1. Reads the prison registry (~/.config/custodypanel/prisons.yaml)
  2. Applies lifecycle events in chronological order
     (~/.config/custodypanel/events.yaml): openings, closures,
     reopenings and category changes
  3. Excludes sites that operated as immigration-removal centers
  4. Derives the highest male and female category per prison
  5. Validates that no prison has overlapping classification periods
  6. Writes the prison table CSV and saves it into the local store

Examples:
  # Build with the embedded registry
  custodypanel prisons

  # Edit the registry first, then rebuild
  $EDITOR ~/.config/custodypanel/prisons.yaml
  custodypanel prisons -o results/`,
		Aliases: []string{"registry"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPrisons(cmd, outputDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	prisonsCmd.Flags().StringVarP(
		&outputDir, "output", "o", ".",
		"directory for the prison table CSV",
	)

	return prisonsCmd
}

func runPrisons(cmd *cobra.Command, outputDir string) error {
	ctx := context.Background()

	cfg.Update([]config.Option{config.OptOutputDir(outputDir)})

	records, report, err := ioprisons.NewBuilder(cfg).Build(ctx)
	if err != nil {
		return err
	}

	outPath := filepath.Join(cfg.Paths.OutputDir, "prisons.csv")
	if err = ioprisons.WritePrisonsCSV(outPath, records); err != nil {
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
	if err = store.SavePrisons(ctx, records); err != nil {
		return err
	}

	gn.Info("Built <em>%d</em> prison records into %s",
		len(records), outPath)
	if len(report.Excluded) > 0 {
		gn.Info("Excluded %d immigration-removal centers",
			len(report.Excluded))
	}
	if len(report.Overlaps) > 0 {
		gn.Warn("<warn>Found %d overlapping classification periods</warn>",
			len(report.Overlaps))
	}
	return nil
}
