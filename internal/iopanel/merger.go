package iopanel

import (
	"context"
	"log/slog"

	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/custodypanel"
	"github.com/custodymetrics/custodypanel/pkg/panel"
)

type merger struct {
	cfg *config.Config
}

// NewMerger returns a PanelMerger reading the capacity and deaths
// files named in the configuration.
func NewMerger(cfg *config.Config) custodypanel.PanelMerger {
	return &merger{cfg: cfg}
}

func (m *merger) Merge(
	ctx context.Context,
) ([]panel.MergedRow, *panel.MergeReport, error) {
	b := panel.Bucketer{
		Low:  m.cfg.Merge.BucketLow,
		High: m.cfg.Merge.BucketHigh,
	}

	snapshots, err := ReadCapacityCSV(m.cfg.Paths.CapacityFile, b)
	if err != nil {
		return nil, nil, err
	}
	deaths, err := ReadDeaths(m.cfg.Paths.DeathsFile)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Merging capacity and deaths tables",
		"snapshots", len(snapshots), "deaths", len(deaths))

	rows, report := panel.Merge(snapshots, deaths)
	return rows, report, nil
}
