// Package ioproject orchestrates a projection run: it assembles the
// resampling pool from the store, loads the fitted coefficient table,
// runs the bootstrap and writes and stores the results.
package ioproject

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/google/uuid"

	"github.com/custodymetrics/custodypanel/internal/iopanel"
	"github.com/custodymetrics/custodypanel/pkg/bootstrap"
	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/custodypanel"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
)

type projector struct {
	cfg   *config.Config
	store custodypanel.Store
}

// New returns a projector bound to the given store.
func New(cfg *config.Config, store custodypanel.Store) *projector {
	return &projector{cfg: cfg, store: store}
}

// Project runs one bootstrap projection for the configured target year
// and population, writes the projection workbook into the output
// directory and records the run in the store.
func (p *projector) Project(ctx context.Context) (*bootstrap.Result, error) {
	start := time.Now()

	rows, err := p.store.LoadPanel(ctx)
	if err != nil {
		return nil, err
	}
	records, err := p.store.LoadPrisons(ctx)
	if err != nil {
		return nil, err
	}
	fits, err := iopanel.ReadFits(p.cfg.Paths.FitsFile)
	if err != nil {
		return nil, err
	}

	pool := buildPool(rows, records)
	slog.Info("Assembled resampling pool",
		"prisons", len(pool),
		"panel_rows", humanize.Comma(int64(len(rows))))

	bcfg := bootstrap.Config{
		Draws:            p.cfg.Bootstrap.Draws,
		SampleSize:       p.cfg.Bootstrap.SampleSize,
		TargetPopulation: p.cfg.Bootstrap.TargetPopulation,
		Alpha:            p.cfg.Bootstrap.Alpha,
		MaxProblemShare:  p.cfg.Bootstrap.MaxProblemShare,
		AttemptFactor:    p.cfg.Bootstrap.AttemptFactor,
		Seed:             p.cfg.Bootstrap.Seed,
		Workers:          p.cfg.JobsNumber,
	}
	if bcfg.Seed == 0 {
		bcfg.Seed = time.Now().UnixNano()
	}
	bcfg = bcfg.Norm(len(pool))

	bar := pb.Full.Start(bcfg.Draws)
	bar.Set(pb.CleanOnFinish, true)
	bcfg.OnDraw = func(valid int) {
		bar.SetCurrent(int64(valid))
	}

	res, err := bootstrap.Run(ctx, pool, fits, bcfg)
	bar.Finish()
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	targetYear := p.cfg.Bootstrap.TargetYear
	if err := p.store.SaveProjection(ctx, runID, targetYear, res); err != nil {
		return nil, err
	}

	outPath := filepath.Join(
		p.cfg.Paths.OutputDir,
		fmt.Sprintf("projection_%d.xlsx", targetYear),
	)
	if err := iopanel.WriteProjectionXLSX(outPath, targetYear, res); err != nil {
		return nil, err
	}

	slog.Info("Projection finished",
		"run_id", runID,
		"target_year", targetYear,
		"valid_draws", humanize.Comma(int64(res.ValidDraws)),
		"attempts", humanize.Comma(int64(res.Attempts)),
		"output", outPath,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()))
	return res, nil
}

// buildPool condenses the panel into one resampling row per prison: its
// most recent month with a usable occupancy, tagged with the category
// group of the prison record active in that month.
func buildPool(
	rows []panel.MergedRow,
	records []prison.Record,
) []bootstrap.PrisonYear {
	latest := make(map[string]*panel.MergedRow)
	order := make([]string, 0, len(latest))
	for i := range rows {
		r := &rows[i]
		if r.Status == "" {
			continue
		}
		prev, ok := latest[r.Prison]
		if !ok {
			order = append(order, r.Prison)
		}
		if !ok || r.Month.After(prev.Month) {
			latest[r.Prison] = r
		}
	}

	res := make([]bootstrap.PrisonYear, 0, len(latest))
	for _, name := range order {
		r := latest[name]
		group := "Other"
		if rec, ok := prison.ActiveAt(records, r.Month)[name]; ok {
			group = rec.GroupKey()
		}
		res = append(res, bootstrap.PrisonYear{
			Prison:       name,
			Group:        group,
			Population:   r.Population,
			OccupancyPct: r.OccupancyPct,
		})
	}
	return res
}
