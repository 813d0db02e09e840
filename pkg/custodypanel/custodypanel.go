// Package custodypanel defines the interfaces the command layer works
// against. Implementations live under internal and touch the file
// system, the database and the terminal; everything here is pure
// contract.
package custodypanel

import (
	"context"

	"github.com/custodymetrics/custodypanel/pkg/bootstrap"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
)

var (
	// Version is set by build flags.
	Version = "dev"
	// Build is the build timestamp, set by build flags.
	Build = "n/a"
)

// RegistryBuilder loads the prison registry and its event log and
// produces the flattened record table for the study window.
type RegistryBuilder interface {
	// Build reads the registry files, applies lifecycle events in
	// chronological order, and returns validated records.
	Build(ctx context.Context) ([]prison.Record, *prison.BuildReport, error)
}

// PanelMerger joins the capacity and deaths tables into the monthly
// panel, one row per prison per month.
type PanelMerger interface {
	// Merge reads both input tables, classifies causes of death, and
	// left-joins death counts onto capacity snapshots.
	Merge(ctx context.Context) ([]panel.MergedRow, *panel.MergeReport, error)
}

// Store persists pipeline outputs between stages. It is idempotent to
// migrate and safe to reopen.
type Store interface {
	// Migrate creates or updates the schema.
	Migrate(ctx context.Context) error

	SavePrisons(ctx context.Context, records []prison.Record) error
	LoadPrisons(ctx context.Context) ([]prison.Record, error)

	SavePanel(ctx context.Context, rows []panel.MergedRow) error
	LoadPanel(ctx context.Context) ([]panel.MergedRow, error)

	// SaveProjection stores a completed run with its summaries.
	SaveProjection(ctx context.Context, runID string, targetYear int, res *bootstrap.Result) error

	Close() error
}
