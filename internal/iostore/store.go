// Package iostore persists pipeline outputs in a local SQLite file so
// the summarize and project phases can run without re-reading the raw
// tables.
package iostore

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/custodymetrics/custodypanel/pkg/bootstrap"
	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/custodypanel"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
	"github.com/custodymetrics/custodypanel/pkg/schema"
)

type store struct {
	db *gorm.DB
}

// New opens (creating if needed) the SQLite store at the configured
// path.
func New(cfg *config.Config) (custodypanel.Store, error) {
	path := cfg.Store.DatabaseFile
	if path == "" {
		path = config.DatabaseFilePath(cfg.HomeDir)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, OpenError(path, err)
	}
	slog.Debug("Opened store", "path", path)
	return &store{db: db}, nil
}

func (s *store) Migrate(ctx context.Context) error {
	if err := schema.Migrate(s.db.WithContext(ctx)); err != nil {
		return MigrateError(err)
	}
	return nil
}

func (s *store) SavePrisons(
	ctx context.Context, records []prison.Record,
) error {
	rows := make([]schema.PrisonRecord, len(records))
	for i, r := range records {
		rows[i] = schema.PrisonRecord{
			ID:                    r.ID,
			Name:                  r.Name,
			Start:                 r.Start.String(),
			End:                   r.End.String(),
			CatA:                  r.A,
			CatB:                  r.B,
			CatC:                  r.C,
			CatD:                  r.D,
			YOI:                   r.YOI,
			Male:                  r.Male,
			Female:                r.Female,
			Mixed:                 r.Mixed,
			FemaleOpen:            r.FemaleOpen,
			FemaleClosed:          r.FemaleClosed,
			HighestCategoryMale:   r.HighestCategoryMale,
			HighestCategoryFemale: r.HighestCategoryFemale,
			GroupKey:              r.GroupKey(),
			Notes:                 r.Notes,
		}
	}

	db := s.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&schema.PrisonRecord{}).Error; err != nil {
		return SaveError("prisons", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if err := db.CreateInBatches(rows, 500).Error; err != nil {
		return SaveError("prisons", err)
	}
	return nil
}

func (s *store) LoadPrisons(ctx context.Context) ([]prison.Record, error) {
	var rows []schema.PrisonRecord
	err := s.db.WithContext(ctx).
		Order("name, start").Find(&rows).Error
	if err != nil {
		return nil, LoadError("prisons", err)
	}
	if len(rows) == 0 {
		return nil, EmptyError("prisons")
	}

	res := make([]prison.Record, len(rows))
	for i, r := range rows {
		start, err := prison.ParseMonth(r.Start)
		if err != nil {
			return nil, LoadError("prisons", err)
		}
		end, err := prison.ParseMonth(r.End)
		if err != nil {
			return nil, LoadError("prisons", err)
		}
		res[i] = prison.Record{
			ID:    r.ID,
			Name:  r.Name,
			Start: start,
			End:   end,
			Flags: prison.Flags{
				A:            r.CatA,
				B:            r.CatB,
				C:            r.CatC,
				D:            r.CatD,
				YOI:          r.YOI,
				Male:         r.Male,
				Female:       r.Female,
				Mixed:        r.Mixed,
				FemaleOpen:   r.FemaleOpen,
				FemaleClosed: r.FemaleClosed,
			},
			Notes:                 r.Notes,
			HighestCategoryMale:   r.HighestCategoryMale,
			HighestCategoryFemale: r.HighestCategoryFemale,
		}
	}
	return res, nil
}

func (s *store) SavePanel(ctx context.Context, rows []panel.MergedRow) error {
	out := make([]schema.PanelRow, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = schema.PanelRow{
			Prison:              r.Prison,
			Month:               r.Month.Key(),
			Population:          r.Population,
			InUseCNA:            r.InUseCNA,
			OperationalCapacity: r.OperationalCapacity,
			OccupancyPct:        r.OccupancyPct,
			Status:              string(r.Status),
			NaturalCauses:       r.NaturalCauses,
			SelfInflicted:       r.SelfInflicted,
			Other:               r.Other,
			TotalDeaths:         r.TotalDeaths,
		}
	}

	db := s.db.WithContext(ctx)
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&schema.PanelRow{}).Error; err != nil {
		return SaveError("panel", err)
	}
	if len(out) == 0 {
		return nil
	}
	if err := db.CreateInBatches(out, 500).Error; err != nil {
		return SaveError("panel", err)
	}
	return nil
}

func (s *store) LoadPanel(ctx context.Context) ([]panel.MergedRow, error) {
	var rows []schema.PanelRow
	err := s.db.WithContext(ctx).
		Order("prison, month").Find(&rows).Error
	if err != nil {
		return nil, LoadError("panel", err)
	}
	if len(rows) == 0 {
		return nil, EmptyError("panel")
	}

	res := make([]panel.MergedRow, len(rows))
	for i, r := range rows {
		m, err := prison.ParseMonthKey(r.Month)
		if err != nil {
			return nil, LoadError("panel", err)
		}
		res[i] = panel.MergedRow{
			Snapshot: panel.Snapshot{
				Prison:              r.Prison,
				Month:               m,
				Population:          r.Population,
				InUseCNA:            r.InUseCNA,
				OperationalCapacity: r.OperationalCapacity,
				OccupancyPct:        r.OccupancyPct,
				Status:              panel.Status(r.Status),
			},
			NaturalCauses: r.NaturalCauses,
			SelfInflicted: r.SelfInflicted,
			Other:         r.Other,
			TotalDeaths:   r.TotalDeaths,
		}
	}
	return res, nil
}

func (s *store) SaveProjection(
	ctx context.Context,
	runID string,
	targetYear int,
	res *bootstrap.Result,
) error {
	run := schema.ProjectionRun{
		ID:               runID,
		TargetYear:       targetYear,
		TargetPopulation: res.TargetPopulation,
		Draws:            res.Draws,
		ValidDraws:       res.ValidDraws,
		Attempts:         res.Attempts,
		Alpha:            res.Alpha,
		Seed:             res.Seed,
		CreatedAt:        time.Now(),
	}
	cells := make([]schema.Projection, len(res.Groups))
	for i, g := range res.Groups {
		cells[i] = schema.Projection{
			RunID:   runID,
			Group:   g.Group,
			Outcome: g.Outcome,
			Median:  g.Median,
			Lower:   g.Lower,
			Upper:   g.Upper,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return SaveError("projection run", err)
		}
		if len(cells) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(cells, 500).Error; err != nil {
			return SaveError("projections", err)
		}
		return nil
	})
}

func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
