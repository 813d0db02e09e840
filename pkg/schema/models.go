// Package schema provides database models for the custody panel store.
// The store keeps each pipeline stage's output so later stages can run
// without re-reading the raw files.
package schema

import "time"

// PrisonRecord is a built prison registry row covering one continuous
// period of operation under one category configuration.
type PrisonRecord struct {
	ID    string `gorm:"primaryKey;type:uuid"`
	Name  string `gorm:"index;not null"`
	Start string `gorm:"not null"`
	End   string `gorm:"not null"`

	CatA         bool
	CatB         bool
	CatC         bool
	CatD         bool
	YOI          bool
	Male         bool
	Female       bool
	Mixed        bool
	FemaleOpen   bool
	FemaleClosed bool

	HighestCategoryMale   string
	HighestCategoryFemale string
	GroupKey              string `gorm:"index"`
	Notes                 string
}

// PanelRow is one merged prison-month observation.
type PanelRow struct {
	ID     uint   `gorm:"primaryKey;autoIncrement"`
	Prison string `gorm:"index:idx_panel_prison_month,unique"`
	Month  string `gorm:"index:idx_panel_prison_month,unique"`

	Population          float64
	InUseCNA            float64
	OperationalCapacity float64
	OccupancyPct        float64
	Status              string `gorm:"index"`

	NaturalCauses int
	SelfInflicted int
	Other         int
	TotalDeaths   int
}

// ProjectionRun records one bootstrap projection invocation and its
// tuning, so stored projections stay reproducible.
type ProjectionRun struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	TargetYear       int
	TargetPopulation float64
	Draws            int
	ValidDraws       int
	Attempts         int
	Alpha            float64
	Seed             int64
	CreatedAt        time.Time
}

// Projection is one cell of a projection run's output table.
type Projection struct {
	ID      uint   `gorm:"primaryKey;autoIncrement"`
	RunID   string `gorm:"index;type:uuid"`
	Group   string `gorm:"index"`
	Outcome string
	Median  float64
	Lower   float64
	Upper   float64
}
