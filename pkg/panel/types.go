// Package panel merges monthly prison capacity snapshots with
// deaths-in-custody records into a panel with exactly one row per
// prison per month.
package panel

import (
	"math"
	"time"

	"github.com/custodymetrics/custodypanel/pkg/prison"
)

// Snapshot is one prison's capacity report for one month, with the
// derived occupancy percentage and overcrowding status.
type Snapshot struct {
	Prison              string
	Month               prison.Month
	Population          float64
	InUseCNA            float64
	OperationalCapacity float64
	OccupancyPct        float64
	Status              Status
}

// NewSnapshot derives occupancy and overcrowding status from the raw
// capacity figures. Occupancy percentage is population relative to
// in-use CNA (Certified Normal Accommodation), the baseline capacity
// denominator.
func NewSnapshot(
	name string,
	month prison.Month,
	population, inUseCNA, operationalCapacity float64,
	b Bucketer,
) Snapshot {
	res := Snapshot{
		Prison:              name,
		Month:               month,
		Population:          population,
		InUseCNA:            inUseCNA,
		OperationalCapacity: operationalCapacity,
	}
	if inUseCNA > 0 {
		res.OccupancyPct = population / inUseCNA * 100
	} else {
		res.OccupancyPct = math.NaN()
	}
	res.Status = b.Bucket(res.OccupancyPct)
	return res
}

// DeathRecord is one death-in-custody incident report. Incidents is the
// number of deaths the report covers, normally 1.
type DeathRecord struct {
	Prison    string
	Date      time.Time
	Cause     string
	Incidents int
}

// Month returns the calendar month the death falls into.
func (d *DeathRecord) Month() prison.Month {
	return prison.MonthOf(d.Date)
}

// Type classifies the free-text cause field.
func (d *DeathRecord) Type() DeathType {
	return ClassifyCause(d.Cause)
}

// MergedRow is a Snapshot joined with its death counts by classified
// type. Months with no matching death records carry zeros, never NA.
type MergedRow struct {
	Snapshot
	NaturalCauses int
	SelfInflicted int
	Other         int
	TotalDeaths   int
}
