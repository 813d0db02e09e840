// Package summary collapses the merged prison panel into the
// descriptive tables reported from it: deaths by overcrowding status,
// deaths by cause within status, and a headline capacity figure.
package summary

import (
	"sort"

	"github.com/custodymetrics/custodypanel/pkg/panel"
)

// StatusRow aggregates panel rows sharing one overcrowding status.
type StatusRow struct {
	Status       panel.Status
	PrisonMonths int
	Deaths       int
	// Population is the sum of monthly populations over the group's
	// prison-months, the exposure denominator for the death rate.
	Population float64
	// DeathsPer1000 is deaths per 1000 prisoners of summed monthly
	// population.
	DeathsPer1000 float64
	// PercentOfPrisonMonths is the group's share of all bucketed
	// prison-months.
	PercentOfPrisonMonths float64
}

// DeathTypeRow is one cell of the status by cause-of-death table.
type DeathTypeRow struct {
	Status panel.Status
	Type   panel.DeathType
	Deaths int
	// RatePer1000 is deaths of this cause per 1000 prisoners of the
	// status group's summed population.
	RatePer1000 float64
	// PercentOfDeaths is this cause's share of the status group's
	// deaths.
	PercentOfDeaths float64
}

// Headline captures the system-wide occupancy picture for one month,
// usually the last month of the study window.
type Headline struct {
	Month               string
	Prisons             int
	Population          float64
	InUseCNA            float64
	SystemOccupancyPct  float64
	OvercrowdedPrisons  int
	OvercrowdedSharePct float64
}

// TotalLabel marks the all-statuses row appended to grouped tables.
const TotalLabel = panel.Status("Total")

// ByStatus tabulates prison-months and deaths per overcrowding status,
// ending with a Total row. Rows whose status is empty (no usable
// capacity figures) are dropped from the table.
func ByStatus(rows []panel.MergedRow, b panel.Bucketer) []StatusRow {
	counts := make(map[panel.Status]*StatusRow)
	for _, st := range b.Statuses() {
		counts[st] = &StatusRow{Status: st}
	}

	total := StatusRow{Status: TotalLabel}
	for i := range rows {
		r := &rows[i]
		c, ok := counts[r.Status]
		if !ok {
			continue
		}
		c.PrisonMonths++
		c.Deaths += r.TotalDeaths
		c.Population += r.Population
		total.PrisonMonths++
		total.Deaths += r.TotalDeaths
		total.Population += r.Population
	}

	res := make([]StatusRow, 0, len(counts)+1)
	for _, st := range b.Statuses() {
		c := counts[st]
		c.DeathsPer1000 = ratePer1000(c.Deaths, c.Population)
		c.PercentOfPrisonMonths = percent(
			float64(c.PrisonMonths), float64(total.PrisonMonths))
		res = append(res, *c)
	}
	total.DeathsPer1000 = ratePer1000(total.Deaths, total.Population)
	if total.PrisonMonths > 0 {
		total.PercentOfPrisonMonths = 100
	}
	res = append(res, total)
	return res
}

// ByDeathType breaks deaths down by cause within each overcrowding
// status, with a per-type Total block at the end.
func ByDeathType(rows []panel.MergedRow, b panel.Bucketer) []DeathTypeRow {
	types := []panel.DeathType{
		panel.DeathNatural,
		panel.DeathSelfInflicted,
		panel.DeathOther,
	}

	counts := make(map[panel.Status]map[panel.DeathType]int)
	populations := make(map[panel.Status]float64)
	totalDeaths := make(map[panel.Status]int)
	statuses := append(b.Statuses(), TotalLabel)
	for _, st := range statuses {
		counts[st] = make(map[panel.DeathType]int)
	}

	for i := range rows {
		r := &rows[i]
		if _, ok := counts[r.Status]; !ok {
			continue
		}
		add := func(st panel.Status) {
			counts[st][panel.DeathNatural] += r.NaturalCauses
			counts[st][panel.DeathSelfInflicted] += r.SelfInflicted
			counts[st][panel.DeathOther] += r.Other
			populations[st] += r.Population
			totalDeaths[st] += r.TotalDeaths
		}
		add(r.Status)
		add(TotalLabel)
	}

	res := make([]DeathTypeRow, 0, len(statuses)*len(types))
	for _, st := range statuses {
		for _, tp := range types {
			n := counts[st][tp]
			res = append(res, DeathTypeRow{
				Status:      st,
				Type:        tp,
				Deaths:      n,
				RatePer1000: ratePer1000(n, populations[st]),
				PercentOfDeaths: percent(
					float64(n), float64(totalDeaths[st])),
			})
		}
	}
	return res
}

// CapacityHeadline summarizes the per-prison snapshots of a single
// month: total population against total in-use CNA, and how many
// prisons sit in the overcrowded bucket. Snapshots with unusable
// capacity figures are skipped.
func CapacityHeadline(
	snapshots []panel.Snapshot,
	b panel.Bucketer,
) Headline {
	var res Headline
	months := make(map[string]struct{})
	for i := range snapshots {
		s := &snapshots[i]
		if s.Status == "" {
			continue
		}
		months[s.Month.Key()] = struct{}{}
		res.Prisons++
		res.Population += s.Population
		res.InUseCNA += s.InUseCNA
		if s.Status == b.Over() {
			res.OvercrowdedPrisons++
		}
	}
	if len(months) > 0 {
		keys := make([]string, 0, len(months))
		for k := range months {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		res.Month = keys[len(keys)-1]
	}
	if res.InUseCNA > 0 {
		res.SystemOccupancyPct = res.Population / res.InUseCNA * 100
	}
	if res.Prisons > 0 {
		res.OvercrowdedSharePct =
			float64(res.OvercrowdedPrisons) / float64(res.Prisons) * 100
	}
	return res
}

func ratePer1000(deaths int, population float64) float64 {
	if population <= 0 {
		return 0
	}
	return float64(deaths) / population * 1000
}

func percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
