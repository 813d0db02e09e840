package panel

import (
	"math"
	"sort"

	"github.com/custodymetrics/custodypanel/pkg/prison"
)

// MonthTotal is one month of the national time series: capacity metrics
// summed across all reporting prisons.
type MonthTotal struct {
	Month               prison.Month
	Prisons             int
	Population          float64
	InUseCNA            float64
	OperationalCapacity float64
}

// MonthlyTotals aggregates snapshots into a per-month national series.
// Rows with missing metrics are dropped rather than summed as zero, and
// months listed in exclude (YYYY-MM keys, known bad reporting months)
// are removed from the result.
func MonthlyTotals(snapshots []Snapshot, exclude []string) []MonthTotal {
	excluded := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		excluded[k] = true
	}

	byMonth := make(map[prison.Month]*MonthTotal)
	for _, s := range snapshots {
		if excluded[s.Month.Key()] {
			continue
		}
		if math.IsNaN(s.Population) || math.IsNaN(s.InUseCNA) ||
			math.IsNaN(s.OperationalCapacity) {
			continue
		}
		t := byMonth[s.Month]
		if t == nil {
			t = &MonthTotal{Month: s.Month}
			byMonth[s.Month] = t
		}
		t.Prisons++
		t.Population += s.Population
		t.InUseCNA += s.InUseCNA
		t.OperationalCapacity += s.OperationalCapacity
	}

	res := make([]MonthTotal, 0, len(byMonth))
	for _, t := range byMonth {
		res = append(res, *t)
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Month.Before(res[j].Month)
	})
	return res
}
