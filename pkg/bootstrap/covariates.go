package bootstrap

import (
	"math"

	"github.com/custodymetrics/custodypanel/pkg/panel"
)

// Covariates are keyed by the coefficient names of the fitted models.
// Category groups enter as dummy indicators and as occupancy
// interaction terms so the fitted occupancy slope can vary by group.
func covariates(group string, population, occupancyPct float64, b panel.Bucketer) map[string]float64 {
	overcrowded := 0.0
	if occupancyPct > b.High {
		overcrowded = 1
	}
	atCapacity := 0.0
	if occupancyPct > b.Low && occupancyPct <= b.High {
		atCapacity = 1
	}
	return map[string]float64{
		"population":    population,
		"occupancy_pct": occupancyPct,
		"overcrowded":   overcrowded,
		"at_capacity":   atCapacity,

		"prison_type=" + group:               1,
		"occupancy_pct:prison_type=" + group: occupancyPct,
		"overcrowded:prison_type=" + group:   overcrowded,
	}
}

func usableCovariates(m map[string]float64) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
