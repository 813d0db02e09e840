package bootstrap

import (
	"math"
	"math/rand"

	"github.com/custodymetrics/custodypanel/pkg/model"
	"github.com/custodymetrics/custodypanel/pkg/panel"
)

// oneDraw runs a single bootstrap draw. It resamples the panel with
// replacement, rescales every sampled prison by one uniform factor so
// the draw's total population hits the target, recomputes occupancy
// against each prison's implied fixed capacity, and applies every
// usable fit. A draw whose scaling degenerates, or where problem rows
// exceed the configured share, is reported as invalid.
func oneDraw(
	rng *rand.Rand,
	rows []PrisonYear,
	fits []*model.Fit,
	b panel.Bucketer,
	cfg Config,
) (*DrawResult, bool) {
	n := cfg.SampleSize
	sampled := make([]*PrisonYear, n)
	var sumPop float64
	for i := 0; i < n; i++ {
		r := &rows[rng.Intn(len(rows))]
		sampled[i] = r
		sumPop += r.Population
	}

	k := cfg.TargetPopulation / sumPop
	if k <= 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, false
	}

	res := &DrawResult{
		Deaths:     make(map[string]map[string]float64),
		Population: make(map[string]float64),
		Total:      make(map[string]float64),
	}

	maxProblems := cfg.MaxProblemShare * float64(n)
	problems := 0
	for _, r := range sampled {
		// Capacity is implied by the historical pair and stays fixed;
		// only population moves.
		if r.OccupancyPct <= 0 || math.IsNaN(r.OccupancyPct) {
			problems++
			continue
		}
		capacity := r.Population / (r.OccupancyPct / 100)
		newPop := r.Population * k
		newOcc := newPop / capacity * 100

		cov := covariates(r.Group, newPop, newOcc, b)
		if !usableCovariates(cov) {
			problems++
			continue
		}
		resolve := func(name string) (float64, bool) {
			v, ok := cov[name]
			return v, ok
		}

		res.Population[r.Group] += newPop
		for _, f := range fits {
			if !f.Usable() {
				continue
			}
			pred := f.PredictAnnual(resolve)
			group := res.Deaths[r.Group]
			if group == nil {
				group = make(map[string]float64)
				res.Deaths[r.Group] = group
			}
			group[f.Outcome] += pred
			res.Total[f.Outcome] += pred
		}
	}
	if problems > int(maxProblems) {
		return nil, false
	}
	return res, true
}
