// Package bootstrap projects expected annual deaths in custody onto a
// target future population. It resamples the historical prison panel
// with replacement, rescales each resample to the target population,
// reapplies the fitted rate models, and reduces the draws into median
// projections with empirical confidence intervals.
package bootstrap

import (
	"fmt"
	"runtime"
)

// TotalLabel is the synthetic group summing all category groups. Its
// quantiles come from per-draw joint totals, never from adding up
// already-summarized group medians.
const TotalLabel = "TOTAL"

// PrisonYear is one historical panel row entering the resampling pool:
// a prison with its category group, population and occupancy.
type PrisonYear struct {
	Prison       string
	Group        string
	Population   float64
	OccupancyPct float64
}

// Config tunes one projection run.
type Config struct {
	// Draws is the number of valid bootstrap draws to collect.
	Draws int
	// SampleSize is the number of prisons resampled per draw. Zero
	// means the full panel size.
	SampleSize int
	// TargetPopulation is the future total population each draw is
	// rescaled to.
	TargetPopulation float64
	// Alpha sets the confidence interval width, 0.05 for 95%.
	Alpha float64
	// MaxProblemShare is the fraction of rows in a draw allowed to
	// produce unusable covariates before the whole draw is discarded.
	MaxProblemShare float64
	// AttemptFactor bounds total attempts at AttemptFactor times Draws.
	AttemptFactor int
	Seed          int64
	Workers       int

	// OnDraw, when set, is called after every attempt with the running
	// valid-draw count, e.g. to advance a progress bar.
	OnDraw func(valid int)
}

// Norm fills zero fields with defaults and returns the result.
func (c Config) Norm(panelSize int) Config {
	if c.Draws <= 0 {
		c.Draws = 1000
	}
	if c.SampleSize <= 0 {
		c.SampleSize = panelSize
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		c.Alpha = 0.05
	}
	if c.MaxProblemShare <= 0 {
		c.MaxProblemShare = 0.2
	}
	if c.AttemptFactor <= 0 {
		c.AttemptFactor = 3
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	return c
}

// DrawResult holds one valid draw's accumulated predictions.
type DrawResult struct {
	// attempt orders draws for deterministic reduction.
	attempt int
	// Deaths maps group then outcome to the draw's predicted annual
	// deaths.
	Deaths map[string]map[string]float64
	// Population maps group to the draw's rescaled population.
	Population map[string]float64
	// Total maps outcome to the draw's joint total across groups.
	Total map[string]float64
}

// GroupSummary is one cell of the projection table: a group and
// outcome with its median projection and confidence interval.
type GroupSummary struct {
	Group   string
	Outcome string
	Median  float64
	Lower   float64
	Upper   float64
}

// PopulationSummary is a group's median rescaled population and its
// share of the target total.
type PopulationSummary struct {
	Group    string
	Median   float64
	SharePct float64
}

// Result is a completed projection run. Draws, Alpha and Seed echo the
// normalized configuration so a stored run can be reproduced.
type Result struct {
	ValidDraws       int
	Attempts         int
	Draws            int
	Alpha            float64
	Seed             int64
	TargetPopulation float64
	Groups           []GroupSummary
	Populations      []PopulationSummary
	Warnings         []string
}

func lowSampleWarning(valid, target int) string {
	return fmt.Sprintf(
		"collected %d of %d requested draws before exhausting the attempt budget",
		valid, target,
	)
}
