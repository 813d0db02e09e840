package bootstrap

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodymetrics/custodypanel/pkg/model"
	"github.com/custodymetrics/custodypanel/pkg/panel"
)

func testPanel() []PrisonYear {
	return []PrisonYear{
		{Prison: "A", Group: "B", Population: 800, OccupancyPct: 95},
		{Prison: "B", Group: "C", Population: 1000, OccupancyPct: 110},
		{Prison: "C", Group: "C+YOI", Population: 600, OccupancyPct: 85},
		{Prison: "D", Group: "Female_closed", Population: 400, OccupancyPct: 102},
	}
}

func testFits() []*model.Fit {
	return []*model.Fit{
		{
			Outcome: "natural",
			Coefficients: map[string]float64{
				"(Intercept)":   -7,
				"occupancy_pct": 0.01,
			},
		},
		{
			Outcome: "self_inflicted",
			Coefficients: map[string]float64{
				"(Intercept)": -8,
				"overcrowded": 0.4,
			},
		},
		{Outcome: "other", Err: "model did not converge"},
	}
}

func TestScalingRestoresOccupancy(t *testing.T) {
	// Rescaling population by k against a fixed implied capacity
	// multiplies occupancy by k, so k then 1/k is the identity.
	row := PrisonYear{Population: 850, OccupancyPct: 104.2}
	capacity := row.Population / (row.OccupancyPct / 100)

	k := 1.37
	scaled := row.Population * k
	occScaled := scaled / capacity * 100
	restored := (scaled * (1 / k)) / capacity * 100

	assert.InDelta(t, row.OccupancyPct*k, occScaled, 1e-9)
	assert.InDelta(t, row.OccupancyPct, restored, 1e-9)
}

func TestOneDrawGroupTotalConsistency(t *testing.T) {
	cfg := Config{TargetPopulation: 3000}.Norm(4)
	rng := rand.New(rand.NewSource(42))

	dr, ok := oneDraw(rng, testPanel(), testFits(), panel.DefaultBucketer(), cfg)
	require.True(t, ok)

	for outcome, total := range dr.Total {
		var sum float64
		for _, byOutcome := range dr.Deaths {
			sum += byOutcome[outcome]
		}
		assert.InDelta(t, total, sum, 1e-9, outcome)
	}
	assert.NotContains(t, dr.Total, "other", "failed fit must not predict")
}

func TestOneDrawDiscardsOnProblemShare(t *testing.T) {
	rows := []PrisonYear{
		{Prison: "A", Group: "B", Population: 800, OccupancyPct: 0},
		{Prison: "B", Group: "B", Population: 900, OccupancyPct: 0},
	}
	cfg := Config{TargetPopulation: 2000}.Norm(len(rows))
	rng := rand.New(rand.NewSource(1))

	_, ok := oneDraw(rng, rows, testFits(), panel.DefaultBucketer(), cfg)
	assert.False(t, ok)
}

func TestOneDrawDegenerateScaling(t *testing.T) {
	cfg := Config{TargetPopulation: -100}.Norm(4)
	rng := rand.New(rand.NewSource(1))

	_, ok := oneDraw(rng, testPanel(), testFits(), panel.DefaultBucketer(), cfg)
	assert.False(t, ok)
}

func TestRunDeterministicAcrossWorkers(t *testing.T) {
	cfg := Config{
		Draws:            50,
		TargetPopulation: 3000,
		Seed:             7,
	}

	cfg.Workers = 1
	seq, err := Run(context.Background(), testPanel(), testFits(), cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	par, err := Run(context.Background(), testPanel(), testFits(), cfg)
	require.NoError(t, err)

	assert.Equal(t, seq.Groups, par.Groups)
	assert.Equal(t, seq.Populations, par.Populations)
}

func TestRunSummaries(t *testing.T) {
	cfg := Config{
		Draws:            200,
		TargetPopulation: 3000,
		Seed:             11,
		Workers:          2,
	}

	res, err := Run(context.Background(), testPanel(), testFits(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 200, res.ValidDraws)
	assert.Equal(t, 200, res.Attempts)
	assert.Empty(t, res.Warnings)

	// The normalized tuning travels with the result so a stored run
	// can be reproduced.
	assert.Equal(t, 200, res.Draws)
	assert.InDelta(t, 0.05, res.Alpha, 1e-9)
	assert.Equal(t, int64(11), res.Seed)

	var sawTotal bool
	for _, g := range res.Groups {
		assert.LessOrEqual(t, g.Lower, g.Median, "%s/%s", g.Group, g.Outcome)
		assert.LessOrEqual(t, g.Median, g.Upper, "%s/%s", g.Group, g.Outcome)
		if g.Group == TotalLabel {
			sawTotal = true
		}
	}
	assert.True(t, sawTotal)

	last := res.Populations[len(res.Populations)-1]
	assert.Equal(t, TotalLabel, last.Group)
	assert.InDelta(t, 100, last.SharePct, 1e-9)
}

func TestRunExhaustedBudgetWarns(t *testing.T) {
	// A negative target makes every draw invalid.
	cfg := Config{
		Draws:            10,
		TargetPopulation: -1,
		Seed:             3,
		Workers:          1,
	}

	res, err := Run(context.Background(), testPanel(), testFits(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, res.ValidDraws)
	assert.Equal(t, 30, res.Attempts)
	require.Len(t, res.Warnings, 1)
}

func TestRunEmptyPanel(t *testing.T) {
	_, err := Run(context.Background(), nil, testFits(), Config{})
	assert.ErrorIs(t, err, ErrEmptyPanel)
}
