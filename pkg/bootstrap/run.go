package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/custodymetrics/custodypanel/pkg/model"
	"github.com/custodymetrics/custodypanel/pkg/panel"
)

var ErrEmptyPanel = errors.New("projection panel is empty")

// Run executes a full projection: it collects valid draws until the
// configured count or the attempt budget is reached, then reduces them
// into per-group medians and confidence intervals.
//
// Attempts are numbered and each owns its own RNG seeded from the run
// seed plus the attempt index, so results are identical for any worker
// count.
func Run(
	ctx context.Context,
	rows []PrisonYear,
	fits []*model.Fit,
	cfg Config,
) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyPanel
	}
	cfg = cfg.Norm(len(rows))
	b := panel.DefaultBucketer()

	maxAttempts := cfg.AttemptFactor * cfg.Draws
	var (
		mu       sync.Mutex
		valid    []*DrawResult
		attempts int
	)

	// Attempts run in waves so extra draws are only spent replacing
	// discarded ones.
	next := 0
	for len(valid) < cfg.Draws && next < maxAttempts {
		need := cfg.Draws - len(valid)
		if next+need > maxAttempts {
			need = maxAttempts - next
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Workers)
		for i := 0; i < need; i++ {
			attempt := next + i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewSource(cfg.Seed + int64(attempt)))
				dr, ok := oneDraw(rng, rows, fits, b, cfg)
				mu.Lock()
				attempts++
				if ok {
					dr.attempt = attempt
					valid = append(valid, dr)
				}
				n := len(valid)
				mu.Unlock()
				if cfg.OnDraw != nil {
					cfg.OnDraw(n)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		next += need
	}

	// Worker scheduling must not leak into the quantiles.
	sort.Slice(valid, func(i, j int) bool {
		return valid[i].attempt < valid[j].attempt
	})
	if len(valid) > cfg.Draws {
		valid = valid[:cfg.Draws]
	}

	res := reduce(valid, cfg)
	res.Attempts = attempts
	res.Draws = cfg.Draws
	res.Alpha = cfg.Alpha
	res.Seed = cfg.Seed
	if res.ValidDraws < cfg.Draws {
		w := lowSampleWarning(res.ValidDraws, cfg.Draws)
		res.Warnings = append(res.Warnings, w)
		slog.Warn("Bootstrap attempt budget exhausted",
			"valid_draws", res.ValidDraws, "requested", cfg.Draws,
			"attempts", attempts)
	}
	return res, nil
}

// reduce collapses valid draws into the projection summaries. A group
// absent from a draw contributes zero to that draw, keeping every
// group's quantiles on the same number of observations.
func reduce(draws []*DrawResult, cfg Config) *Result {
	res := &Result{
		ValidDraws:       len(draws),
		TargetPopulation: cfg.TargetPopulation,
	}
	if len(draws) == 0 {
		return res
	}

	groupSet := make(map[string]struct{})
	outcomeSet := make(map[string]struct{})
	for _, d := range draws {
		for g, byOutcome := range d.Deaths {
			groupSet[g] = struct{}{}
			for o := range byOutcome {
				outcomeSet[o] = struct{}{}
			}
		}
	}
	groups := sortedKeys(groupSet)
	outcomes := sortedKeys(outcomeSet)

	lo, hi := cfg.Alpha/2, 1-cfg.Alpha/2
	xs := make([]float64, len(draws))

	for _, g := range groups {
		for _, o := range outcomes {
			for i, d := range draws {
				xs[i] = d.Deaths[g][o]
			}
			med, l, u := quantiles(xs, lo, hi)
			res.Groups = append(res.Groups, GroupSummary{
				Group: g, Outcome: o, Median: med, Lower: l, Upper: u,
			})
		}
	}
	for _, o := range outcomes {
		for i, d := range draws {
			xs[i] = d.Total[o]
		}
		med, l, u := quantiles(xs, lo, hi)
		res.Groups = append(res.Groups, GroupSummary{
			Group: TotalLabel, Outcome: o, Median: med, Lower: l, Upper: u,
		})
	}

	var totalPop float64
	pops := make([]PopulationSummary, 0, len(groups)+1)
	for _, g := range groups {
		for i, d := range draws {
			xs[i] = d.Population[g]
		}
		med, _, _ := quantiles(xs, lo, hi)
		totalPop += med
		pops = append(pops, PopulationSummary{Group: g, Median: med})
	}
	for i := range pops {
		if totalPop > 0 {
			pops[i].SharePct = pops[i].Median / totalPop * 100
		}
	}
	pops = append(pops, PopulationSummary{
		Group: TotalLabel, Median: totalPop, SharePct: 100,
	})
	res.Populations = pops
	return res
}

// quantiles returns the median and the [lo, hi] empirical quantiles.
// The input slice is sorted in place.
func quantiles(xs []float64, lo, hi float64) (med, lower, upper float64) {
	sort.Float64s(xs)
	med = stat.Quantile(0.5, stat.Empirical, xs, nil)
	lower = stat.Quantile(lo, stat.Empirical, xs, nil)
	upper = stat.Quantile(hi, stat.Empirical, xs, nil)
	return med, lower, upper
}

func sortedKeys(m map[string]struct{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
