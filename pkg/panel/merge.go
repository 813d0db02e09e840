package panel

import (
	"log/slog"

	"github.com/custodymetrics/custodypanel/pkg/prison"
)

// MergeReport collects data-quality findings from a merge. None of them
// is fatal: a defective merge is reported, not silently repaired.
type MergeReport struct {
	// Rows is the number of merged rows produced.
	Rows int

	// DuplicateGroups counts (prison, month) keys holding more than one
	// capacity row. The merge keeps the rows and flags the violation.
	DuplicateGroups int

	// UnmatchedDeaths counts death incidents whose (prison, month) has
	// no capacity row; a left join cannot place them.
	UnmatchedDeaths int
}

// OK reports whether the merge satisfied the one-row-per-prison-month
// invariant.
func (r *MergeReport) OK() bool {
	return r.DuplicateGroups == 0
}

type mergeKey struct {
	prison string
	month  prison.Month
}

type deathCounts struct {
	natural       int
	selfInflicted int
	other         int
	total         int
}

// Merge left-joins classified death counts onto capacity snapshots,
// keyed by (prison, month). Death incidents are summed per classified
// type into wide columns plus a total; keys with no deaths fill to
// zero. The post-condition - exactly one row per (prison, month) - is
// verified and violations are reported and logged, never dropped.
func Merge(snapshots []Snapshot, deaths []DeathRecord) ([]MergedRow, *MergeReport) {
	report := &MergeReport{}

	counts := make(map[mergeKey]*deathCounts)
	covered := make(map[mergeKey]int)
	for _, s := range snapshots {
		covered[mergeKey{s.Prison, s.Month}]++
	}

	for _, d := range deaths {
		n := d.Incidents
		if n <= 0 {
			n = 1
		}
		key := mergeKey{d.Prison, d.Month()}
		if covered[key] == 0 {
			report.UnmatchedDeaths += n
			continue
		}
		c := counts[key]
		if c == nil {
			c = &deathCounts{}
			counts[key] = c
		}
		switch d.Type() {
		case DeathNatural:
			c.natural += n
		case DeathSelfInflicted:
			c.selfInflicted += n
		default:
			c.other += n
		}
		c.total += n
	}

	res := make([]MergedRow, 0, len(snapshots))
	for _, s := range snapshots {
		row := MergedRow{Snapshot: s}
		if c := counts[mergeKey{s.Prison, s.Month}]; c != nil {
			row.NaturalCauses = c.natural
			row.SelfInflicted = c.selfInflicted
			row.Other = c.other
			row.TotalDeaths = c.total
		}
		res = append(res, row)
	}
	report.Rows = len(res)

	for key, n := range covered {
		if n > 1 {
			report.DuplicateGroups++
			slog.Warn("Multiple capacity rows for prison-month",
				"prison", key.prison,
				"month", key.month.Key(),
				"rows", n)
		}
	}
	if report.DuplicateGroups > 0 {
		slog.Warn("Merge violates one-row-per-prison-month invariant",
			"duplicate_groups", report.DuplicateGroups)
	} else {
		slog.Info("Verified one row per prison per month",
			"rows", report.Rows)
	}
	if report.UnmatchedDeaths > 0 {
		slog.Warn("Death records without a matching capacity row",
			"incidents", report.UnmatchedDeaths)
	}

	return res, report
}
