package summary

import (
	"math"

	"github.com/custodymetrics/custodypanel/pkg/panel"
)

// z for a 95% Wald interval on the log rate ratio.
const ratioZ = 1.96

// RateRatioRow compares one overcrowding status's crude death rate
// with the reference bucket's rate.
type RateRatioRow struct {
	Status panel.Status
	IRR    float64
	Lower  float64
	Upper  float64
	// Reference marks the comparison bucket, IRR fixed at 1.
	Reference bool
}

// RateRatios derives incidence rate ratios from the ByStatus table,
// with the first bucket (below capacity) as the reference. Intervals
// are Wald intervals on the log ratio, which need deaths in both
// groups; a bucket where they cannot be computed keeps zero values.
// The Total row is not a bucket and is skipped.
func RateRatios(rows []StatusRow) []RateRatioRow {
	var ref *StatusRow
	for i := range rows {
		if rows[i].Status != TotalLabel {
			ref = &rows[i]
			break
		}
	}
	if ref == nil {
		return nil
	}
	refRate := ratePer1000(ref.Deaths, ref.Population)

	var res []RateRatioRow
	for i := range rows {
		r := &rows[i]
		if r.Status == TotalLabel {
			continue
		}
		row := RateRatioRow{Status: r.Status}
		if r == ref {
			row.Reference = true
			row.IRR, row.Lower, row.Upper = 1, 1, 1
			res = append(res, row)
			continue
		}
		rate := ratePer1000(r.Deaths, r.Population)
		if rate > 0 && refRate > 0 {
			row.IRR = rate / refRate
			se := math.Sqrt(
				1/float64(r.Deaths) + 1/float64(ref.Deaths))
			row.Lower = row.IRR * math.Exp(-ratioZ*se)
			row.Upper = row.IRR * math.Exp(ratioZ*se)
		}
		res = append(res, row)
	}
	return res
}
