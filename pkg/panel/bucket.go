package panel

import (
	"fmt"
	"math"
)

// Status is the three-level overcrowding bucket of a snapshot's
// occupancy percentage.
type Status string

// Bucketer assigns occupancy percentages to overcrowding statuses using
// left-open intervals (0, Low], (Low, High], (High, inf). With the
// default cut points 90 and 100: an occupancy of exactly 90 is Below
// Capacity and exactly 100 is At Capacity. This single convention feeds
// both the merge and the summaries so the two cannot drift apart.
type Bucketer struct {
	Low  float64
	High float64
}

// DefaultBucketer uses the study's 90/100 cut points.
func DefaultBucketer() Bucketer {
	return Bucketer{Low: 90, High: 100}
}

// Below, At and Over return the bucket labels, which carry the cut
// points so summary tables are self-describing.
func (b Bucketer) Below() Status {
	return Status(fmt.Sprintf("Below Capacity (<%g%%)", b.Low))
}

func (b Bucketer) At() Status {
	return Status(fmt.Sprintf("At Capacity (%g-%g%%)", b.Low, b.High))
}

func (b Bucketer) Over() Status {
	return Status(fmt.Sprintf("Overcrowded (>%g%%)", b.High))
}

// Statuses lists the buckets in ascending occupancy order.
func (b Bucketer) Statuses() []Status {
	return []Status{b.Below(), b.At(), b.Over()}
}

// Bucket assigns an occupancy percentage to its status. NaN or
// non-positive occupancy yields an empty status, mirroring rows the
// source data could not categorize.
func (b Bucketer) Bucket(pct float64) Status {
	switch {
	case math.IsNaN(pct) || pct <= 0:
		return ""
	case pct <= b.Low:
		return b.Below()
	case pct <= b.High:
		return b.At()
	default:
		return b.Over()
	}
}
