package summary

import "fmt"

// FormatIRR renders an incidence rate ratio with its confidence
// interval, e.g. "1.17 (1.04-1.31)".
func FormatIRR(point, lower, upper float64) string {
	return fmt.Sprintf("%.2f (%.2f-%.2f)", point, lower, upper)
}

// FormatProjection renders a projected count as median with its
// interval, e.g. "312 (284-341)". Values are rounded to whole deaths.
func FormatProjection(median, lower, upper float64) string {
	return fmt.Sprintf("%.0f (%.0f-%.0f)", median, lower, upper)
}
