// Package iopanel reads the raw capacity and deaths tables and writes
// the merged panel and its derived reports.
package iopanel

import (
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
)

// capacityRow mirrors the monthly prison capacity CSV. Numeric columns
// arrive as strings because the source files carry thousands separators
// and footnote markers.
type capacityRow struct {
	PrisonName          string `csv:"Prison Name"`
	ReportDate          string `csv:"Report_Date"`
	Population          string `csv:"Population"`
	InUseCNA            string `csv:"In Use CNA"`
	OperationalCapacity string `csv:"Operational Capacity"`
}

// skipPrisons are rows present in the capacity tables that are not
// prisons during the study window: aggregate rows and the two sites
// operating as immigration-removal centers.
var skipPrisons = map[string]struct{}{
	"haslar":      {},
	"morton hall": {},
}

// ReadCapacityCSV loads monthly capacity snapshots. Aggregate rows,
// immigration-removal centers and rows without a parseable report date
// are skipped; unparseable numeric cells become NaN and surface later
// as rows with no overcrowding status.
func ReadCapacityCSV(path string, b panel.Bucketer) ([]panel.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, CapacityReadError(path, err)
	}
	defer f.Close()

	var rows []*capacityRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, CapacityParseError(path, err)
	}

	res := make([]panel.Snapshot, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.PrisonName)
		if name == "" || strings.Contains(strings.ToLower(name), "total") {
			continue
		}
		// Sites listed under their immigration-removal-center name,
		// e.g. "The Verne IRC".
		if strings.Contains(name, "IRC") {
			continue
		}
		if _, ok := skipPrisons[strings.ToLower(name)]; ok {
			continue
		}
		m, err := parseReportDate(r.ReportDate)
		if err != nil {
			return nil, CapacityParseError(path, err)
		}
		res = append(res, panel.NewSnapshot(
			name,
			m,
			cleanNumber(r.Population),
			cleanNumber(r.InUseCNA),
			cleanNumber(r.OperationalCapacity),
			b,
		))
	}
	return res, nil
}

// reportDateLayouts are the date formats observed across the monthly
// capacity files.
var reportDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01",
	"January 2006",
	"Jan 2006",
}

func parseReportDate(s string) (prison.Month, error) {
	s = strings.TrimSpace(s)
	for _, layout := range reportDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return prison.MonthOf(t), nil
		}
	}
	return prison.ParseMonth(s)
}

// cleanNumber strips thousands separators, stray spaces and footnote
// markers before parsing. Anything still unparseable becomes NaN.
func cleanNumber(s string) float64 {
	s = strings.NewReplacer(",", "", " ", "", "*", "").Replace(s)
	if s == "" || s == "-" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
