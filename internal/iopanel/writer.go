package iopanel

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/custodymetrics/custodypanel/pkg/bootstrap"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/summary"
)

// mergedRow is the CSV shape of one merged prison-month observation.
type mergedRow struct {
	Prison              string  `csv:"Prison"`
	Month               string  `csv:"Month"`
	Population          float64 `csv:"Population"`
	InUseCNA            float64 `csv:"In_Use_CNA"`
	OperationalCapacity float64 `csv:"Operational_Capacity"`
	OccupancyPct        float64 `csv:"Occupancy_Pct"`
	Status              string  `csv:"Status"`
	NaturalCauses       int     `csv:"Natural_causes"`
	SelfInflicted       int     `csv:"Self_inflicted"`
	Other               int     `csv:"Other"`
	TotalDeaths         int     `csv:"Total_Deaths"`
}

// WriteMergedCSV writes the merged panel, one row per prison per month.
func WriteMergedCSV(path string, rows []panel.MergedRow) error {
	out := make([]*mergedRow, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = &mergedRow{
			Prison:              r.Prison,
			Month:               r.Month.Key(),
			Population:          r.Population,
			InUseCNA:            r.InUseCNA,
			OperationalCapacity: r.OperationalCapacity,
			OccupancyPct:        r.OccupancyPct,
			Status:              string(r.Status),
			NaturalCauses:       r.NaturalCauses,
			SelfInflicted:       r.SelfInflicted,
			Other:               r.Other,
			TotalDeaths:         r.TotalDeaths,
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return PanelWriteError(path, err)
	}
	defer f.Close()

	if err := gocsv.MarshalFile(&out, f); err != nil {
		return PanelWriteError(path, err)
	}
	return nil
}

// WriteSummaryXLSX writes the descriptive tables into one workbook:
// deaths by overcrowding status, deaths by cause within status, rate
// ratios against the below-capacity bucket, the national monthly
// series and the capacity headline.
func WriteSummaryXLSX(
	path string,
	byStatus []summary.StatusRow,
	byType []summary.DeathTypeRow,
	ratios []summary.RateRatioRow,
	totals []panel.MonthTotal,
	headline summary.Headline,
) error {
	f := excelize.NewFile()
	defer f.Close()

	const statusSheet = "Deaths by Status"
	f.SetSheetName("Sheet1", statusSheet)
	writeRow(f, statusSheet, 1,
		"Status", "Prison_Months", "Deaths", "Total_Population",
		"Death_Rate_per_1000", "Percent_of_Prison_Months")
	for i, r := range byStatus {
		writeRow(f, statusSheet, i+2,
			string(r.Status), r.PrisonMonths, r.Deaths,
			fmt.Sprintf("%.0f", r.Population),
			fmt.Sprintf("%.2f", r.DeathsPer1000),
			fmt.Sprintf("%.1f", r.PercentOfPrisonMonths))
	}

	const typeSheet = "Deaths by Type"
	f.NewSheet(typeSheet)
	writeRow(f, typeSheet, 1,
		"Status", "Type", "Deaths", "Rate_per_1000",
		"Percent_of_Deaths")
	for i, r := range byType {
		writeRow(f, typeSheet, i+2,
			string(r.Status), string(r.Type), r.Deaths,
			fmt.Sprintf("%.2f", r.RatePer1000),
			fmt.Sprintf("%.1f", r.PercentOfDeaths))
	}

	const ratioSheet = "Rate Ratios"
	f.NewSheet(ratioSheet)
	writeRow(f, ratioSheet, 1, "Status", "IRR (95% CI)")
	for i, r := range ratios {
		cell := ""
		switch {
		case r.Reference:
			cell = "1.00 (reference)"
		case r.IRR > 0:
			cell = summary.FormatIRR(r.IRR, r.Lower, r.Upper)
		}
		writeRow(f, ratioSheet, i+2, string(r.Status), cell)
	}

	const totalsSheet = "Monthly Totals"
	f.NewSheet(totalsSheet)
	writeRow(f, totalsSheet, 1,
		"Month", "Prisons", "Population", "In_Use_CNA",
		"Operational_Capacity")
	for i, r := range totals {
		writeRow(f, totalsSheet, i+2,
			r.Month.Key(), r.Prisons, r.Population, r.InUseCNA,
			r.OperationalCapacity)
	}

	const headlineSheet = "Headline"
	f.NewSheet(headlineSheet)
	writeRow(f, headlineSheet, 1, "Metric", "Value")
	headlineRows := []struct {
		metric string
		value  any
	}{
		{"Month", headline.Month},
		{"Prisons", headline.Prisons},
		{"Population", headline.Population},
		{"In Use CNA", headline.InUseCNA},
		{"System Occupancy %", fmt.Sprintf("%.1f", headline.SystemOccupancyPct)},
		{"Overcrowded Prisons", headline.OvercrowdedPrisons},
		{"Overcrowded Share %", fmt.Sprintf("%.1f", headline.OvercrowdedSharePct)},
	}
	for i, r := range headlineRows {
		writeRow(f, headlineSheet, i+2, r.metric, r.value)
	}

	if err := f.SaveAs(path); err != nil {
		return PanelWriteError(path, err)
	}
	return nil
}

// WriteProjectionXLSX writes one projection run: a row per category
// group with its median population share and a formatted
// "median (lower-upper)" cell per outcome, ending with the TOTAL row.
func WriteProjectionXLSX(
	path string,
	targetYear int,
	res *bootstrap.Result,
) error {
	outcomes := projectionOutcomes(res)
	cells := make(map[string]map[string]string)
	for _, g := range res.Groups {
		if cells[g.Group] == nil {
			cells[g.Group] = make(map[string]string)
		}
		cells[g.Group][g.Outcome] =
			summary.FormatProjection(g.Median, g.Lower, g.Upper)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := fmt.Sprintf("Projection %d", targetYear)
	f.SetSheetName("Sheet1", sheet)

	header := []any{"PrisonType", "Population", "PopulationPercent"}
	for _, o := range outcomes {
		header = append(header, o)
	}
	writeRow(f, sheet, 1, header...)

	for i, p := range res.Populations {
		row := []any{
			p.Group,
			fmt.Sprintf("%.0f", p.Median),
			fmt.Sprintf("%.1f", p.SharePct),
		}
		for _, o := range outcomes {
			row = append(row, cells[p.Group][o])
		}
		writeRow(f, sheet, i+2, row...)
	}

	if err := f.SaveAs(path); err != nil {
		return ProjectionWriteError(path, err)
	}
	return nil
}

func projectionOutcomes(res *bootstrap.Result) []string {
	seen := make(map[string]struct{})
	var outcomes []string
	for _, g := range res.Groups {
		if _, ok := seen[g.Outcome]; ok {
			continue
		}
		seen[g.Outcome] = struct{}{}
		outcomes = append(outcomes, g.Outcome)
	}
	return outcomes
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		axis, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, axis, v)
	}
}
