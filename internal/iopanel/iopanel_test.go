package iopanel

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/custodymetrics/custodypanel/pkg/bootstrap"
	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/custodymetrics/custodypanel/pkg/panel"
	"github.com/custodymetrics/custodypanel/pkg/prison"
	"github.com/custodymetrics/custodypanel/pkg/summary"
)

const capacityCSV = `Prison Name,Report_Date,Population,In Use CNA,Operational Capacity
Prison A,2020-03-31,"1,020",1200,1300
Prison B,2020-03-31,950,900,1000
Sub Total,2020-03-31,1970,2100,2300
Haslar,2020-03-31,100,120,130
The Verne IRC,2020-03-31,580,600,610
Prison C,2020-03-31,-,500,550
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadCapacityCSV(t *testing.T) {
	path := writeFile(t, "capacity.csv", capacityCSV)

	got, err := ReadCapacityCSV(path, panel.DefaultBucketer())
	require.NoError(t, err)

	// Aggregate rows and immigration-removal centers, whether named in
	// the skip list or carrying an IRC suffix, are dropped.
	require.Len(t, got, 3)
	for _, s := range got {
		assert.NotContains(t, s.Prison, "IRC")
	}

	a := got[0]
	assert.Equal(t, "Prison A", a.Prison)
	assert.Equal(t, "2020-03", a.Month.Key())
	assert.InDelta(t, 1020, a.Population, 1e-9)
	assert.InDelta(t, 85, a.OccupancyPct, 1e-9)
	assert.Equal(t, panel.DefaultBucketer().Below(), a.Status)

	b := got[1]
	assert.InDelta(t, 105.56, b.OccupancyPct, 0.01)
	assert.Equal(t, panel.DefaultBucketer().Over(), b.Status)

	c := got[2]
	assert.True(t, math.IsNaN(c.Population))
	assert.Equal(t, panel.Status(""), c.Status)
}

func TestParseReportDateLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2020-03-31", "2020-03"},
		{"31/03/2020", "2020-03"},
		{"2020-03", "2020-03"},
		{"March 2020", "2020-03"},
		{"03-2020", "2020-03"},
	}
	for _, tt := range tests {
		m, err := parseReportDate(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, m.Key(), tt.in)
	}

	_, err := parseReportDate("not a date")
	assert.Error(t, err)
}

func TestReadDeathsCSV(t *testing.T) {
	content := `Prison,Date,type_of_death,incidents
Prison A,2020-03-05,Natural causes,
Prison B,05/03/2020,Self Inflicted,2
`
	path := writeFile(t, "deaths.csv", content)

	got, err := ReadDeaths(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Prison A", got[0].Prison)
	assert.Equal(t, 1, got[0].Incidents)
	assert.Equal(t, panel.DeathNatural, got[0].Type())
	assert.Equal(t, "2020-03", got[0].Month().Key())

	assert.Equal(t, 2, got[1].Incidents)
	assert.Equal(t, panel.DeathSelfInflicted, got[1].Type())
	assert.Equal(t, time.March, got[1].Date.Month())
}

func TestReadDeathsXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deaths.xlsx")

	f := excelize.NewFile()
	rows := [][]any{
		{"Prison", "Date", "type_of_death"},
		{"Prison A", "2020-03-05", "Natural causes"},
		{"Prison B", "2020-04-01", "Choking"},
	}
	for i, row := range rows {
		for j, v := range row {
			axis, _ := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, f.SetCellValue("Sheet1", axis, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	got, err := ReadDeaths(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Incidents)
	assert.Equal(t, panel.DeathOther, got[1].Type())
}

func TestReadFits(t *testing.T) {
	content := `Outcome,Coefficients,Selected_Variables,Fallback,Error
natural,"(Intercept) = -7.2, occupancy_pct = 0.013","occupancy_pct",false,
self_inflicted,"(Intercept) = -8.1, overcrowded = 0.4","overcrowded",true,
other,,,false,model did not converge
`
	path := writeFile(t, "fits.csv", content)

	got, err := ReadFits(path)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.True(t, got[0].Usable())
	assert.InDelta(t, -7.2, got[0].Coefficients["(Intercept)"], 1e-9)
	assert.Equal(t, []string{"occupancy_pct"}, got[0].SelectedVariables)

	assert.True(t, got[1].Fallback)
	assert.True(t, got[1].Usable())

	assert.False(t, got[2].Usable())
	assert.Equal(t, "model did not converge", got[2].Err)
}

func TestMergerEndToEnd(t *testing.T) {
	deaths := `Prison,Date,type_of_death,incidents
Prison A,2020-03-05,Natural causes,
`
	capacity := `Prison Name,Report_Date,Population,In Use CNA,Operational Capacity
Prison A,2020-03-31,100,120,130
`
	cfg := config.New()
	cfg.Paths.CapacityFile = writeFile(t, "capacity.csv", capacity)
	cfg.Paths.DeathsFile = writeFile(t, "deaths.csv", deaths)

	rows, report, err := NewMerger(cfg).Merge(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, report.OK())

	row := rows[0]
	assert.InDelta(t, 83.3, row.OccupancyPct, 0.05)
	assert.Equal(t, panel.Status("Below Capacity (<90%)"), row.Status)
	assert.Equal(t, 1, row.NaturalCauses)
	assert.Equal(t, 1, row.TotalDeaths)
}

func TestWriteMergedCSVRoundtrip(t *testing.T) {
	b := panel.DefaultBucketer()
	rows := []panel.MergedRow{
		{
			Snapshot:      panel.NewSnapshot("Prison A", mustMonth(t, "03-2020"), 100, 120, 130, b),
			NaturalCauses: 1,
			TotalDeaths:   1,
		},
	}

	path := filepath.Join(t.TempDir(), "panel.csv")
	require.NoError(t, WriteMergedCSV(path, rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Prison A")
	assert.Contains(t, string(data), "2020-03")
	assert.Contains(t, string(data), "Below Capacity (<90%)")
}

func TestWriteProjectionXLSX(t *testing.T) {
	res := &bootstrap.Result{
		ValidDraws: 100,
		Groups: []bootstrap.GroupSummary{
			{Group: "B", Outcome: "natural", Median: 120.4, Lower: 100.2, Upper: 141.8},
			{Group: bootstrap.TotalLabel, Outcome: "natural", Median: 300.1, Lower: 260.4, Upper: 344.9},
		},
		Populations: []bootstrap.PopulationSummary{
			{Group: "B", Median: 30000, SharePct: 31.2},
			{Group: bootstrap.TotalLabel, Median: 96000, SharePct: 100},
		},
	}

	path := filepath.Join(t.TempDir(), "projection.xlsx")
	require.NoError(t, WriteProjectionXLSX(path, 2029, res))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheet := "Projection 2029"
	got, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t,
		[]string{"PrisonType", "Population", "PopulationPercent", "natural"},
		got[0])
	assert.Equal(t, "120 (100-142)", got[1][3])
	assert.Equal(t, "TOTAL", got[2][0])
}

func TestWriteSummaryXLSX(t *testing.T) {
	b := panel.DefaultBucketer()
	byStatus := []summary.StatusRow{
		{Status: b.Below(), PrisonMonths: 10, Deaths: 2,
			Population: 24000, DeathsPer1000: 0.08,
			PercentOfPrisonMonths: 100},
		{Status: summary.TotalLabel, PrisonMonths: 10, Deaths: 2,
			Population: 24000, DeathsPer1000: 0.08,
			PercentOfPrisonMonths: 100},
	}
	byType := []summary.DeathTypeRow{
		{Status: b.Below(), Type: panel.DeathNatural, Deaths: 2,
			RatePer1000: 0.08, PercentOfDeaths: 100},
	}
	ratios := []summary.RateRatioRow{
		{Status: b.Below(), IRR: 1, Lower: 1, Upper: 1, Reference: true},
		{Status: b.Over(), IRR: 1.5, Lower: 1.04, Upper: 2.16},
	}
	headline := summary.Headline{Month: "2024-09", Prisons: 2}

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	err := WriteSummaryXLSX(path, byStatus, byType, ratios, nil, headline)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Deaths by Status")
	assert.Contains(t, sheets, "Deaths by Type")
	assert.Contains(t, sheets, "Rate Ratios")
	assert.Contains(t, sheets, "Monthly Totals")
	assert.Contains(t, sheets, "Headline")

	statusRows, err := f.GetRows("Deaths by Status")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Status", "Prison_Months", "Deaths", "Total_Population",
		"Death_Rate_per_1000", "Percent_of_Prison_Months",
	}, statusRows[0])
	assert.Equal(t, "24000", statusRows[1][3])
	assert.Equal(t, "0.08", statusRows[1][4])

	typeRows, err := f.GetRows("Deaths by Type")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Status", "Type", "Deaths", "Rate_per_1000", "Percent_of_Deaths",
	}, typeRows[0])

	ratioRows, err := f.GetRows("Rate Ratios")
	require.NoError(t, err)
	require.Len(t, ratioRows, 3)
	assert.Equal(t, "1.00 (reference)", ratioRows[1][1])
	assert.Equal(t, "1.50 (1.04-2.16)", ratioRows[2][1])
}

func mustMonth(t *testing.T, s string) prison.Month {
	t.Helper()
	m, err := prison.ParseMonth(s)
	require.NoError(t, err)
	return m
}
