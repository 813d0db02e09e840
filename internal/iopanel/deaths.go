package iopanel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/custodymetrics/custodypanel/pkg/panel"
)

// deathRow mirrors the deaths-in-custody table. The incidents column is
// optional; an empty cell means one death.
type deathRow struct {
	Prison    string `csv:"Prison"`
	Date      string `csv:"Date"`
	Cause     string `csv:"type_of_death"`
	Incidents string `csv:"incidents"`
}

// ReadDeaths loads the deaths table, dispatching on file extension:
// .xlsx workbooks go through excelize, anything else is treated as CSV.
func ReadDeaths(path string) ([]panel.DeathRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readDeathsXLSX(path)
	}
	return readDeathsCSV(path)
}

func readDeathsCSV(path string) ([]panel.DeathRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, DeathsReadError(path, err)
	}
	defer f.Close()

	var rows []*deathRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, DeathsParseError(path, err)
	}

	res := make([]panel.DeathRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := toDeathRecord(r.Prison, r.Date, r.Cause, r.Incidents)
		if err != nil {
			return nil, DeathsParseError(path, err)
		}
		if rec.Prison == "" {
			continue
		}
		res = append(res, rec)
	}
	return res, nil
}

func readDeathsXLSX(path string) ([]panel.DeathRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, DeathsReadError(path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, DeathsParseError(path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := headerIndex(rows[0])
	required := []string{"Prison", "Date", "type_of_death"}
	for _, c := range required {
		if _, ok := cols[c]; !ok {
			return nil, DeathsParseError(path,
				fmt.Errorf("missing column %q in sheet %q", c, sheet))
		}
	}

	incidentsCol := -1
	if i, ok := cols["incidents"]; ok {
		incidentsCol = i
	}

	res := make([]panel.DeathRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, err := toDeathRecord(
			cell(row, cols["Prison"]),
			cell(row, cols["Date"]),
			cell(row, cols["type_of_death"]),
			cell(row, incidentsCol),
		)
		if err != nil {
			return nil, DeathsParseError(path, err)
		}
		if rec.Prison == "" {
			continue
		}
		res = append(res, rec)
	}
	return res, nil
}

// deathDateLayouts covers the date formats seen in the death reports,
// including Excel's default serialized form.
var deathDateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"1/2/06 15:04",
}

func toDeathRecord(
	prisonName, date, cause, incidents string,
) (panel.DeathRecord, error) {
	var res panel.DeathRecord
	res.Prison = strings.TrimSpace(prisonName)
	if res.Prison == "" {
		return res, nil
	}

	var err error
	res.Date, err = parseDeathDate(date)
	if err != nil {
		return res, fmt.Errorf("prison %q: %w", res.Prison, err)
	}

	res.Cause = strings.TrimSpace(cause)

	res.Incidents = 1
	if s := strings.TrimSpace(incidents); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return res, fmt.Errorf(
				"prison %q: bad incidents value %q", res.Prison, s)
		}
		res.Incidents = n
	}
	return res, nil
}

func parseDeathDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range deathDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// headerIndex maps trimmed header names to column positions.
func headerIndex(header []string) map[string]int {
	res := make(map[string]int, len(header))
	for i, h := range header {
		res[strings.TrimSpace(h)] = i
	}
	return res
}

// cell returns a row's value at the column, tolerating the short rows
// excelize produces when trailing cells are empty.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
