package iopanel

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/custodymetrics/custodypanel/pkg/model"
)

// fitRow mirrors the fitted-model coefficient table produced by the
// external fitting step.
type fitRow struct {
	Outcome           string `csv:"Outcome"`
	Coefficients      string `csv:"Coefficients"`
	SelectedVariables string `csv:"Selected_Variables"`
	Fallback          string `csv:"Fallback"`
	Error             string `csv:"Error"`
}

// ReadFits loads the per-outcome coefficient table. Outcomes whose fit
// failed are kept with their error string so the projection can report
// them without aborting the others.
func ReadFits(path string) ([]*model.Fit, error) {
	var rows []*fitRow
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		rows, err = readFitRowsXLSX(path)
	} else {
		rows, err = readFitRowsCSV(path)
	}
	if err != nil {
		return nil, err
	}

	res := make([]*model.Fit, 0, len(rows))
	for _, r := range rows {
		outcome := strings.TrimSpace(r.Outcome)
		if outcome == "" {
			continue
		}
		fit := &model.Fit{
			Outcome:  outcome,
			Fallback: parseBool(r.Fallback),
			Err:      strings.TrimSpace(r.Error),
		}
		if vars := strings.TrimSpace(r.SelectedVariables); vars != "" {
			for _, v := range strings.Split(vars, ",") {
				fit.SelectedVariables =
					append(fit.SelectedVariables, strings.TrimSpace(v))
			}
		}
		if fit.Err == "" {
			fit.Coefficients, err = model.ParseCoefficients(r.Coefficients)
			if err != nil {
				return nil, CoefficientsParseError(path, outcome, err)
			}
		}
		if fit.Fallback {
			slog.Warn("Outcome used fallback model", "outcome", outcome)
		}
		if fit.Err != "" {
			slog.Warn("Outcome has no usable fit",
				"outcome", outcome, "error", fit.Err)
		}
		res = append(res, fit)
	}
	if len(res) == 0 {
		return nil, NoFitsError(path)
	}
	return res, nil
}

func readFitRowsCSV(path string) ([]*fitRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, FitsReadError(path, err)
	}
	defer f.Close()

	var rows []*fitRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, FitsParseError(path, err)
	}
	return rows, nil
}

func readFitRowsXLSX(path string) ([]*fitRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, FitsReadError(path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, FitsParseError(path, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	cols := headerIndex(raw[0])
	if _, ok := cols["Outcome"]; !ok {
		return nil, FitsParseError(path,
			fmt.Errorf("missing column %q in sheet %q", "Outcome", sheet))
	}
	col := func(name string) int {
		if i, ok := cols[name]; ok {
			return i
		}
		return -1
	}

	rows := make([]*fitRow, 0, len(raw)-1)
	for _, r := range raw[1:] {
		rows = append(rows, &fitRow{
			Outcome:           cell(r, col("Outcome")),
			Coefficients:      cell(r, col("Coefficients")),
			SelectedVariables: cell(r, col("Selected_Variables")),
			Fallback:          cell(r, col("Fallback")),
			Error:             cell(r, col("Error")),
		})
	}
	return rows, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}
