// Package model loads fitted regression output. The fitting itself
// happens outside this program; what arrives here is a coefficient
// table per outcome, parsed once and applied many times during
// projection.
package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// InterceptName is the coefficient name holding the model intercept.
const InterceptName = "(Intercept)"

// Linear predictors are clamped to this range before exponentiation
// so a degenerate fit cannot overflow the rate.
const (
	lpMin = -50
	lpMax = 50
)

// Fit is one outcome's fitted model. Fallback marks outcomes where the
// primary fit failed and a simpler model was used instead; Err
// carries the fitting error of outcomes that produced no usable model.
type Fit struct {
	Outcome           string
	Coefficients      map[string]float64
	SelectedVariables []string
	Fallback          bool
	Err               string
}

// Usable reports whether the fit produced coefficients to predict with.
func (f *Fit) Usable() bool {
	return f.Err == "" && len(f.Coefficients) > 0
}

// ParseCoefficients parses a serialized coefficient table of the form
// "name = value, name = value, ...". Names may themselves contain
// spaces; the last "=" separated field of each comma chunk is the
// value.
func ParseCoefficients(s string) (map[string]float64, error) {
	res := make(map[string]float64)
	s = strings.TrimSpace(s)
	if s == "" {
		return res, nil
	}
	for _, chunk := range strings.Split(s, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		idx := strings.LastIndex(chunk, "=")
		if idx < 0 {
			return nil, fmt.Errorf("coefficient %q has no value", chunk)
		}
		name := strings.TrimSpace(chunk[:idx])
		raw := strings.TrimSpace(chunk[idx+1:])
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("coefficient %q: %w", name, err)
		}
		res[name] = val
	}
	return res, nil
}

// LinearPredictor evaluates intercept + Σ coefficient × covariate,
// clamped to a safe range. The cov callback resolves covariate values
// by coefficient name; unresolved covariates contribute nothing.
func (f *Fit) LinearPredictor(cov func(name string) (float64, bool)) float64 {
	lp := f.Coefficients[InterceptName]
	for name, coef := range f.Coefficients {
		if name == InterceptName {
			continue
		}
		v, ok := cov(name)
		if !ok {
			continue
		}
		lp += coef * v
	}
	if lp < lpMin {
		lp = lpMin
	}
	if lp > lpMax {
		lp = lpMax
	}
	return lp
}

// PredictAnnual converts the monthly rate model into an expected
// annual death count for one prison row.
func (f *Fit) PredictAnnual(cov func(name string) (float64, bool)) float64 {
	return math.Exp(f.LinearPredictor(cov)) * 12
}
