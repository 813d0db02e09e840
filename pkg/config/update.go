package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, input/output paths, target
// population/year, seed). Used for round-tripping config.yaml ↔ Config
// conversions.
func (c *Config) ToOptions() []Option {
	var res []Option

	if s := c.Store.DatabaseFile; s != "" {
		res = append(res, OptStoreDatabaseFile(s))
	}

	if f := c.Merge.BucketLow; f > 0 {
		res = append(res, OptMergeBucketLow(f))
	}
	if f := c.Merge.BucketHigh; f > 0 {
		res = append(res, OptMergeBucketHigh(f))
	}
	if ss := c.Merge.ExcludeMonths; len(ss) > 0 {
		res = append(res, OptMergeExcludeMonths(ss))
	}

	if i := c.Bootstrap.Draws; i > 0 {
		res = append(res, OptBootstrapDraws(i))
	}
	if i := c.Bootstrap.SampleSize; i > 0 {
		res = append(res, OptBootstrapSampleSize(i))
	}
	if f := c.Bootstrap.Alpha; f > 0 {
		res = append(res, OptBootstrapAlpha(f))
	}
	if f := c.Bootstrap.MaxProblemShare; f > 0 {
		res = append(res, OptBootstrapMaxProblemShare(f))
	}
	if i := c.Bootstrap.AttemptFactor; i > 0 {
		res = append(res, OptBootstrapAttemptFactor(i))
	}

	if s := c.Log.Level; s != "" {
		res = append(res, OptLogLevel(s))
	}
	if s := c.Log.Format; s != "" {
		res = append(res, OptLogFormat(s))
	}
	if s := c.Log.Destination; s != "" {
		res = append(res, OptLogDestination(s))
	}

	if i := c.JobsNumber; i > 0 {
		res = append(res, OptJobsNumber(i))
	}

	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidFloat(name string, f float64) bool {
	res := f > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive, ignoring %v", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
