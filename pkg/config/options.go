package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptCapacityFile sets the combined prison capacity CSV path.
// Runtime-only field - not in ToOptions().
func OptCapacityFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Capacity File", s) {
			c.Paths.CapacityFile = s
		}
	}
}

// OptDeathsFile sets the deaths-in-custody table path (CSV or XLSX).
// Runtime-only field - not in ToOptions().
func OptDeathsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Deaths File", s) {
			c.Paths.DeathsFile = s
		}
	}
}

// OptFitsFile sets the fitted-model coefficient table path (CSV or XLSX).
// Runtime-only field - not in ToOptions().
func OptFitsFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fits File", s) {
			c.Paths.FitsFile = s
		}
	}
}

// OptOutputDir sets the directory for CSV/XLSX outputs.
// Runtime-only field - not in ToOptions().
func OptOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Output Directory", s) {
			c.Paths.OutputDir = s
		}
	}
}

// OptStoreDatabaseFile sets the SQLite file for the local store.
func OptStoreDatabaseFile(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Store Database File", s) {
			c.Store.DatabaseFile = s
		}
	}
}

// OptMergeBucketLow sets the lower occupancy cut point (default 90).
func OptMergeBucketLow(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Merge Bucket Low", f) {
			c.Merge.BucketLow = f
		}
	}
}

// OptMergeBucketHigh sets the upper occupancy cut point (default 100).
func OptMergeBucketHigh(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Merge Bucket High", f) {
			c.Merge.BucketHigh = f
		}
	}
}

// OptMergeExcludeMonths sets YYYY-MM months dropped from the national
// monthly time series.
func OptMergeExcludeMonths(ss []string) Option {
	return func(c *Config) {
		if len(ss) > 0 {
			c.Merge.ExcludeMonths = ss
		}
	}
}

// OptBootstrapDraws sets the number of valid bootstrap draws to collect.
func OptBootstrapDraws(i int) Option {
	return func(c *Config) {
		if isValidInt("Bootstrap Draws", i) {
			c.Bootstrap.Draws = i
		}
	}
}

// OptBootstrapSampleSize sets the number of prisons resampled per draw.
func OptBootstrapSampleSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Bootstrap Sample Size", i) {
			c.Bootstrap.SampleSize = i
		}
	}
}

// OptBootstrapAlpha sets the confidence level (interval is
// [alpha/2, 1-alpha/2] empirical quantiles).
func OptBootstrapAlpha(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Bootstrap Alpha", f) && f < 1 {
			c.Bootstrap.Alpha = f
		}
	}
}

// OptBootstrapMaxProblemShare sets the fraction of failed rows that
// invalidates a whole draw. Tunable heuristic, default 0.2.
func OptBootstrapMaxProblemShare(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Bootstrap Max Problem Share", f) && f <= 1 {
			c.Bootstrap.MaxProblemShare = f
		}
	}
}

// OptBootstrapAttemptFactor sets the retry budget multiplier.
func OptBootstrapAttemptFactor(i int) Option {
	return func(c *Config) {
		if isValidInt("Bootstrap Attempt Factor", i) {
			c.Bootstrap.AttemptFactor = i
		}
	}
}

// OptBootstrapTargetPopulation sets the projected total population.
// Runtime-only field - not in ToOptions().
func OptBootstrapTargetPopulation(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Target Population", f) {
			c.Bootstrap.TargetPopulation = f
		}
	}
}

// OptBootstrapTargetYear labels the projection outputs.
// Runtime-only field - not in ToOptions().
func OptBootstrapTargetYear(i int) Option {
	return func(c *Config) {
		if isValidInt("Target Year", i) {
			c.Bootstrap.TargetYear = i
		}
	}
}

// OptBootstrapSeed sets the base RNG seed for reproducible runs.
// Runtime-only field - not in ToOptions().
func OptBootstrapSeed(i int64) Option {
	return func(c *Config) {
		c.Bootstrap.Seed = i
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel
// operations. Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
