// Package config provides configuration management for custodypanel.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Store: database file path
//   - Merge: bucket boundaries, excluded months
//   - Bootstrap: draws, sample size, alpha, max problem share, attempt factor
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Paths to input/output files (per-command)
//   - Bootstrap target population/year and seed (per-run)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use CUSTODYPANEL_ prefix with underscores for nesting:
//
//	CUSTODYPANEL_STORE_DATABASE_FILE=/data/panel.db
//	CUSTODYPANEL_BOOTSTRAP_DRAWS=2000
//	CUSTODYPANEL_LOG_LEVEL=debug
//	CUSTODYPANEL_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete custodypanel configuration.
type Config struct {
	// Paths contains input and output file locations.
	Paths PathsConfig `mapstructure:"paths" yaml:"paths"`

	// Store contains settings for the local SQLite store.
	Store StoreConfig `mapstructure:"store" yaml:"store"`

	// Merge contains settings for the capacity-deaths merge phase.
	Merge MergeConfig `mapstructure:"merge" yaml:"merge"`

	// Bootstrap contains settings for the projection phase.
	Bootstrap BootstrapConfig `mapstructure:"bootstrap" yaml:"bootstrap"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// PathsConfig contains input and output file locations.
// All fields are runtime-only; they are supplied per command via flags.
type PathsConfig struct {
	// CapacityFile is the combined prison capacity CSV
	// (Prison Name, Report_Date, Population *, In Use CNA,
	// Operational Capacity).
	CapacityFile string `mapstructure:"capacity_file" yaml:"capacity_file"`

	// DeathsFile is the deaths-in-custody table, CSV or XLSX
	// (Prison, Date, type_of_death, incidents).
	DeathsFile string `mapstructure:"deaths_file" yaml:"deaths_file"`

	// FitsFile is the fitted-model coefficient table, CSV or XLSX
	// (Outcome, Coefficients, Selected_Variables).
	FitsFile string `mapstructure:"fits_file" yaml:"fits_file"`

	// OutputDir is where CSV/XLSX outputs are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
}

// StoreConfig contains settings for the local SQLite store.
type StoreConfig struct {
	// DatabaseFile is the SQLite file holding panel rows, prison metadata
	// and projection runs. Defaults to ~/.cache/custodypanel/custodypanel.db.
	DatabaseFile string `mapstructure:"database_file" yaml:"database_file"`
}

// MergeConfig contains settings for the capacity-deaths merge phase.
type MergeConfig struct {
	// BucketLow and BucketHigh are the occupancy-percentage cut points for
	// the three-level overcrowding status. Intervals are left-open:
	// (0, low], (low, high], (high, inf).
	BucketLow  float64 `mapstructure:"bucket_low" yaml:"bucket_low"`
	BucketHigh float64 `mapstructure:"bucket_high" yaml:"bucket_high"`

	// ExcludeMonths lists YYYY-MM months dropped from the national
	// monthly time series (known bad reporting months).
	ExcludeMonths []string `mapstructure:"exclude_months" yaml:"exclude_months"`
}

// BootstrapConfig contains settings for the projection phase.
type BootstrapConfig struct {
	// Draws is the number of valid bootstrap draws to collect.
	Draws int `mapstructure:"draws" yaml:"draws"`

	// SampleSize is the number of prisons resampled per draw.
	// Zero means use the size of the historical panel.
	SampleSize int `mapstructure:"sample_size" yaml:"sample_size"`

	// Alpha sets the confidence interval to [alpha/2, 1-alpha/2]
	// empirical quantiles. Default 0.05 (a 95% interval).
	Alpha float64 `mapstructure:"alpha" yaml:"alpha"`

	// MaxProblemShare is the fraction of rows in a draw that may fail
	// covariate computation before the whole draw is discarded.
	// This threshold is a tunable heuristic, not a law.
	MaxProblemShare float64 `mapstructure:"max_problem_share" yaml:"max_problem_share"`

	// AttemptFactor bounds the retry loop: at most
	// AttemptFactor*Draws attempts are made before giving up and
	// reporting whatever valid draws exist.
	AttemptFactor int `mapstructure:"attempt_factor" yaml:"attempt_factor"`

	// TargetPopulation is the projected total prison population.
	// Runtime-only, supplied per run.
	TargetPopulation float64 `mapstructure:"target_population" yaml:"target_population"`

	// TargetYear labels the projection outputs. Runtime-only.
	TargetYear int `mapstructure:"target_year" yaml:"target_year"`

	// Seed is the base seed for per-draw RNG streams. Zero means derive
	// from wall clock. Runtime-only.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Store: StoreConfig{},
		Merge: MergeConfig{
			BucketLow:  90,
			BucketHigh: 100,
		},
		Bootstrap: BootstrapConfig{
			Draws:           1000,
			Alpha:           0.05,
			MaxProblemShare: 0.2,
			AttemptFactor:   3,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
