package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/custodymetrics/custodypanel/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "custodypanel"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "custodypanel"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "custodypanel", "logs"),
		},
		{
			msg: "config file",
			fn:  config.ConfigFilePath,
			res: filepath.Join(tempHome, ".config", "custodypanel", "config.yaml"),
		},
		{
			msg: "prisons file",
			fn:  config.PrisonsFilePath,
			res: filepath.Join(tempHome, ".config", "custodypanel", "prisons.yaml"),
		},
		{
			msg: "events file",
			fn:  config.EventsFilePath,
			res: filepath.Join(tempHome, ".config", "custodypanel", "events.yaml"),
		},
		{
			msg: "database file",
			fn:  config.DatabaseFilePath,
			res: filepath.Join(tempHome, ".cache", "custodypanel", "custodypanel.db"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()

	t.Run("creates valid default config", func(t *testing.T) {
		require.NotNil(t, cfg)

		// Merge defaults
		assert.Equal(t, 90.0, cfg.Merge.BucketLow)
		assert.Equal(t, 100.0, cfg.Merge.BucketHigh)
		assert.Empty(t, cfg.Merge.ExcludeMonths)

		// Bootstrap defaults
		assert.Equal(t, 1000, cfg.Bootstrap.Draws)
		assert.Equal(t, 0, cfg.Bootstrap.SampleSize)
		assert.Equal(t, 0.05, cfg.Bootstrap.Alpha)
		assert.Equal(t, 0.2, cfg.Bootstrap.MaxProblemShare)
		assert.Equal(t, 3, cfg.Bootstrap.AttemptFactor)

		// Log defaults
		assert.Equal(t, "json", cfg.Log.Format)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "file", cfg.Log.Destination)

		// JobsNumber defaults to CPU count
		assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
	})
}

func TestOptionStoreDatabaseFile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid path",
			input:    "/data/panel.db",
			expected: "/data/panel.db",
		},
		{
			name:     "trims whitespace",
			input:    "  /data/panel.db  ",
			expected: "/data/panel.db",
		},
		{
			name:     "ignores empty string",
			input:    "",
			expected: "", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptStoreDatabaseFile(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Store.DatabaseFile)
		})
	}
}

func TestOptionMergeBuckets(t *testing.T) {
	tests := []struct {
		name      string
		low, high float64
		expLow    float64
		expHigh   float64
	}{
		{
			name:    "sets valid cut points",
			low:     85,
			high:    110,
			expLow:  85,
			expHigh: 110,
		},
		{
			name:    "ignores zero",
			low:     0,
			high:    0,
			expLow:  90, // Should keep default
			expHigh: 100,
		},
		{
			name:    "ignores negative",
			low:     -5,
			high:    -1,
			expLow:  90, // Should keep default
			expHigh: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{
				config.OptMergeBucketLow(tt.low),
				config.OptMergeBucketHigh(tt.high),
			})
			assert.Equal(t, tt.expLow, cfg.Merge.BucketLow)
			assert.Equal(t, tt.expHigh, cfg.Merge.BucketHigh)
		})
	}
}

func TestOptionBootstrapDraws(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid draws",
			input:    2000,
			expected: 2000,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 1000, // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -100,
			expected: 1000, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptBootstrapDraws(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Bootstrap.Draws)
		})
	}
}

func TestOptionBootstrapAlpha(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{
			name:     "sets valid alpha",
			input:    0.1,
			expected: 0.1,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 0.05, // Should keep default
		},
		{
			name:     "ignores values of 1 or more",
			input:    1.5,
			expected: 0.05, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptBootstrapAlpha(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Bootstrap.Alpha)
		})
	}
}

func TestOptionBootstrapMaxProblemShare(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{
			name:     "sets valid share",
			input:    0.5,
			expected: 0.5,
		},
		{
			name:     "allows a share of exactly 1",
			input:    1,
			expected: 1,
		},
		{
			name:     "ignores values above 1",
			input:    1.2,
			expected: 0.2, // Should keep default
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: 0.2, // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptBootstrapMaxProblemShare(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Bootstrap.MaxProblemShare)
		})
	}
}

func TestOptionLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid log level - debug",
			input:    "debug",
			expected: "debug",
		},
		{
			name:     "sets valid log level - warn",
			input:    "warn",
			expected: "warn",
		},
		{
			name:     "sets valid log level - error",
			input:    "error",
			expected: "error",
		},
		{
			name:     "normalizes to lowercase",
			input:    "DEBUG",
			expected: "debug",
		},
		{
			name:     "ignores invalid value",
			input:    "trace",
			expected: "info", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogLevel(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Level)
		})
	}
}

func TestOptionLogFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sets valid format - text",
			input:    "text",
			expected: "text",
		},
		{
			name:     "sets valid format - tint",
			input:    "tint",
			expected: "tint",
		},
		{
			name:     "ignores invalid value",
			input:    "xml",
			expected: "json", // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptLogFormat(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.Log.Format)
		})
	}
}

func TestOptionJobsNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
	}{
		{
			name:     "sets valid jobs number",
			input:    8,
			expected: 8,
		},
		{
			name:     "ignores zero",
			input:    0,
			expected: runtime.NumCPU(), // Should keep default
		},
		{
			name:     "ignores negative",
			input:    -5,
			expected: runtime.NumCPU(), // Should keep default
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			opt := config.OptJobsNumber(tt.input)
			cfg.Update([]config.Option{opt})
			assert.Equal(t, tt.expected, cfg.JobsNumber)
		})
	}
}

func TestMultipleOptions(t *testing.T) {
	t.Run("applies multiple options in order", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptStoreDatabaseFile("/tmp/store.db"),
			config.OptMergeBucketLow(85),
			config.OptBootstrapDraws(500),
			config.OptLogLevel("debug"),
			config.OptJobsNumber(16),
		}

		cfg.Update(opts)

		assert.Equal(t, "/tmp/store.db", cfg.Store.DatabaseFile)
		assert.Equal(t, 85.0, cfg.Merge.BucketLow)
		assert.Equal(t, 500, cfg.Bootstrap.Draws)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.Equal(t, 16, cfg.JobsNumber)

		// Unchanged fields keep defaults
		assert.Equal(t, 100.0, cfg.Merge.BucketHigh)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("later options override earlier ones", func(t *testing.T) {
		cfg := config.New()

		opts := []config.Option{
			config.OptBootstrapDraws(500),
			config.OptBootstrapDraws(2000),
		}

		cfg.Update(opts)

		assert.Equal(t, 2000, cfg.Bootstrap.Draws)
	})
}

func TestToOptions(t *testing.T) {
	t.Run("converts config to options correctly", func(t *testing.T) {
		// Create config with custom values
		original := config.New()
		opts := []config.Option{
			config.OptStoreDatabaseFile("/tmp/panel.db"),
			config.OptMergeBucketLow(85),
			config.OptMergeBucketHigh(110),
			config.OptMergeExcludeMonths([]string{"2020-04"}),
			config.OptBootstrapDraws(2000),
			config.OptBootstrapSampleSize(120),
			config.OptBootstrapAlpha(0.1),
			config.OptBootstrapMaxProblemShare(0.3),
			config.OptBootstrapAttemptFactor(5),
			config.OptLogLevel("debug"),
			config.OptLogFormat("text"),
			config.OptLogDestination("stdout"),
			config.OptJobsNumber(8),
		}
		original.Update(opts)

		// Convert to options and apply to new config
		convertedOpts := original.ToOptions()
		newCfg := config.New()
		newCfg.Update(convertedOpts)

		// Verify persistent fields match
		assert.Equal(t, original.Store.DatabaseFile, newCfg.Store.DatabaseFile)
		assert.Equal(t, original.Merge.BucketLow, newCfg.Merge.BucketLow)
		assert.Equal(t, original.Merge.BucketHigh, newCfg.Merge.BucketHigh)
		assert.Equal(t, original.Merge.ExcludeMonths, newCfg.Merge.ExcludeMonths)
		assert.Equal(t, original.Bootstrap.Draws, newCfg.Bootstrap.Draws)
		assert.Equal(t, original.Bootstrap.SampleSize, newCfg.Bootstrap.SampleSize)
		assert.Equal(t, original.Bootstrap.Alpha, newCfg.Bootstrap.Alpha)
		assert.Equal(t, original.Bootstrap.MaxProblemShare, newCfg.Bootstrap.MaxProblemShare)
		assert.Equal(t, original.Bootstrap.AttemptFactor, newCfg.Bootstrap.AttemptFactor)
		assert.Equal(t, original.Log.Level, newCfg.Log.Level)
		assert.Equal(t, original.Log.Format, newCfg.Log.Format)
		assert.Equal(t, original.Log.Destination, newCfg.Log.Destination)
		assert.Equal(t, original.JobsNumber, newCfg.JobsNumber)
	})

	t.Run("excludes runtime-only fields", func(t *testing.T) {
		cfg := config.New()
		cfg.Update([]config.Option{
			config.OptHomeDir("/custom/home"),
			config.OptCapacityFile("/data/capacity.csv"),
			config.OptDeathsFile("/data/deaths.xlsx"),
			config.OptFitsFile("/data/fits.csv"),
			config.OptOutputDir("/data/out"),
			config.OptBootstrapTargetPopulation(98700),
			config.OptBootstrapTargetYear(2029),
			config.OptBootstrapSeed(42),
		})

		// These fields should not be in ToOptions() output
		opts := cfg.ToOptions()
		newCfg := config.New()
		newCfg.Update(opts)

		// Runtime fields should remain at defaults in newCfg
		assert.Equal(t, "", newCfg.HomeDir)
		assert.Equal(t, "", newCfg.Paths.CapacityFile)
		assert.Equal(t, "", newCfg.Paths.DeathsFile)
		assert.Equal(t, "", newCfg.Paths.FitsFile)
		assert.Equal(t, "", newCfg.Paths.OutputDir)
		assert.Equal(t, 0.0, newCfg.Bootstrap.TargetPopulation)
		assert.Equal(t, 0, newCfg.Bootstrap.TargetYear)
		assert.Equal(t, int64(0), newCfg.Bootstrap.Seed)
	})
}
