package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodymetrics/custodypanel/internal/iofs"
	"github.com/custodymetrics/custodypanel/internal/iologger"
	app "github.com/custodymetrics/custodypanel/pkg/custodypanel"
	"github.com/custodymetrics/custodypanel/pkg/config"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
	Use:     "custodypanel",
	Short:   "Build and analyze the prison overcrowding and deaths panel",
	Long: `custodypanel assembles the monthly prison panel for the
October 2014 to September 2024 study window and projects deaths in
custody onto future population scenarios.

Phases:
  prisons    build the prison metadata table from the registry
  merge      join capacity and deaths tables into the monthly panel
  summarize  tabulate deaths by overcrowding status and cause
  project    bootstrap-project deaths onto a target population

Outputs live in the directory given by --output; intermediate results
are kept in a local SQLite store so each phase can run separately.`,
	PersistentPreRunE: bootstrapApp,
	RunE:              runRoot,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

func bootstrapApp(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults.
	// Will be reconfigured later with user's config settings.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureRegistryFiles(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	cfg.Update(opts)

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings
	if err = iologger.Init(config.LogDir(homeDir), cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	versionFlag(cmd)
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V
	rootCmd.Flags().BoolP("version", "V", false, "version for custodypanel")

	rootCmd.AddCommand(getPrisonsCmd())
	rootCmd.AddCommand(getMergeCmd())
	rootCmd.AddCommand(getSummarizeCmd())
	rootCmd.AddCommand(getProjectCmd())
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables
	// are allowed. These match the fields included in
	// config.ToOptions() - i.e., persistent configuration that can be
	// stored in config.yaml.
	v.SetEnvPrefix("CUSTODYPANEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Store configuration
	v.BindEnv("store.database_file", "STORE_DATABASE_FILE")

	// Merge configuration
	v.BindEnv("merge.bucket_low", "MERGE_BUCKET_LOW")
	v.BindEnv("merge.bucket_high", "MERGE_BUCKET_HIGH")

	// Bootstrap configuration
	v.BindEnv("bootstrap.draws", "BOOTSTRAP_DRAWS")
	v.BindEnv("bootstrap.sample_size", "BOOTSTRAP_SAMPLE_SIZE")
	v.BindEnv("bootstrap.alpha", "BOOTSTRAP_ALPHA")
	v.BindEnv("bootstrap.max_problem_share", "BOOTSTRAP_MAX_PROBLEM_SHARE")
	v.BindEnv("bootstrap.attempt_factor", "BOOTSTRAP_ATTEMPT_FACTOR")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
