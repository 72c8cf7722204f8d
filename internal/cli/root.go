package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/jurisflow/internal/logging"
	"github.com/ppiankov/jurisflow/internal/model"
	"github.com/ppiankov/jurisflow/internal/pipeline"
)

// version is set at build time with -ldflags "-X ...cli.version=..."
var version = "v0.1.0"

var (
	cfgFile string
	verbose bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "jurisflow",
	Short: "Jurisflow - structured records from Brazilian judicial documents",
	Long: `Jurisflow turns candidate values found in labor-law petitions and
social-security (INSS) decisions into one validated, structured record.

For every field it picks a single value, records conflicts between
sources, and tells apart values pegged to the minimum wage (DYNAMIC)
from fixed amounts (FIXED).

It extracts and organizes. It does not compute owed amounts or judge
the merits of a claim.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "jurisflow %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := model.DefaultConfig()
	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.jurisflow/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.BoolVar(&noCache, "no-cache", false, "disable the record cache")
	flags.String("log-level", defaults.Logging.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Logging.Format, "log format (console, json)")

	// Engine flags
	flags.String("tables", defaults.Engine.TablesPath, "YAML reference tables overlaid on the built-in ones")
	flags.String("tolerance", defaults.Engine.Tolerance, "minimum-wage match tolerance in reais")
	flags.String("policy", defaults.Engine.Eligibility, "candidate eligibility policy (all, condemnation)")
	flags.String("correction-index", defaults.Engine.DefaultCorrectionIndex, "correction index used when no source names one")

	// LLM flags
	flags.String("llm-provider", defaults.LLM.Provider, "LLM candidate extractor (openai, ollama; empty disables)")
	flags.String("llm-model", defaults.LLM.Model, "LLM model name")

	// Bind flags to viper
	for key, name := range map[string]string{
		"output.verbose":                  "verbose",
		"logging.level":                   "log-level",
		"logging.format":                  "log-format",
		"engine.tables_path":              "tables",
		"engine.tolerance":                "tolerance",
		"engine.eligibility":              "policy",
		"engine.default_correction_index": "correction-index",
		"llm.provider":                    "llm-provider",
		"llm.model":                       "llm-model",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// envKeys are the settings that can come from JURISFLOW_* variables
var envKeys = []string{
	"engine.tolerance", "engine.default_correction_index", "engine.eligibility",
	"engine.check_range", "engine.tables_path",
	"concurrency.workers", "concurrency.documents_per_second", "concurrency.burst",
	"cache.enabled", "cache.memory_ttl", "cache.disk_dir", "cache.disk_ttl",
	"llm.provider", "llm.model", "llm.base_url", "llm.timeout",
	"llm.strict_candidates", "llm.max_tokens",
	"llm.http_proxy", "llm.https_proxy", "llm.no_proxy",
	"output.verbose", "output.pretty", "output.report",
	"logging.level", "logging.format",
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".jurisflow"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match JURISFLOW_*
	viper.SetEnvPrefix("JURISFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range envKeys {
		_ = viper.BindEnv(key)
	}
	_ = viper.BindEnv("llm.api_key", "JURISFLOW_LLM_API_KEY", "OPENAI_API_KEY")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges flags, environment and config file onto the defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// newPipeline builds the configured pipeline and its logger. The caller
// syncs the logger.
func newPipeline() (*pipeline.Pipeline, *model.Config, *zap.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(cfg.Logging, cfg.Output.Verbose)
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(logger))
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}
	return p, cfg, logger, nil
}
