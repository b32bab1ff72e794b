// =============================================================================
// Catalog Scanner - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'scan', 'templates') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (catalogscan)
//   ├── scanCmd (catalogscan scan)
//   ├── templatesCmd (catalogscan templates list|show|delete|export|import)
//   └── versionCmd (catalogscan version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (e.g., --config, --verbose)
//   2. Loading the configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wholescan/catalog-scanner/internal/config"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// cfg is the loaded application configuration, available to all
// subcommands after the root's PersistentPreRunE has run.
var cfg *config.Config

// logger is the shared application logger.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
// This is the entry point for the CLI application.
var rootCmd = &cobra.Command{
	Use: "catalogscan",

	Short: "Catalog Scanner - Ingest wholesaler catalogs and map their columns",

	Long: `Catalog Scanner is a CLI tool for ingesting messy wholesaler catalogs
(CSV and Excel) and turning them into clean, field-mapped product data.

Key Features:
  - Automatic header row location in files with preamble junk
  - Delimiter and character encoding detection for CSV exports
  - Fuzzy column classification into standard catalog fields
  - Reusable per-wholesaler mapping templates
  - Bulk marketplace matching with profitability analysis

Example Usage:
  catalogscan scan supplier.csv              # Detect columns and print mappings
  catalogscan scan supplier.xlsx --save-template acme
  catalogscan templates list                 # Show saved templates`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		logger, err = buildLogger(cfg)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		return nil
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// LOGGING SETUP
// =============================================================================

// buildLogger constructs the application logger from the configuration.
// The --verbose flag forces debug level regardless of the config file.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	if cfg.LogFile != "" {
		zapCfg.OutputPaths = append(zapCfg.OutputPaths, cfg.LogFile)
	}

	return zapCfg.Build()
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// Persistent flags are available to this command and all subcommands.

	// --config flag: Allows the user to specify a custom configuration file.
	// Default is "config.yaml" in the current directory.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (default is config.yaml)",
	)

	// --verbose flag: Enables verbose/debug logging.
	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
