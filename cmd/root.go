// =============================================================================
// FEC to CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'process', 'inspect') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (fecconvert)
//   ├── processCmd (fecconvert process)
//   ├── inspectCmd (fecconvert inspect)
//   └── versionCmd (fecconvert version)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables verbose logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "fecconvert",

	Short: "FEC to CSV Converter - Transform campaign finance filings into tabular output",

	Long: `FEC to CSV Converter is a streaming CLI tool that decodes .fec electronic
filings from the US Federal Election Commission and converts them to CSV or
XLSX output.

Key Features:
  - Streaming parser: arbitrarily large filings, constant memory
  - Schema-driven decoding across all electronic filing format versions
  - Tolerant of real-world schema drift (extra or missing trailing fields)
  - One output table per record type code (SA, SB, F3X, ...)
  - Concurrent batch processing with automatic input archival

Example Usage:
  fecconvert process                    # Convert all filings in the input directory
  fecconvert process --config ./my.yaml # Use a custom configuration file
  fecconvert inspect filing.fec         # Print a filing's header and cover`,

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// --config flag: Allows the user to specify a custom configuration file.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
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
