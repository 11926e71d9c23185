// =============================================================================
// PET Form Processor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'process', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (petform)
//   ├── processCmd (petform process)
//   ├── validateCmd (petform validate)
//   └── versionCmd (petform version)
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

// verbose enables per-file detail output when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "petform",

	Short: "PET Form Processor - Normalize promo submissions into upload sheets",

	Long: `PET Form Processor is a CLI batch tool that scans a directory of PET form
spreadsheet submissions, normalizes them against a canonical schema, expands
line items across calendar months, and regenerates the combined extract and
the mass upload sheet.

Key Features:
  - Fuzzy header detection across inconsistent submission layouts
  - Tolerant date resolution with start/end disambiguation
  - Month expansion with day-weighted quantity distribution
  - Customer mapping merge and metadata classification
  - Unresolved-value highlighting in both output workbooks

Example Usage:
  petform process                    # Process all files in the input directory
  petform process --config ./my.yaml # Use a custom configuration file
  petform validate                   # Validate configuration without processing`,

	Run: func(cmd *cobra.Command, args []string) {
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

// init sets up the persistent flags shared by every subcommand.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file (default is config.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
