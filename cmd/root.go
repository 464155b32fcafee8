// Package cmd provides command-line interface functionality for GodTools.
// GodTools is a collection of utilities for converting Xbox 360 and original
// Xbox disc images into the Games on Demand container format.
package cmd

import (
	"os"

	"github.com/hansbonini/godtools/pkg/common"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the GodTools application.
var rootCmd = &cobra.Command{
	Use:   "godtools",
	Short: "Tools for converting Xbox disc images to Games on Demand",
	Long: `GodTools - A collection of utilities for converting Xbox 360 and
original Xbox disc images into the Games on Demand container format.

Currently supports:
  - convert (re-encode a disc image into GoD part files plus con header)
  - info    (extract and print the image's identity metadata)
  - list    (list the files inside the image's GDFX file system)

Examples:
  godtools convert game.iso ./output/
  godtools convert --trim --offline game.iso ./output/
  godtools info game.iso
  godtools list -v game.iso

Use 'godtools [command] --help' for more information about a command.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		common.SetVerboseMode(verbose)

		if logFile, _ := cmd.Flags().GetString("log-file"); logFile != "" {
			common.SetLogFile(logFile)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command with flags and configuration settings.
func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output with detailed processing information")
	rootCmd.PersistentFlags().String("log-file", "", "Mirror log output into a rotating log file")
}
