// Package cmd provides the command-line interface for file system listing.
// This file contains the command that walks a disc image's GDFX directory
// tree and prints every entry.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/godtools/pkg/iso"
	"github.com/spf13/cobra"
)

// listCmd lists the files inside a disc image's GDFX file system.
var listCmd = &cobra.Command{
	Use:   "list [source_image]",
	Short: "List files inside a disc image",
	Long: `List the files of an Xbox 360 or original Xbox disc image's GDFX
file system in declaration order.

When verbose mode is enabled (-v), each entry is printed with:
  - Sector (relative to the layout's root offset)
  - Size in bytes
  - Attribute flags
  - Path within the image

Example:
  godtools list game.iso
  godtools list -v game.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceImage := args[0]

		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}

		source, err := os.Open(sourceImage)
		if err != nil {
			return fmt.Errorf("failed to open source image: %w", err)
		}
		defer source.Close()

		image, err := iso.NewReader(source)
		if err != nil {
			return fmt.Errorf("failed to read source image: %w", err)
		}

		fmt.Printf("Volume layout: %s\n", image.Layout)

		image.Root.Walk(func(path string, entry *iso.DirectoryEntry) {
			if verbose {
				fmt.Printf("%-10d %-12d %02X %s\n",
					entry.Extent.Sector, entry.Extent.Size, uint8(entry.Attributes), path)
			} else {
				fmt.Println(path)
			}
		})

		return nil
	},
}

// init initializes the list command.
func init() {
	rootCmd.AddCommand(listCmd)
}
