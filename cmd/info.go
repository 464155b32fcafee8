// Package cmd provides the command-line interface for image inspection.
// This file contains the command that prints a disc image's identity
// metadata without converting it.
package cmd

import (
	"fmt"

	"github.com/hansbonini/godtools/pkg"
	"github.com/spf13/cobra"
)

// infoCmd extracts and prints the identity metadata of a disc image.
var infoCmd = &cobra.Command{
	Use:   "info [source_image]",
	Short: "Print identity metadata of a disc image",
	Long: `Extract and print the identity metadata of an Xbox 360 or original
Xbox disc image: volume layout, executable format, title id, media id,
version and disc numbering, plus the part count a conversion would produce.

Example:
  godtools info game.iso
  godtools info --offline game.iso`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceImage := args[0]

		offline, err := cmd.Flags().GetBool("offline")
		if err != nil {
			return fmt.Errorf("error getting offline flag: %w", err)
		}

		processor := pkg.NewGodProcessor(pkg.ConvertOptions{})

		info, err := processor.Inspect(sourceImage)
		if err != nil {
			return fmt.Errorf("failed to inspect source image: %w", err)
		}

		printImageInfo(info, titleNamer(offline))
		return nil
	},
}

// printImageInfo renders the inspection result, shared with convert --dry-run
func printImageInfo(info *pkg.ImageInfo, namer pkg.TitleNamer) {
	execution := &info.Title.ExecutionInfo

	fmt.Printf("Volume layout:     %s\n", info.Layout)
	fmt.Printf("Executable format: %s\n", info.Title.Format)
	fmt.Printf("Content type:      %s\n", info.ContentType)
	fmt.Printf("Title ID:          %08X\n", execution.TitleID)
	fmt.Printf("Media ID:          %08X\n", execution.MediaID)
	fmt.Printf("Version:           %08X (base %08X)\n", execution.Version, execution.BaseVersion)
	fmt.Printf("Disc:              %d of %d\n", execution.DiscNumber, execution.DiscCount)
	fmt.Printf("Data size:         %d bytes (%d trimmed)\n", info.DataSize, info.TrimmedSize)
	fmt.Printf("Blocks:            %d\n", info.BlockCount)
	fmt.Printf("Parts:             %d\n", info.PartCount)

	if name, ok := namer(execution.TitleID); ok {
		fmt.Printf("Game title:        %s\n", name)
	} else {
		fmt.Println("Game title:        (unknown)")
	}
}

// init initializes the info command with its flags.
func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().Bool("offline", false, "Do not query XboxUnity for title info")
}
