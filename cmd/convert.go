// Package cmd provides the command-line interface for image conversion.
// This file contains the command that re-encodes a disc image into the
// Games on Demand container format.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/godtools/pkg"
	"github.com/hansbonini/godtools/pkg/common"
	"github.com/hansbonini/godtools/pkg/titles"
	"github.com/hansbonini/godtools/pkg/unity"
	"github.com/spf13/cobra"
)

// convertCmd re-encodes a disc image into the Games on Demand format.
// The source file system is parsed for the title identity, the raw data
// region is split into hashed part files and a con header is written last.
var convertCmd = &cobra.Command{
	Use:   "convert [source_image] [output_directory]",
	Short: "Convert a disc image into a Games on Demand container",
	Long: `Convert an Xbox 360 or original Xbox disc image into the Games on
Demand container format.

The command detects the image's volume layout, extracts the title identity
from the embedded executable (default.xex or default.xbe), re-encodes the raw
data region into hashed part files and writes the con header that certifies
the whole chain.

The game title is resolved via XboxUnity unless --offline is given, falling
back to the built-in title table, then to --game-title.

Output:
  <output>/<TITLEID>/<CONTENTTYPE>/<MEDIAID>            con header
  <output>/<TITLEID>/<CONTENTTYPE>/<MEDIAID>.data/      part files

Example:
  godtools convert game.iso ./output/
  godtools convert --trim --workers 4 game.iso ./output/
  godtools convert --offline --game-title "My Game" game.iso ./output/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceImage := args[0]
		outputDir := args[1]

		offline, err := cmd.Flags().GetBool("offline")
		if err != nil {
			return fmt.Errorf("error getting offline flag: %w", err)
		}
		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return fmt.Errorf("error getting dry-run flag: %w", err)
		}
		gameTitle, err := cmd.Flags().GetString("game-title")
		if err != nil {
			return fmt.Errorf("error getting game-title flag: %w", err)
		}
		trim, err := cmd.Flags().GetBool("trim")
		if err != nil {
			return fmt.Errorf("error getting trim flag: %w", err)
		}
		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return fmt.Errorf("error getting workers flag: %w", err)
		}
		iconPath, err := cmd.Flags().GetString("game-icon")
		if err != nil {
			return fmt.Errorf("error getting game-icon flag: %w", err)
		}

		var gameIcon []byte
		if iconPath != "" {
			gameIcon, err = os.ReadFile(iconPath)
			if err != nil {
				return fmt.Errorf("failed to read game icon: %w", err)
			}
		}

		processor := pkg.NewGodProcessor(pkg.ConvertOptions{
			GameTitle:  gameTitle,
			GameIcon:   gameIcon,
			TitleNamer: titleNamer(offline),
			Trim:       trim,
			Workers:    workers,
		})

		if dryRun {
			info, err := processor.Inspect(sourceImage)
			if err != nil {
				return fmt.Errorf("failed to inspect source image: %w", err)
			}
			printImageInfo(info, titleNamer(offline))
			return nil
		}

		fmt.Printf("Converting image: %s\n", sourceImage)
		fmt.Printf("Output directory: %s\n", outputDir)

		if err := processor.Convert(sourceImage, outputDir); err != nil {
			return fmt.Errorf("failed to convert image: %w", err)
		}

		fmt.Println("Image converted successfully!")
		return nil
	},
}

// titleNamer builds the title lookup chain: XboxUnity first (unless offline),
// then the built-in table.
func titleNamer(offline bool) pkg.TitleNamer {
	return func(titleID uint32) (string, bool) {
		if !offline {
			common.LogInfo(common.InfoQueryingUnity, titleID)
			client := unity.NewClient()
			title, err := client.FindXbox360Title(titleID)
			if err != nil {
				common.LogWarn(common.WarnUnityUnavailable, err)
			} else if title != nil {
				return title.Name, true
			}
		}
		if name, ok := titles.Lookup(titleID); ok {
			common.LogInfo(common.InfoTitleFromTable)
			return name, true
		}
		return "", false
	}
}

// init initializes the convert command with its flags.
func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().Bool("offline", false, "Do not query XboxUnity for title info")
	convertCmd.Flags().Bool("dry-run", false, "Do not convert anything, just print the title info")
	convertCmd.Flags().String("game-title", "", "Set the game title explicitly")
	convertCmd.Flags().String("game-icon", "", "PNG file to embed as the game icon (max 1024 bytes)")
	convertCmd.Flags().Bool("trim", false, "Crop the data region to its used prefix")
	convertCmd.Flags().IntP("workers", "j", 0, "Number of parallel part writers (default: number of CPUs)")
}
