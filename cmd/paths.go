package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

// pathsCmd represents the paths command
var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Show paths used by the application",
	Example: `  # Show all application paths
  ytscribe paths`,
	Run: func(cmd *cobra.Command, args []string) {
		outputDir, err := filepath.Abs(config.OutputDir)
		if err != nil {
			outputDir = config.OutputDir
		}
		fmt.Printf("Config directory: %s\n", config.ConfigDir)
		fmt.Printf("Cache directory: %s\n", config.CacheDir)
		fmt.Printf("Temp directory: %s\n", config.TempDir)
		fmt.Printf("Run log: %s\n", config.LogPath)
		fmt.Printf("Output directory: %s\n", outputDir)
	},
}

func init() {
	rootCmd.AddCommand(pathsCmd)
}
