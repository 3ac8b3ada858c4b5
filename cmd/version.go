package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "dev" // overridden at build time via -ldflags
	commit  = ""
	date    = ""
)

// versionString is shared with the MCP server handshake
func versionString() string {
	if commit == "" {
		return version
	}
	return fmt.Sprintf("%s+%s", version, commit)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Example: `  # Show version information
  ytscribe version`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ytscribe v%s (built %s, %s %s/%s)\n", versionString(), date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
