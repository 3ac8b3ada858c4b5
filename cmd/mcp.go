package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP server exposing metadata lookup and transcription",
	Long: `Run a Model Context Protocol (MCP) server that exposes ytscribe as tools.

The MCP server provides two tools:
- get_video_metadata: title, channel, publish date and duration of a video
- transcribe_video: download and transcribe a video, reusing existing files

Transport options:
- stdio (default): Standard MCP transport via stdin/stdout
- http: HTTP transport on specified port (use --port to configure)`,
	Example: `  # Run MCP server with stdio transport
  ytscribe mcp

  # Run MCP server with HTTP transport on port 8080
  ytscribe mcp --transport=http --port=8080`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// stdout carries the protocol; keep it clean
		config.Verbose = false
		config.Quiet = true
		return internal.ApplyTranscriptionFlags(cmd, config)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		app, closeApp, err := newApp(cmd.Context(), config.YouTubeAPIKey)
		if err != nil {
			return err
		}
		defer closeApp()

		if transport == "http" {
			fmt.Fprintf(os.Stderr, "Starting ytscribe MCP server on HTTP port %d...\n", port)
		}

		return internal.NewMCPServer(app, versionString()).Start(cmd.Context(), transport, port)
	},
}

func init() {
	internal.AddTranscriptionFlags(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol (stdio or http)")
	mcpCmd.Flags().Int("port", 8080, "Port for HTTP transport (only used with --transport=http)")
	rootCmd.AddCommand(mcpCmd)
}
