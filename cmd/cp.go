package cmd

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// cpCmd copies a stored transcript to the system clipboard instead of printing to stdout.
var cpCmd = &cobra.Command{
	Use:   "cp ID",
	Short: "Copy a stored transcript to the clipboard",
	Example: `  # Copy the transcript written by an earlier run
  ytscribe cp tAP1eZYEuKA

  # Look in a different output directory
  ytscribe cp tAP1eZYEuKA -o transcripts`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("output-dir") {
			config.OutputDir, _ = cmd.Flags().GetString("output-dir")
		}

		videoID := internal.NormalizeVideoID(args[0])
		transcript, err := internal.ReadTranscript(config.OutputDir, videoID)
		if err != nil {
			return fmt.Errorf("%w (run: ytscribe transcribe %s)", err, videoID)
		}

		if err := clipboard.WriteAll(transcript); err != nil {
			return fmt.Errorf("copying transcript to clipboard: %w", err)
		}

		if !config.Quiet {
			fmt.Println("Transcript copied to clipboard")
		}

		return nil
	},
}

func init() {
	cpCmd.Flags().StringP("output-dir", "o", "", "Directory holding transcripts (default \"audio_files\")")
	rootCmd.AddCommand(cpCmd)
}
