package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// transcribeCmd represents the transcribe command
var transcribeCmd = &cobra.Command{
	Use:   "transcribe ID",
	Short: "Download and transcribe a single video, printing the transcript",
	Example: `  # Transcribe one video (existing files in the output directory are reused)
  ytscribe transcribe tAP1eZYEuKA
  ytscribe transcribe "https://youtu.be/tAP1eZYEuKA" --language Tamil

  # Use OpenAI's hosted Whisper
  ytscribe transcribe tAP1eZYEuKA --backend openai`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
			return err
		}

		lang, err := languageFromConfig()
		if err != nil {
			return err
		}

		app, closeApp, err := newApp(cmd.Context(), config.YouTubeAPIKey)
		if err != nil {
			return err
		}
		defer closeApp()

		transcript, err := app.TranscribeVideo(cmd.Context(), internal.NormalizeVideoID(args[0]), lang)
		if err != nil {
			return err
		}

		fmt.Println(transcript)
		return nil
	},
}

func init() {
	internal.AddTranscriptionFlags(transcribeCmd)
	rootCmd.AddCommand(transcribeCmd)
}
