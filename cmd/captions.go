package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

// captionsCmd represents the captions command
var captionsCmd = &cobra.Command{
	Use:   "captions [ID...]",
	Short: "Save the captions YouTube already publishes, without transcribing",
	Long: `Downloads existing YouTube captions and saves them as plain text in the
output directory. Manual captions are preferred over auto-generated ones.
Files that already exist are kept.`,
	Example: `  # Captions for the videos listed in ids.txt
  ytscribe captions --ids-file ids.txt

  # Every available language, files named after the video title
  ytscribe captions tAP1eZYEuKA --all-languages --title-names -o transcripts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCaptions(cmd, args, os.Stdout)
	},
}

// captionSource is replaced in tests
var captionSource = func() internal.CaptionSource {
	return internal.NewYtDlpCaptions(config.TempDir, config.Verbose)
}

func runCaptions(cmd *cobra.Command, args []string, out io.Writer) error {
	if cmd.Flags().Changed("output-dir") {
		config.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("fail-on-error") {
		config.FailOnError, _ = cmd.Flags().GetBool("fail-on-error")
	}

	ids := make([]string, 0, len(args))
	for _, arg := range args {
		ids = append(ids, internal.NormalizeVideoID(arg))
	}
	if idsFile, _ := cmd.Flags().GetString("ids-file"); idsFile != "" {
		fromFile, err := internal.ReadVideoIDs(idsFile)
		if err != nil {
			return err
		}
		ids = append(ids, fromFile...)
	}
	if len(ids) == 0 {
		return fmt.Errorf("give video IDs as arguments or with --ids-file")
	}

	if err := ensureYtDlp(cmd.Context()); err != nil {
		return err
	}

	allLanguages, _ := cmd.Flags().GetBool("all-languages")
	titleNames, _ := cmd.Flags().GetBool("title-names")

	saver := internal.NewCaptionSaver(captionSource(), internal.NewUIManager(config.Verbose, config.Quiet), internal.CaptionOptions{
		OutputDir:    config.OutputDir,
		AllLanguages: allLanguages,
		TitleNames:   titleNames,
	})

	results := saver.SaveAll(cmd.Context(), ids)
	fmt.Fprint(out, results.Summary())

	if config.FailOnError && (results.Failed() || len(results) < len(ids)) {
		return fmt.Errorf("captions missing for some videos")
	}
	return nil
}

func addCaptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "", "Directory for caption files (default: output_dir from config)")
	cmd.Flags().String("ids-file", "", "Text file with one YouTube video ID per line")
	cmd.Flags().BoolP("all-languages", "a", false, "Save every available caption language")
	cmd.Flags().Bool("title-names", false, "Name files after the video title instead of the ID")
	cmd.Flags().Bool("fail-on-error", false, "Exit with status 1 if any video has no captions")
}

func init() {
	addCaptionFlags(captionsCmd)
	rootCmd.AddCommand(captionsCmd)
}
