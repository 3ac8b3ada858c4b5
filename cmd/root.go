package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rtzll/ytscribe/internal"
)

var (
	config     *internal.Config
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ytscribe [IDS_FILE]",
	Short: "Batch-download YouTube audio and transcribe it with Whisper",
	Long: `ytscribe reads a text file with one YouTube video ID per line, downloads
the audio of each video as mp3 and transcribes it with Whisper.

Videos are processed one at a time, in file order. Files that already exist
in the output directory are reused, so an interrupted run can simply be
started again. Metadata (title, publish date, duration) comes from the
YouTube Data API when an API key is available, otherwise from yt-dlp.`,
	Example: `  # Transcribe every video listed in ids.txt (Hindi by default)
  ytscribe ids.txt

  # Auto-detect the spoken language and use the second GPU
  ytscribe ids.txt --language auto --gpu-id 1

  # Write files somewhere else and use the Data API for metadata
  ytscribe --ids-file ids.txt -o transcripts --api-key "$YT_API_KEY"

  # Use OpenAI's hosted Whisper instead of a local model
  ytscribe ids.txt --backend openai`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return internal.HandleVerboseFlag(cmd, config)
	},
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBatch(cmd, args, os.Stdout)
	},
}

// runBatch processes the ID file and prints the report to out. Failed videos
// only produce an error with --fail-on-error.
func runBatch(cmd *cobra.Command, args []string, out io.Writer) error {
	if cmd.Flags().Changed("fail-on-error") {
		config.FailOnError, _ = cmd.Flags().GetBool("fail-on-error")
	}
	if err := internal.ApplyTranscriptionFlags(cmd, config); err != nil {
		return err
	}

	inputs, err := internal.ResolveBatchInputs(cmd, args, config, internal.NewPrompter(), internal.IsInteractive())
	if err != nil {
		return err
	}

	ids, err := internal.ReadVideoIDs(inputs.IDsFile)
	if err != nil {
		return err
	}

	app, closeApp, err := newApp(cmd.Context(), inputs.APIKey)
	if err != nil {
		return err
	}
	defer closeApp()

	report := app.RunBatch(cmd.Context(), ids, inputs.Language)

	if err := internal.CleanupTempDir(config.TempDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if err := report.Print(out, app.UI().Rich()); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}

	if config.FailOnError && report.HasFailures() {
		return fmt.Errorf("%d of %d video(s) did not produce a transcript",
			len(report.Failed())+len(report.Pending()), len(report.Items))
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal: stop before the next video. Second signal: exit now.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		if _, ok := <-sigCh; !ok {
			return
		}
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal. Stopping after the current step (Ctrl+C again to exit now)...")
		cancel()

		if _, ok := <-sigCh; !ok {
			return
		}
		fmt.Fprintln(os.Stderr, "Exiting.")

		cleanupDone := make(chan struct{})
		go func() {
			if config != nil {
				if err := internal.CleanupTempDir(config.TempDir); err != nil {
					fmt.Fprintf(os.Stderr, "Error cleaning up temporary files: %v\n", err)
				}
			}
			close(cleanupDone)
		}()

		select {
		case <-cleanupDone:
		case <-time.After(3 * time.Second):
			fmt.Fprintln(os.Stderr, "Warning: Cleanup timed out, forcing exit")
		}

		os.Exit(130)
	}()

	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

// initConfig runs after flag parsing so --config is honoured
func initConfig() {
	config = internal.InitConfig(configFile)

	if err := internal.EnsureDirs(config.ConfigDir, config.CacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating XDG directories: %v\n", err)
		os.Exit(1)
	}

	if configFile == "" {
		if err := internal.EnsureDefaultConfig(config.ConfigDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to ensure default config: %v\n", err)
		}
	}
}

func addBatchFlags(cmd *cobra.Command) {
	internal.AddTranscriptionFlags(cmd)
	cmd.Flags().String("ids-file", "", "Text file with one YouTube video ID per line")
	cmd.Flags().String("api-key", "", "YouTube Data API key (default: YT_API_KEY)")
	cmd.Flags().Bool("fail-on-error", false, "Exit with status 1 if any video fails")
}

func init() {
	cobra.OnInitialize(initConfig)

	addBatchFlags(rootCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for debugging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only print errors and the final report")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default is $XDG_CONFIG_HOME/ytscribe/config.toml)")
}
