package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

// AddTranscriptionFlags adds flags shared by every command that transcribes
func AddTranscriptionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output-dir", "o", "", "Directory for audio and transcript files (default \"audio_files\")")
	cmd.Flags().StringP("language", "l", "", "Spoken language: auto, Kannada, Hindi, Tamil, Marathi, Gujarati, Punjabi, Bengali (or ISO code)")
	cmd.Flags().Int("gpu-id", 0, "CUDA device index for the local whisper backend")
	cmd.Flags().String("backend", "", "Transcription backend: local or openai")
	cmd.Flags().String("model", "", "Whisper model name for the local backend (e.g. large, medium)")
}

// ApplyTranscriptionFlags copies explicitly set flags over config values
func ApplyTranscriptionFlags(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	if flags.Changed("output-dir") {
		config.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("language") {
		config.Language, _ = flags.GetString("language")
	}
	if flags.Changed("gpu-id") {
		config.GPUID, _ = flags.GetInt("gpu-id")
	}
	if flags.Changed("backend") {
		config.Backend, _ = flags.GetString("backend")
	}
	if flags.Changed("model") {
		config.WhisperModel, _ = flags.GetString("model")
	}

	return config.Validate()
}

// HandleVerboseFlag processes the --verbose and --quiet flags to update config
func HandleVerboseFlag(cmd *cobra.Command, config *Config) error {
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		verbose, err := flags.GetBool("verbose")
		if err != nil {
			return fmt.Errorf("failed to get verbose flag: %w", err)
		}
		config.Verbose = verbose
	}
	if flags.Changed("quiet") {
		quiet, err := flags.GetBool("quiet")
		if err != nil {
			return fmt.Errorf("failed to get quiet flag: %w", err)
		}
		config.Quiet = quiet
	}

	if config.Verbose && config.Quiet {
		return fmt.Errorf("--verbose and --quiet cannot be used together")
	}
	return nil
}

// BatchInputs are the values a batch run needs before it can start
type BatchInputs struct {
	IDsFile  string
	APIKey   string // empty means metadata comes from yt-dlp
	Language Language
}

// ResolveBatchInputs fills in the IDs file, API key and language from
// arguments, flags and config, prompting for whatever is still missing when
// interactive is set.
func ResolveBatchInputs(cmd *cobra.Command, args []string, config *Config, prompter *Prompter, interactive bool) (*BatchInputs, error) {
	inputs := &BatchInputs{}

	switch {
	case len(args) > 0:
		inputs.IDsFile = args[0]
	default:
		inputs.IDsFile, _ = cmd.Flags().GetString("ids-file")
	}
	if inputs.IDsFile == "" {
		if !interactive {
			return nil, fmt.Errorf("a video IDs file is required (argument or --ids-file)")
		}
		file, err := prompter.AskRequired("Path to the video IDs file (.txt)")
		if err != nil {
			return nil, fmt.Errorf("reading video IDs file path: %w", err)
		}
		inputs.IDsFile = file
	}

	inputs.APIKey, _ = cmd.Flags().GetString("api-key")
	if inputs.APIKey == "" {
		inputs.APIKey = config.YouTubeAPIKey
	}
	if inputs.APIKey == "" && interactive {
		key, err := prompter.AskSecret("YouTube Data API key (empty to read metadata with yt-dlp)")
		if err != nil {
			return nil, fmt.Errorf("reading API key: %w", err)
		}
		inputs.APIKey = key
	}

	switch {
	case config.Language != "":
		lang, err := ParseLanguage(config.Language)
		if err != nil {
			return nil, err
		}
		inputs.Language = lang
	case interactive:
		lang, err := prompter.ChooseLanguage()
		if err != nil {
			return nil, fmt.Errorf("reading language choice: %w", err)
		}
		inputs.Language = lang
	default:
		inputs.Language = DefaultLanguage
	}

	return inputs, nil
}
