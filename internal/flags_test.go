package internal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func newFlagsCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	AddTranscriptionFlags(cmd)
	cmd.Flags().String("ids-file", "", "")
	cmd.Flags().String("api-key", "", "")
	cmd.Flags().BoolP("verbose", "v", false, "")
	cmd.Flags().BoolP("quiet", "q", false, "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return cmd
}

func TestApplyTranscriptionFlags(t *testing.T) {
	config := newTestConfig(t)
	config.WhisperModel = "large"
	config.GPUID = 1

	cmd := newFlagsCommand(t, "-o", "out", "--language", "ta", "--model", "small")
	if err := ApplyTranscriptionFlags(cmd, config); err != nil {
		t.Fatalf("ApplyTranscriptionFlags failed: %v", err)
	}

	if config.OutputDir != "out" || config.Language != "ta" || config.WhisperModel != "small" {
		t.Errorf("flags not applied: %+v", config)
	}
	if config.GPUID != 1 {
		t.Errorf("unset --gpu-id should keep config value, got %d", config.GPUID)
	}
}

func TestApplyTranscriptionFlagsValidates(t *testing.T) {
	cmd := newFlagsCommand(t, "--backend", "cloud")
	if err := ApplyTranscriptionFlags(cmd, newTestConfig(t)); err == nil {
		t.Error("expected validation error")
	}
}

func TestHandleVerboseFlag(t *testing.T) {
	config := newTestConfig(t)
	if err := HandleVerboseFlag(newFlagsCommand(t, "-v"), config); err != nil || !config.Verbose {
		t.Errorf("expected verbose, got %v (err %v)", config.Verbose, err)
	}

	config = newTestConfig(t)
	if err := HandleVerboseFlag(newFlagsCommand(t, "-v", "-q"), config); err == nil {
		t.Error("expected error for --verbose with --quiet")
	}
}

func TestResolveBatchInputsFromArgs(t *testing.T) {
	config := newTestConfig(t)
	config.YouTubeAPIKey = "from-config"
	config.Language = "Kannada"

	cmd := newFlagsCommand(t, "--ids-file", "ignored.txt")
	inputs, err := ResolveBatchInputs(cmd, []string{"ids.txt"}, config, nil, false)
	if err != nil {
		t.Fatalf("ResolveBatchInputs failed: %v", err)
	}

	if inputs.IDsFile != "ids.txt" {
		t.Errorf("positional argument should win, got %s", inputs.IDsFile)
	}
	if inputs.APIKey != "from-config" {
		t.Errorf("expected config API key, got %q", inputs.APIKey)
	}
	if inputs.Language != LanguageKannada {
		t.Errorf("expected Kannada, got %s", inputs.Language)
	}
}

func TestResolveBatchInputsFlagKeyWins(t *testing.T) {
	config := newTestConfig(t)
	config.YouTubeAPIKey = "from-config"

	cmd := newFlagsCommand(t, "--ids-file", "ids.txt", "--api-key", "from-flag")
	inputs, err := ResolveBatchInputs(cmd, nil, config, nil, false)
	if err != nil {
		t.Fatalf("ResolveBatchInputs failed: %v", err)
	}
	if inputs.IDsFile != "ids.txt" || inputs.APIKey != "from-flag" {
		t.Errorf("unexpected inputs %+v", inputs)
	}
	if inputs.Language != DefaultLanguage {
		t.Errorf("non-interactive default should be Hindi, got %s", inputs.Language)
	}
}

func TestResolveBatchInputsPrompts(t *testing.T) {
	config := newTestConfig(t)
	var out bytes.Buffer
	prompter := NewPrompterWithIO(strings.NewReader("list.txt\n\n1\n"), &out)

	inputs, err := ResolveBatchInputs(newFlagsCommand(t), nil, config, prompter, true)
	if err != nil {
		t.Fatalf("ResolveBatchInputs failed: %v", err)
	}

	if inputs.IDsFile != "list.txt" {
		t.Errorf("expected prompted file, got %s", inputs.IDsFile)
	}
	if inputs.APIKey != "" {
		t.Errorf("empty answer should select the yt-dlp fallback, got %q", inputs.APIKey)
	}
	if !inputs.Language.IsAuto() {
		t.Errorf("expected auto-detect from menu choice 1, got %s", inputs.Language)
	}
}

func TestResolveBatchInputsNonInteractiveNeedsFile(t *testing.T) {
	if _, err := ResolveBatchInputs(newFlagsCommand(t), nil, newTestConfig(t), nil, false); err == nil {
		t.Error("expected error without IDs file")
	}
}
