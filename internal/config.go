package internal

import (
	"context"
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// CommandRunner executes external commands
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// DefaultCommandRunner implements CommandRunner
type DefaultCommandRunner struct{}

func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// Transcription backends
const (
	BackendLocal  = "local"
	BackendOpenAI = "openai"
)

// Config holds application settings
type Config struct {
	// User configurable settings
	OutputDir       string
	Language        string // empty means "ask, or fall back to DefaultLanguage"
	GPUID           int
	Backend         string
	WhisperModel    string
	WhisperPython   string
	AudioQuality    string
	WhisperTimeout  time.Duration
	DownloadTimeout time.Duration
	YouTubeAPIKey   string
	OpenAIAPIKey    string
	Verbose         bool
	Quiet           bool
	LogFile         bool
	FailOnError     bool

	// Fixed XDG paths (not configurable)
	ConfigDir string
	CacheDir  string
	TempDir   string
	LogPath   string
}

//go:embed config.toml
var defaultFS embed.FS

// WhisperLimit is the maximum file size accepted by OpenAI's Whisper API (25 MiB)
const WhisperLimit int64 = 25 << 20

// DefaultOutputDir is relative to the working directory
const DefaultOutputDir = "audio_files"

// EnsureDefaultConfig writes the embedded config.toml into configDir unless one exists
func EnsureDefaultConfig(configDir string) error {
	filePath := filepath.Join(configDir, "config.toml")
	if FileExists(filePath) {
		return nil
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	content, err := defaultFS.ReadFile("config.toml")
	if err != nil {
		return fmt.Errorf("reading embedded default configuration: %w", err)
	}

	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("writing default configuration: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created default configuration at %s\n", filePath)
	return nil
}

// InitConfig loads .env, the config file and the environment into a Config.
// An empty configFile searches the XDG config directory and the working directory.
func InitConfig(configFile string) *Config {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	configDir := filepath.Join(xdg.ConfigHome, "ytscribe")
	cacheDir := filepath.Join(xdg.CacheHome, "ytscribe")

	v := viper.New()

	v.SetDefault("output_dir", DefaultOutputDir)
	v.SetDefault("language", "")
	v.SetDefault("gpu_id", 0)
	v.SetDefault("backend", BackendLocal)
	v.SetDefault("whisper_model", "large")
	v.SetDefault("whisper_python", "python3")
	v.SetDefault("audio_quality", "192K")
	v.SetDefault("whisper_timeout", 2*time.Hour)
	v.SetDefault("download_timeout", 30*time.Minute)
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("log_file", false)
	v.SetDefault("fail_on_error", false)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("YTSCRIBE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Well-known credential variables, no prefix
	_ = v.BindEnv("yt_api_key", "YTSCRIBE_YT_API_KEY", "YT_API_KEY")
	_ = v.BindEnv("openai_api_key", "YTSCRIBE_OPENAI_API_KEY", "OPENAI_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: Error reading config file: %v\n", err)
		}
	}

	config := &Config{
		OutputDir:       v.GetString("output_dir"),
		Language:        v.GetString("language"),
		GPUID:           v.GetInt("gpu_id"),
		Backend:         v.GetString("backend"),
		WhisperModel:    v.GetString("whisper_model"),
		WhisperPython:   v.GetString("whisper_python"),
		AudioQuality:    v.GetString("audio_quality"),
		WhisperTimeout:  v.GetDuration("whisper_timeout"),
		DownloadTimeout: v.GetDuration("download_timeout"),
		YouTubeAPIKey:   v.GetString("yt_api_key"),
		OpenAIAPIKey:    v.GetString("openai_api_key"),
		Verbose:         v.GetBool("verbose"),
		Quiet:           v.GetBool("quiet"),
		LogFile:         v.GetBool("log_file"),
		FailOnError:     v.GetBool("fail_on_error"),

		ConfigDir: configDir,
		CacheDir:  cacheDir,
		TempDir:   filepath.Join(cacheDir, "tmp"),
		LogPath:   filepath.Join(cacheDir, "run.log"),
	}

	if config.Verbose {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	return config
}

// Validate checks settings that cannot be fixed by prompting
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendLocal, BackendOpenAI:
	default:
		return fmt.Errorf("unsupported backend: %q (supported: %s, %s)", c.Backend, BackendLocal, BackendOpenAI)
	}

	if c.GPUID < 0 {
		return fmt.Errorf("gpu id must be >= 0, got %d", c.GPUID)
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}

	if c.Language != "" {
		if _, err := ParseLanguage(c.Language); err != nil {
			return err
		}
	}

	if c.Backend == BackendOpenAI {
		return ValidateOpenAIAPIKey(c.OpenAIAPIKey)
	}

	return nil
}

// ValidateOpenAIAPIKey checks if the OpenAI API key is set and returns a standardized error if not
func ValidateOpenAIAPIKey(apiKey string) error {
	if apiKey == "" {
		return fmt.Errorf("OpenAI API key is required for the openai backend - set it in config.toml or OPENAI_API_KEY environment variable")
	}
	return nil
}
