package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/rtzll/ytscribe/internal"
)

// Replaced in tests
var (
	ensureYtDlp = internal.EnsureYtDlp
	appOptions  []internal.AppOption
)

// newMetadataFetcher picks the Data API when a key is available and falls back
// to yt-dlp, which newApp has already installed
func newMetadataFetcher(ctx context.Context, apiKey string) (internal.MetadataFetcher, error) {
	if apiKey == "" {
		if config.Verbose {
			fmt.Println("No YouTube Data API key, reading metadata with yt-dlp")
		}
		return internal.NewYouTube(config.AudioQuality, config.DownloadTimeout, config.Verbose), nil
	}

	api, err := internal.NewDataAPI(ctx, apiKey, config.Verbose)
	if err != nil {
		return nil, err
	}
	return api, nil
}

// newApp builds the App with the metadata source for apiKey and, when
// enabled, the run log. The returned close function is always safe to call.
func newApp(ctx context.Context, apiKey string) (*internal.App, func(), error) {
	if err := ensureYtDlp(ctx); err != nil {
		return nil, func() {}, err
	}

	runID := uuid.NewString()

	fetcher, err := newMetadataFetcher(ctx, apiKey)
	if err != nil {
		return nil, func() {}, err
	}

	var runLog *internal.RunLog
	if config.LogFile {
		runLog, err = internal.OpenRunLog(config.LogPath, runID)
		if err != nil {
			return nil, func() {}, fmt.Errorf("opening run log: %w", err)
		}
	}

	options := append([]internal.AppOption{
		internal.WithMetadataFetcher(fetcher),
		internal.WithRunLog(runLog),
		internal.WithRunID(runID),
	}, appOptions...)

	app, err := internal.NewApp(config, options...)
	if err != nil {
		_ = runLog.Close()
		return nil, func() {}, err
	}

	return app, func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		_ = runLog.Close()
	}, nil
}

// languageFromConfig resolves the configured language, defaulting to Hindi
func languageFromConfig() (internal.Language, error) {
	if config.Language == "" {
		return internal.DefaultLanguage, nil
	}
	return internal.ParseLanguage(config.Language)
}
