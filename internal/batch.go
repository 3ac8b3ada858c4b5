package internal

import (
	"context"
	"fmt"
	"time"
)

// progressReporter is implemented by downloaders that report percentages
type progressReporter interface {
	OnProgress(fn func(percent int))
}

// RunBatch processes videoIDs one at a time, in order: metadata, audio, transcript.
// A metadata failure is logged and does not stop the video; a download or
// transcription failure marks it failed and the batch moves on. Cancelling ctx
// stops the loop before the next video, leaving the rest pending.
func (app *App) RunBatch(ctx context.Context, videoIDs []string, lang Language) *Report {
	app.mu.Lock()
	defer app.mu.Unlock()

	report := NewReport(app.runID, videoIDs, lang, app.config.OutputDir)
	total := len(report.Items)

	app.ui.Logf("Processing %d video(s), language: %s, output: %s", total, lang, app.config.OutputDir)
	app.runLog.Infof("start: %d video(s), language=%s, output=%s", total, lang, app.config.OutputDir)

	bar := app.ui.NewProgressBar(total, "Transcribing")
	defer bar.Finish()

	for i, item := range report.Items {
		if ctx.Err() != nil {
			app.ui.LogErrorf("Interrupted, %d video(s) not processed", total-i)
			app.runLog.Errorf("interrupted before %s", item.ID)
			break
		}

		bar.Set(i)
		bar.Describe(item.ID)
		if reporter, ok := app.downloader.(progressReporter); ok {
			id := item.ID
			reporter.OnProgress(func(percent int) {
				bar.Describe(fmt.Sprintf("%s %d%%", id, percent))
			})
		}

		app.processItem(ctx, item, total, lang)
	}

	bar.Set(total)
	report.FinishedAt = time.Now()
	app.runLog.Infof("done: %d succeeded, %d failed, %d pending",
		len(report.Succeeded()), len(report.Failed()), len(report.Pending()))

	return report
}

// processItem drives one item to a terminal state
func (app *App) processItem(ctx context.Context, item *Item, total int, lang Language) {
	app.ui.Logf("[%d/%d] %s", item.Index+1, total, item.ID)

	metadata, err := app.LookupMetadata(ctx, item.ID)
	if err != nil {
		item.State = StateMetadataSkipped
		item.MetadataErr = err
		app.ui.LogErrorf("Metadata unavailable: %v", err)
		app.runLog.Errorf("%s: %v", item.ID, err)
	} else {
		item.State = StateMetadataFetched
		item.Metadata = metadata
		app.ui.Logf("Title: %s | Published: %s | Duration: %s",
			metadata.Title, metadata.PublishedAt.Format(time.DateOnly), metadata.DurationString())
	}

	audioPath, cached, err := app.EnsureAudio(ctx, item.ID)
	if err != nil {
		item.fail(err)
		app.ui.LogErrorf("Error: %v", err)
		app.runLog.Errorf("%s: %v", item.ID, err)
		return
	}
	item.State = StateAudioReady
	item.AudioPath = audioPath
	item.AudioCached = cached
	if cached {
		app.ui.Logf("Audio already exists, skipping download: %s", audioPath)
	} else {
		app.ui.Logf("Audio saved: %s", audioPath)
	}

	transcriptPath, cached, err := app.EnsureTranscript(ctx, item.ID, audioPath, lang)
	if err != nil {
		item.fail(err)
		app.ui.LogErrorf("Error: %v", err)
		app.runLog.Errorf("%s: %v", item.ID, err)
		return
	}
	item.State = StateTranscriptReady
	item.TranscriptPath = transcriptPath
	item.TranscriptCached = cached
	if cached {
		app.ui.Logf("Transcript already exists, skipping transcription: %s", transcriptPath)
	} else {
		app.ui.Logf("Transcript saved: %s", transcriptPath)
	}
	app.runLog.Infof("%s: transcript at %s", item.ID, transcriptPath)
}
