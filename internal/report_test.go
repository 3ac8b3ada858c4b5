package internal

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func newSampleReport() *Report {
	report := NewReport("run-1", []string{"ok", "bad", "todo"}, LanguageHindi, "audio_files")

	ok := report.Items[0]
	ok.State = StateTranscriptReady
	ok.Metadata = &VideoMetadata{Title: "Pipe | title"}
	ok.AudioPath = "audio_files/ok.mp3"
	ok.TranscriptPath = "audio_files/ok_transcription.txt"
	ok.TranscriptCached = true

	report.Items[1].fail(errors.New("download failed for bad: HTTP 403"))

	return report
}

func TestReportCounts(t *testing.T) {
	report := newSampleReport()

	if len(report.Succeeded()) != 1 || len(report.Failed()) != 1 || len(report.Pending()) != 1 {
		t.Errorf("unexpected counts: %d succeeded, %d failed, %d pending",
			len(report.Succeeded()), len(report.Failed()), len(report.Pending()))
	}
	if !report.HasFailures() {
		t.Error("expected HasFailures")
	}
}

func TestReportSummary(t *testing.T) {
	summary := newSampleReport().Summary()

	for _, want := range []string{
		"Run run-1: 1 succeeded, 1 failed, 1 not processed (of 3)",
		"  - bad: download failed for bad: HTTP 403",
		"Not processed:\n  - todo",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}

func TestReportMarkdown(t *testing.T) {
	md := newSampleReport().Markdown()

	for _, want := range []string{
		"| 1 | Pipe \\| title | transcript_ready | new | existing |",
		"| 2 | bad | failed | - | - |",
		"| 3 | todo | pending | - | - |",
		"**1 succeeded, 1 failed**",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestReportPrintPlain(t *testing.T) {
	var buf bytes.Buffer
	if err := newSampleReport().Print(&buf, false); err != nil {
		t.Fatalf("Print failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "Run run-1:") {
		t.Errorf("expected plain summary, got %q", buf.String())
	}
}

func TestReportAllSucceeded(t *testing.T) {
	report := NewReport("r", []string{"a"}, LanguageAuto, "out")
	report.Items[0].State = StateTranscriptReady

	if report.HasFailures() {
		t.Error("expected no failures")
	}
	if strings.Contains(report.Summary(), "Failed:") {
		t.Errorf("summary should not list failures: %q", report.Summary())
	}
}
