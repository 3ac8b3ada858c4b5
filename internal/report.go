package internal

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Report is the outcome of one batch run
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Language   Language
	OutputDir  string
	Items      []*Item
}

// NewReport creates a report with every ID pending
func NewReport(runID string, videoIDs []string, lang Language, outputDir string) *Report {
	items := make([]*Item, len(videoIDs))
	for i, id := range videoIDs {
		items[i] = &Item{Index: i, ID: id, State: StatePending}
	}
	return &Report{
		RunID:     runID,
		StartedAt: time.Now(),
		Language:  lang,
		OutputDir: outputDir,
		Items:     items,
	}
}

func (r *Report) filter(keep func(*Item) bool) []*Item {
	var out []*Item
	for _, item := range r.Items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

// Succeeded returns items with a transcript
func (r *Report) Succeeded() []*Item {
	return r.filter(func(it *Item) bool { return it.State == StateTranscriptReady })
}

// Failed returns items that failed download or transcription
func (r *Report) Failed() []*Item {
	return r.filter(func(it *Item) bool { return it.State == StateFailed })
}

// Pending returns items the run never finished, e.g. after an interrupt
func (r *Report) Pending() []*Item {
	return r.filter(func(it *Item) bool { return !it.State.IsTerminal() })
}

// HasFailures reports whether any item failed or was left unprocessed
func (r *Report) HasFailures() bool {
	return len(r.Failed()) > 0 || len(r.Pending()) > 0
}

// Elapsed is the wall time of the run
func (r *Report) Elapsed() time.Duration {
	end := r.FinishedAt
	if end.IsZero() {
		end = time.Now()
	}
	return end.Sub(r.StartedAt).Round(time.Second)
}

// Summary renders the report as plain text
func (r *Report) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run %s: %d succeeded, %d failed", r.RunID, len(r.Succeeded()), len(r.Failed()))
	if pending := len(r.Pending()); pending > 0 {
		fmt.Fprintf(&sb, ", %d not processed", pending)
	}
	fmt.Fprintf(&sb, " (of %d) in %s\n", len(r.Items), r.Elapsed())

	if failed := r.Failed(); len(failed) > 0 {
		sb.WriteString("Failed:\n")
		for _, item := range failed {
			fmt.Fprintf(&sb, "  - %s: %v\n", item.ID, item.Err)
		}
	}

	if pending := r.Pending(); len(pending) > 0 {
		sb.WriteString("Not processed:\n")
		for _, item := range pending {
			fmt.Fprintf(&sb, "  - %s\n", item.ID)
		}
	}

	return sb.String()
}

// Markdown renders the report as a markdown table
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Transcription report\n\n")
	fmt.Fprintf(&sb, "Run `%s` | language **%s** | output `%s` | %s\n\n", r.RunID, r.Language, r.OutputDir, r.Elapsed())
	sb.WriteString("| # | Video | Status | Audio | Transcript |\n")
	sb.WriteString("|---|---|---|---|---|\n")

	for _, item := range r.Items {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n",
			item.Index+1,
			escapeCell(item.Label()),
			item.State,
			artifactStatus(item.AudioPath, item.AudioCached),
			artifactStatus(item.TranscriptPath, item.TranscriptCached))
	}

	if failed := r.Failed(); len(failed) > 0 {
		sb.WriteString("\n## Failures\n\n")
		for _, item := range failed {
			fmt.Fprintf(&sb, "- `%s`: %s\n", item.ID, escapeCell(item.Err.Error()))
		}
	}

	fmt.Fprintf(&sb, "\n**%d succeeded, %d failed**\n", len(r.Succeeded()), len(r.Failed()))
	return sb.String()
}

// Print writes the report to w, rendered with glamour when rich is set
func (r *Report) Print(w io.Writer, rich bool) error {
	if rich {
		rendered, err := RenderMarkdown(r.Markdown())
		if err == nil {
			_, err = io.WriteString(w, rendered)
			return err
		}
	}
	_, err := io.WriteString(w, r.Summary())
	return err
}

func artifactStatus(path string, cached bool) string {
	switch {
	case path == "":
		return "-"
	case cached:
		return "existing"
	default:
		return "new"
	}
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
