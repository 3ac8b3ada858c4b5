package internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// UIManager handles all user interface concerns (progress, verbose output, status lines)
type UIManager interface {
	// Progress bars
	NewProgressBar(total int, description string) ProgressBar

	// Verbose output
	Verbose(format string, args ...any)

	// Status messages
	Printf(format string, args ...any)
	Println(args ...any)

	// Timestamped log lines; errors go to stderr even in quiet mode
	Logf(format string, args ...any)
	LogErrorf(format string, args ...any)

	// Rich reports whether output goes to an interactive terminal
	Rich() bool
}

// ProgressBar interface abstracts progress bar operations
type ProgressBar interface {
	Set(current int)
	Describe(description string)
	Finish()
}

const timestampLayout = "2006-01-02 15:04:05"

// StandardUIManager handles normal UI operations
type StandardUIManager struct {
	verbose bool
	quiet   bool
	out     io.Writer
	errOut  io.Writer
	now     func() time.Time
}

// NewUIManager writes to stdout and stderr
func NewUIManager(verbose, quiet bool) UIManager {
	return NewUIManagerWithWriters(verbose, quiet, os.Stdout, os.Stderr)
}

// NewUIManagerWithWriters writes to the given writers
func NewUIManagerWithWriters(verbose, quiet bool, out, errOut io.Writer) UIManager {
	return &StandardUIManager{
		verbose: verbose,
		quiet:   quiet,
		out:     out,
		errOut:  errOut,
		now:     time.Now,
	}
}

// Progress Bar Methods
func (ui *StandardUIManager) NewProgressBar(total int, description string) ProgressBar {
	// Verbose output would be torn up by the redrawing bar
	if ui.quiet || ui.verbose || !isTerminal(ui.errOut) {
		return &SilentProgressBar{bar: progressbar.DefaultSilent(int64(total))}
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(ui.errOut),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
	return &VisibleProgressBar{bar: bar}
}

// Verbose Output Methods
func (ui *StandardUIManager) Verbose(format string, args ...any) {
	if ui.verbose {
		fmt.Fprintf(ui.out, format, args...)
	}
}

// Status Message Methods
func (ui *StandardUIManager) Printf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, format, args...)
	}
}

func (ui *StandardUIManager) Println(args ...any) {
	if !ui.quiet {
		fmt.Fprintln(ui.out, args...)
	}
}

func (ui *StandardUIManager) Logf(format string, args ...any) {
	if !ui.quiet {
		fmt.Fprintf(ui.out, "[%s] %s\n", ui.now().Format(timestampLayout), fmt.Sprintf(format, args...))
	}
}

func (ui *StandardUIManager) LogErrorf(format string, args ...any) {
	fmt.Fprintf(ui.errOut, "[%s] %s\n", ui.now().Format(timestampLayout), fmt.Sprintf(format, args...))
}

func (ui *StandardUIManager) Rich() bool {
	return !ui.quiet && isTerminal(ui.out)
}

// isTerminal is false for anything that is not an *os.File attached to a TTY
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// VisibleProgressBar wraps the actual progress bar
type VisibleProgressBar struct {
	bar *progressbar.ProgressBar
}

func (v *VisibleProgressBar) Set(current int) {
	_ = v.bar.Set(current)
}

func (v *VisibleProgressBar) Describe(description string) {
	v.bar.Describe(description)
}

func (v *VisibleProgressBar) Finish() {
	_ = v.bar.Finish()
}

// SilentProgressBar implements a silent progress bar
type SilentProgressBar struct {
	bar *progressbar.ProgressBar
}

func (s *SilentProgressBar) Set(current int) {
	_ = s.bar.Set(current)
}

func (s *SilentProgressBar) Describe(description string) {
	// Do nothing for silent mode
}

func (s *SilentProgressBar) Finish() {
	_ = s.bar.Finish()
}
