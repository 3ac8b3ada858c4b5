package internal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// defaultLanguageChoice is the menu number preselected on empty input
const defaultLanguageChoice = 3

// Prompter asks the operator for missing inputs
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// readSecret reads a line without echo; replaced in tests
	readSecret func() (string, error)
}

// NewPrompter reads from stdin and writes prompts to stderr
func NewPrompter() *Prompter {
	p := NewPrompterWithIO(os.Stdin, os.Stderr)
	p.readSecret = func() (string, error) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	return p
}

// NewPrompterWithIO uses the given streams; secrets are read visibly
func NewPrompterWithIO(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	p.readSecret = p.readLine
	return p
}

// IsInteractive reports whether stdin is a terminal
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask prints question and returns the trimmed answer
func (p *Prompter) Ask(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	return p.readLine()
}

// AskRequired repeats the question until a non-empty answer is given
func (p *Prompter) AskRequired(question string) (string, error) {
	for {
		answer, err := p.Ask(question)
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
		fmt.Fprintln(p.out, "A value is required.")
	}
}

// AskSecret asks without echoing the answer when reading from a terminal
func (p *Prompter) AskSecret(question string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", question)
	answer, err := p.readSecret()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// ChooseLanguage shows a numbered menu. Empty input picks Hindi; anything
// unrecognised falls back to Hindi with a notice.
func (p *Prompter) ChooseLanguage() (Language, error) {
	fmt.Fprintln(p.out, "Select the spoken language:")
	for i, lang := range Languages {
		fmt.Fprintf(p.out, "  %d. %s\n", i+1, lang.Name)
	}

	answer, err := p.Ask(fmt.Sprintf("Enter choice [%d]", defaultLanguageChoice))
	if err != nil {
		return Language{}, err
	}
	if answer == "" {
		return Languages[defaultLanguageChoice-1], nil
	}

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(Languages) {
		return Languages[n-1], nil
	}
	if lang, err := ParseLanguage(answer); err == nil {
		return lang, nil
	}

	fmt.Fprintf(p.out, "Invalid choice %q, using %s\n", answer, DefaultLanguage)
	return DefaultLanguage, nil
}
