// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The REPL reads input through a LineEditor that picks its method from the
// kind of stdin:
//
//   - Interactive mode: ergochat/readline, with Emacs keybindings,
//     persistent history and Ctrl-R history search.
//   - Non-interactive mode: bufio.Scanner, printing the prompt itself. Used
//     for piped input and under Emacs comint, which edits lines on its own.
//
// History is kept in ~/.drl2rml_history, at most 500 entries.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".drl2rml_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor wraps line editing with dual-mode operation.
type LineEditor struct {
	// interactive is true when stdin is a TTY and not driven by Emacs.
	interactive bool

	// rl is the readline instance, nil in non-interactive mode.
	rl *readline.Instance

	// scanner reads lines in non-interactive mode, nil otherwise.
	scanner *bufio.Scanner

	// out receives the prompt in non-interactive mode.
	out io.Writer
}

// GO CONCEPT: TTY Detection
// -------------------------
// golang.org/x/term.IsTerminal() checks whether a file descriptor is a
// terminal. When it is not, input is piped from another program or file
// and there is nobody to edit lines. Emacs sets INSIDE_EMACS in every
// subprocess; comint mode provides its own line editing, so readline would
// only get in the way.
//
// Compare with Python: sys.stdin.isatty() and os.environ.get("INSIDE_EMACS").

// NewLineEditor creates a LineEditor on stdin/stdout with automatic mode
// detection. It falls back to non-interactive mode if readline cannot be
// initialized.
func NewLineEditor() *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newLineEditorFrom(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  historyPath(),
		HistoryLimit: historySize,
		// lines are saved manually so blank ones stay out of history
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newLineEditorFrom(os.Stdin, os.Stdout)
	}

	return &LineEditor{interactive: true, rl: rl}
}

// newLineEditorFrom creates a non-interactive editor reading r and
// prompting on out.
func newLineEditorFrom(r io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(r),
		out:         out,
	}
}

// historyPath is the full path of the history file.
func historyPath() string {
	return filepath.Join(homeDir(), historyFileName)
}

// GetLine reads a line of input with the given prompt. It returns io.EOF
// on Ctrl-D, on Ctrl-C, and when piped input is exhausted.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	// comint matches the prompt to find where input begins
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the readline instance. It is safe to
// call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether full line editing is active.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}
