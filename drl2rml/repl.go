// =============================================================================
// repl.go - Interactive Translator
// =============================================================================
//
// The REPL has two modes:
//
//	[describe] > ^IN;!ZM -20;
//	Call Mode 2: Initialize ();
//	Z axis move (-20);
//
//	[generate] > Z axis move -20
//	!ZM -20;
//
// Lines starting with a dot are REPL commands (.help, .locale, .gen, ...)
// and are never sent to the translator.
//
// =============================================================================

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// REPLMode selects how input lines are read.
type REPLMode int

const (
	// ModeDescribe reads protocol commands and prints descriptions.
	ModeDescribe REPLMode = iota
	// ModeGenerate reads command names with arguments and prints commands.
	ModeGenerate
)

// prompt returns the display prompt for the mode.
func (m REPLMode) prompt() string {
	switch m {
	case ModeDescribe:
		return "[describe] > "
	case ModeGenerate:
		return "[generate] > "
	default:
		return "> "
	}
}

// lineReader is the part of LineEditor the REPL needs.
type lineReader interface {
	GetLine(prompt string) (string, error)
}

// repl is the state of one session.
type repl struct {
	in      lineReader
	out     io.Writer
	errOut  io.Writer
	backend backend
	mode    REPLMode
}

// runREPL runs the loop until .quit or end of input.
func runREPL(in lineReader, out, errOut io.Writer, b backend) {
	r := &repl{in: in, out: out, errOut: errOut, backend: b}
	for {
		line, err := r.in.GetLine(r.mode.prompt())
		if err != nil {
			if !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.errOut, "Error: %v\n", err)
			}
			fmt.Fprintln(r.out)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ".") {
			if quit := r.dotCommand(line); quit {
				return
			}
			continue
		}

		switch r.mode {
		case ModeGenerate:
			r.generate(line)
		default:
			r.describe(line)
		}
	}
}

// dotCommand executes a REPL command and reports whether to quit.
func (r *repl) dotCommand(line string) bool {
	word, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(word) {
	case ".quit", ".exit":
		return true
	case ".describe":
		r.mode = ModeDescribe
		fmt.Fprintln(r.out, "Switched to describe mode")
	case ".generate":
		r.mode = ModeGenerate
		fmt.Fprintln(r.out, "Switched to generate mode")
	case ".gen":
		r.generate(rest)
	case ".commands":
		printCommandTable(r.out)
	case ".help":
		if !printHelp(r.out, r.mode, rest, r.backend.Locale()) {
			fmt.Fprintf(r.errOut, "Error: No help for '%s'. Type .help to see available commands.\n", rest)
		}
	case ".locale":
		if rest == "" {
			locale := r.backend.Locale()
			if locale == "" {
				locale = "(none)"
			}
			fmt.Fprintf(r.out, "Locale: %s\n", locale)
			return false
		}
		if err := r.backend.SetLocale(rest); err != nil {
			fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		fmt.Fprintf(r.out, "Locale: %s\n", rest)
	default:
		fmt.Fprintf(r.errOut, "Error: Unknown command '%s'. Type .help to see available commands.\n", word)
	}
	return false
}

func (r *repl) describe(line string) {
	lines, err := r.backend.Lines(line)
	if err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return
	}
	for _, l := range lines {
		fmt.Fprintln(r.out, l)
	}
}

func (r *repl) generate(line string) {
	out, err := generateLine(r.backend, line)
	if err != nil {
		fmt.Fprintf(r.errOut, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, out)
}

// generateLine builds a command from "<letters|name> [args...]". Names
// may be quoted or bare; the longest leading run of words naming a command
// wins, the remaining words are its arguments.
func generateLine(b backend, line string) (string, error) {
	fields := splitFields(line)
	if len(fields) == 0 {
		return "", errors.New("missing command name")
	}
	for i := len(fields); i > 0; i-- {
		if c, ok := findCodec(strings.Join(fields[:i], " ")); ok {
			return b.Generate(c.Letters, fields[i:]...)
		}
	}
	return "", fmt.Errorf("unknown command '%s'", fields[0])
}

// splitFields splits on spaces, keeping double-quoted runs together.
func splitFields(s string) []string {
	var fields []string
	var cur strings.Builder
	inQuote, started := false, false
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case r == ' ' && !inQuote:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}

func newREPLCommand(opts *options) *cobra.Command {
	var locale, socketPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactive command translator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("locale") {
				locale = opts.profile.Locale
			}

			var b backend = newLocalBackend(locale)
			if socketPath != "" {
				remote, err := connectBackend(socketPath, locale)
				if err != nil {
					return err
				}
				defer remote.Close()
				remote.client.SetDisconnectHandler(func(err error) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\nDisconnected from translator service: %v\n", err)
				})
				b = remote
			}

			var editor *LineEditor
			if in := cmd.InOrStdin(); in == os.Stdin {
				editor = NewLineEditor()
			} else {
				editor = newLineEditorFrom(in, cmd.OutOrStdout())
			}
			defer editor.Close()

			if editor.IsInteractive() {
				fmt.Fprint(cmd.OutOrStdout(), welcomeBanner())
			}
			runREPL(editor, cmd.OutOrStdout(), cmd.ErrOrStderr(), b)
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", "", "description language (en, fr)")
	cmd.Flags().StringVar(&socketPath, "socket", "", `use a running translator service ("auto" to discover)`)
	return cmd
}
