// =============================================================================
// summary.go - Styled Terminal Output
// =============================================================================
//
// Run summaries, tool tables and the history listing are styled with
// lipgloss when stdout is a terminal, and printed plain when it is piped
// into a file or another program, so scripts never see escape codes.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/maiereni/drl2rml/drill"
	"github.com/maiereni/drl2rml/journal"
)

// styles holds the lipgloss styles of the summaries. When disabled every
// render call returns its input unchanged.
type styles struct {
	enabled bool
	title   lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	warn    lipgloss.Style
}

// GO CONCEPT: Type Assertions on Interfaces
// -----------------------------------------
// w is an io.Writer, which could be a file, a buffer or a network
// connection. w.(*os.File) asks "is the concrete value a *os.File?" and the
// two-value form returns ok=false instead of panicking when it is not.
// Only real files have a descriptor that isatty can inspect.
//
// Compare with Python: isinstance(w, io.TextIOWrapper) and w.isatty().

// newStyles enables styling only for terminals.
func newStyles(w io.Writer) styles {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return styles{
		enabled: enabled,
		title:   lipgloss.NewStyle().Bold(true),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Faint(true),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (s styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

// plural returns "1 hole" or "3 holes".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// shortID keeps the first block of a run id.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// renderRun prints the outcome of a generation run.
func renderRun(w io.Writer, run journal.Run) {
	st := newStyles(w)
	fmt.Fprintln(w, st.render(st.title, fmt.Sprintf("Generated %s from %s into %s (run %s)",
		plural(len(run.Tools), "tool"), run.Source, run.Output, shortID(run.ID))))
	for _, t := range run.Tools {
		line := fmt.Sprintf("  %-12s %-16s %s", t.Label, fileOrDash(t.File), plural(t.Holes, "hole"))
		if t.Blocks > 1 {
			line += ", " + plural(t.Blocks, "block")
		}
		if t.Holes == 0 {
			fmt.Fprintln(w, st.render(st.dim, line))
			continue
		}
		fmt.Fprintln(w, st.render(st.label, line))
	}
}

func fileOrDash(file string) string {
	if file == "" {
		return "-"
	}
	return file
}

// renderStatus prints the bounding box and tool table of a drill file.
func renderStatus(w io.Writer, source string, status drill.Status, holes map[string]int) {
	st := newStyles(w)
	fmt.Fprintln(w, st.render(st.title, source))
	fmt.Fprintf(w, "  X: %s - %s  (%s mm)\n", num(status.MinX), num(status.MaxX), num(status.Width()))
	fmt.Fprintf(w, "  Y: %s - %s  (%s mm)\n", num(status.MinY), num(status.MaxY), num(status.Height()))
	if len(status.Tools) == 0 {
		fmt.Fprintln(w, st.render(st.warn, "  no tools declared"))
		return
	}
	for _, tool := range status.Tools {
		line := fmt.Sprintf("  %-12s %s", tool.Label(), plural(holes[tool.ID], "hole"))
		fmt.Fprintln(w, st.render(st.label, line))
	}
}

// renderHistory prints journal entries, one line per run.
func renderHistory(w io.Writer, runs []journal.Run) {
	st := newStyles(w)
	if len(runs) == 0 {
		fmt.Fprintln(w, st.render(st.dim, "no runs recorded"))
		return
	}
	for _, r := range runs {
		head := fmt.Sprintf("%-8s %s", shortID(r.ID), r.Time.Format("2006-01-02 15:04"))
		fmt.Fprintf(w, "%s  %s  %s, %s\n", st.render(st.label, head), r.Source,
			plural(len(r.Tools), "tool"), plural(r.Holes(), "hole"))
	}
}

// renderRunDetail prints one journal entry in full.
func renderRunDetail(w io.Writer, r journal.Run) {
	st := newStyles(w)
	fmt.Fprintln(w, st.render(st.title, "Run "+r.ID))
	fmt.Fprintf(w, "  time:     %s\n", r.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  source:   %s\n", r.Source)
	fmt.Fprintf(w, "  output:   %s\n", r.Output)
	fmt.Fprintf(w, "  z0/z1:    %s / %s\n", num(r.Z0), num(r.Z1))
	fmt.Fprintf(w, "  stepping: %d\n", r.Stepping)
	for _, t := range r.Tools {
		fmt.Fprintf(w, "  %-12s %-16s %s\n", t.Label, fileOrDash(t.File), plural(t.Holes, "hole"))
	}
}

func num(f float32) string {
	return fmt.Sprintf("%g", f)
}
