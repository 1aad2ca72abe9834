// =============================================================================
// lineeditor_test.go - Tests for Line Editor (lineeditor.go)
// =============================================================================
//
// The interactive mode needs a real TTY, so these tests exercise the
// non-interactive path, either through NewLineEditor with a piped stdin or
// through newLineEditorFrom with in-memory readers.
//
// GO CONCEPT: Testing I/O-Dependent Code
// ----------------------------------------
// Code that reads os.Stdin can be tested by swapping os.Stdin for the read
// end of an os.Pipe(); term.IsTerminal() then reports false, exactly as
// under "cat cmds.txt | drl2rml repl". Code that accepts an io.Reader is
// easier still: strings.NewReader is enough.
//
// Compare with Python: monkeypatch.setattr("sys.stdin", io.StringIO(...)).
//
// =============================================================================

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// newTestEditor creates a LineEditor through NewLineEditor with a piped
// stdin. Callers write input to the returned pipe end and close it to
// signal EOF.
func newTestEditor(t *testing.T) (*LineEditor, *os.File) {
	t.Helper()

	oldStdin := os.Stdin
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdin = reader
	t.Cleanup(func() {
		os.Stdin = oldStdin
		reader.Close()
	})

	editor := NewLineEditor()
	t.Cleanup(func() { editor.Close() })

	return editor, writer
}

// TestNewLineEditorNonInteractive verifies that piped stdin selects the
// scanner path.
func TestNewLineEditorNonInteractive(t *testing.T) {
	editor, writer := newTestEditor(t)
	writer.Close()

	if editor.IsInteractive() {
		t.Error("editor should be non-interactive for piped stdin")
	}
	if editor.scanner == nil {
		t.Error("non-interactive editor should have a scanner")
	}
	if editor.rl != nil {
		t.Error("non-interactive editor should not have a readline instance")
	}
}

// TestGetLineReadsFromPipe verifies that GetLine reads piped input.
func TestGetLineReadsFromPipe(t *testing.T) {
	editor, writer := newTestEditor(t)

	fmt.Fprint(writer, "!ZM -20;\n")
	writer.Close()

	line, err := editor.GetLine("> ")
	if err != nil {
		t.Fatalf("GetLine() returned error: %v", err)
	}
	if line != "!ZM -20;" {
		t.Errorf("GetLine() = %q, want %q", line, "!ZM -20;")
	}
}

// TestGetLineReturnsEOFOnEmptyPipe verifies io.EOF once input is exhausted.
func TestGetLineReturnsEOFOnEmptyPipe(t *testing.T) {
	editor, writer := newTestEditor(t)
	writer.Close()

	if _, err := editor.GetLine("> "); err != io.EOF {
		t.Errorf("GetLine() error = %v, want io.EOF", err)
	}
}

// TestGetLineMultipleLines verifies successive reads, blank and
// unterminated lines included.
func TestGetLineMultipleLines(t *testing.T) {
	var prompts bytes.Buffer
	editor := newLineEditorFrom(strings.NewReader("^IN;\n\n  H;  \nno newline"), &prompts)

	want := []string{"^IN;", "", "  H;  ", "no newline"}
	for i, w := range want {
		got, err := editor.GetLine("[describe] > ")
		if err != nil {
			t.Fatalf("line %d: GetLine() returned error: %v", i, err)
		}
		if got != w {
			t.Errorf("line %d: got %q, want %q", i, got, w)
		}
	}
	if _, err := editor.GetLine("[describe] > "); err != io.EOF {
		t.Errorf("after last line: error = %v, want io.EOF", err)
	}
	if got := strings.Count(prompts.String(), "[describe] > "); got != len(want)+1 {
		t.Errorf("printed %d prompts, want %d", got, len(want)+1)
	}
}

// TestGetLineWithLongInput verifies lines well beyond a terminal width.
func TestGetLineWithLongInput(t *testing.T) {
	long := strings.Repeat("M 1,2;", 2000)
	editor := newLineEditorFrom(strings.NewReader(long+"\n"), io.Discard)

	got, err := editor.GetLine("> ")
	if err != nil {
		t.Fatalf("GetLine() returned error: %v", err)
	}
	if got != long {
		t.Errorf("got %d bytes, want %d", len(got), len(long))
	}
}

// TestCloseIsIdempotent verifies Close can be called repeatedly.
func TestCloseIsIdempotent(t *testing.T) {
	editor := newLineEditorFrom(strings.NewReader(""), io.Discard)
	editor.Close()
	editor.Close()
}

// TestHistoryPath verifies the history file lives in the home directory.
func TestHistoryPath(t *testing.T) {
	if historySize <= 0 {
		t.Errorf("historySize = %d, want positive", historySize)
	}
	path := historyPath()
	if filepath.Base(path) != historyFileName {
		t.Errorf("history path %q should end with %q", path, historyFileName)
	}
	if home := homeDir(); home != "" && !strings.HasPrefix(path, home) {
		t.Errorf("history path %q should be under %q", path, home)
	}
}
