// =============================================================================
// repl_test.go - Tests for REPL Loop and Mode System (repl.go)
// =============================================================================
//
// The REPL reads through a LineEditor built on an in-memory reader, so a
// whole session is a string of input lines and the output is compared
// afterwards. The remote tests run the same sessions against a
// translator service on a temporary socket.
//
// =============================================================================

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// runSession feeds input to a REPL on b and returns stdout and stderr
// with prompts removed.
func runSession(t *testing.T, b backend, input string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	editor := newLineEditorFrom(strings.NewReader(input), &out)
	runREPL(editor, &out, &errOut, b)

	text := out.String()
	for _, m := range []REPLMode{ModeDescribe, ModeGenerate} {
		text = strings.ReplaceAll(text, m.prompt(), "")
	}
	return text, errOut.String()
}

// =============================================================================
// REPLMode Tests
// =============================================================================

func TestREPLModeValues(t *testing.T) {
	tests := []struct {
		mode     REPLMode
		expected int
	}{
		{ModeDescribe, 0},
		{ModeGenerate, 1},
	}
	for _, tc := range tests {
		if int(tc.mode) != tc.expected {
			t.Errorf("REPLMode(%d) should be %d", tc.mode, tc.expected)
		}
	}
}

func TestREPLModePrompts(t *testing.T) {
	tests := []struct {
		mode     REPLMode
		expected string
	}{
		{ModeDescribe, "[describe] > "},
		{ModeGenerate, "[generate] > "},
		{REPLMode(99), "> "},
	}
	for _, tc := range tests {
		if got := tc.mode.prompt(); got != tc.expected {
			t.Errorf("got %q, want %q", got, tc.expected)
		}
	}
}

// =============================================================================
// Parsing Helpers
// =============================================================================

func TestSplitFields(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"!ZM -20", []string{"!ZM", "-20"}},
		{`"Z axis move" -20`, []string{"Z axis move", "-20"}},
		{"  M   10,20  ", []string{"M", "10,20"}},
		{`""`, []string{""}},
		{"", nil},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, splitFields(tc.input)); diff != "" {
				t.Errorf("splitFields(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestGenerateLine(t *testing.T) {
	b := newLocalBackend("")
	tests := []struct {
		input    string
		expected string
	}{
		{"!ZM -20", "!ZM -20;"},
		{"!zm -20", "!ZM -20;"},
		{"Z axis move -20", "!ZM -20;"},
		{`"Z axis move" -20`, "!ZM -20;"},
		{"IN", "^ IN;"},
		{"Motor control 0", "!MC 0;"},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := generateLine(b, tc.input)
			if err != nil {
				t.Fatalf("generateLine(%q): %v", tc.input, err)
			}
			if got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestGenerateLineErrors(t *testing.T) {
	b := newLocalBackend("")
	for _, input := range []string{"", "Nonsense 1 2", "!MC 1 2"} {
		if _, err := generateLine(b, input); err == nil {
			t.Errorf("generateLine(%q) should fail", input)
		}
	}
}

// =============================================================================
// Session Tests
// =============================================================================

func TestREPLDescribe(t *testing.T) {
	out, errOut := runSession(t, newLocalBackend(""), "^IN;!ZM -20;\n\nF 15;\n")
	want := "Call Mode 2: Initialize ();\nZ axis move (-20);\nSet velocity (15);\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if errOut != "" {
		t.Errorf("unexpected errors: %q", errOut)
	}
}

func TestREPLDescribeError(t *testing.T) {
	out, errOut := runSession(t, newLocalBackend(""), "QQ 1;\n!MC 0;\n")
	if !strings.HasPrefix(errOut, "Error: ") {
		t.Errorf("stderr = %q, want an error", errOut)
	}
	if !strings.Contains(out, "Motor control (0);") {
		t.Errorf("the session should continue after an error, got %q", out)
	}
}

func TestREPLGenerateMode(t *testing.T) {
	out, _ := runSession(t, newLocalBackend(""), ".generate\n!ZM -20\n.describe\n!MC 0;\n")
	want := "Switched to generate mode\n!ZM -20;\nSwitched to describe mode\nMotor control (0);\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestREPLGenInDescribeMode(t *testing.T) {
	out, _ := runSession(t, newLocalBackend(""), `.gen "Tool speed setting" 12`+"\n")
	if !strings.HasPrefix(out, "^") || !strings.Contains(out, "12;") {
		t.Errorf("got %q, want a Mode 2 call with argument 12", out)
	}
}

func TestREPLQuitStopsReading(t *testing.T) {
	out, _ := runSession(t, newLocalBackend(""), ".quit\n!MC 0;\n")
	if strings.Contains(out, "Motor control") {
		t.Errorf("input after .quit was processed: %q", out)
	}
}

func TestREPLDotCommandsAreCaseInsensitive(t *testing.T) {
	out, errOut := runSession(t, newLocalBackend(""), ".GENERATE\n.Quit\n")
	if !strings.Contains(out, "Switched to generate mode") {
		t.Errorf("got %q", out)
	}
	if errOut != "" {
		t.Errorf("unexpected errors: %q", errOut)
	}
}

func TestREPLUnknownDotCommand(t *testing.T) {
	_, errOut := runSession(t, newLocalBackend(""), ".frobnicate\n")
	want := "Error: Unknown command '.frobnicate'. Type .help to see available commands.\n"
	if errOut != want {
		t.Errorf("got %q, want %q", errOut, want)
	}
}

func TestREPLLocale(t *testing.T) {
	b := newLocalBackend("")
	out, _ := runSession(t, b, ".locale\n.locale fr\n.locale\n")
	want := "Locale: (none)\nLocale: fr\nLocale: fr\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if b.Locale() != "fr" {
		t.Errorf("backend locale = %q, want %q", b.Locale(), "fr")
	}
}

func TestREPLLocaleAddsDescriptions(t *testing.T) {
	out, _ := runSession(t, newLocalBackend("en"), "!MC 0;\n")
	if !strings.HasPrefix(out, "Motor control (0);//") {
		t.Errorf("got %q, want a locale comment after the description", out)
	}
}

func TestREPLHelp(t *testing.T) {
	out, errOut := runSession(t, newLocalBackend(""), ".help\n.help !ZM\n.help nothing-here\n")
	for _, want := range []string{"Dot Commands:", "Mode 1 commands:", "Z axis move"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q", want)
		}
	}
	want := "Error: No help for 'nothing-here'. Type .help to see available commands.\n"
	if errOut != want {
		t.Errorf("got %q, want %q", errOut, want)
	}
}

// =============================================================================
// Remote Backend Tests
// =============================================================================

func TestREPLRemoteBackend(t *testing.T) {
	path := startService(t)
	b, err := connectBackend(path, "")
	if err != nil {
		t.Fatalf("connectBackend: %v", err)
	}
	defer b.Close()

	out, errOut := runSession(t, b, "^IN;!ZM -20;\n.generate\nZ axis move -5\n")
	want := "Call Mode 2: Initialize ();\nZ axis move (-20);\nSwitched to generate mode\n!ZM -5;\n\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
	if errOut != "" {
		t.Errorf("unexpected errors: %q", errOut)
	}
}

func TestREPLCommandPiped(t *testing.T) {
	out, _, err := runCLI(t, "!MC 0;\n.quit\n", "repl")
	if err != nil {
		t.Fatalf("repl: %v", err)
	}
	if strings.Contains(out, "Type '.help'") {
		t.Error("the banner should only be printed for interactive sessions")
	}
	if !strings.Contains(out, "Motor control (0);") {
		t.Errorf("got %q", out)
	}
}
