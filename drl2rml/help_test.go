// =============================================================================
// help_test.go - Tests for REPL Help System (help.go)
// =============================================================================

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/maiereni/drl2rml/rmlprotocol"
)

func TestHelpOverviewContainsDotCommands(t *testing.T) {
	var buf bytes.Buffer
	if !printHelp(&buf, ModeDescribe, "", "") {
		t.Fatal("printHelp with no topic should succeed")
	}
	out := buf.String()
	for key := range globalHelp {
		if !strings.Contains(out, "."+key) {
			t.Errorf("overview does not list .%s", key)
		}
	}
}

func TestHelpOverviewModeUsage(t *testing.T) {
	tests := []struct {
		mode     REPLMode
		contains string
	}{
		{ModeDescribe, "Describe mode"},
		{ModeGenerate, "Generate mode"},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		printHelp(&buf, tc.mode, "", "")
		if !strings.Contains(buf.String(), tc.contains) {
			t.Errorf("overview in mode %d does not contain %q", tc.mode, tc.contains)
		}
	}
}

func TestCommandTableListsEveryCommand(t *testing.T) {
	var buf bytes.Buffer
	printCommandTable(&buf)
	out := buf.String()
	for _, c := range rmlprotocol.Commands() {
		row := c.Letters
		if !strings.Contains(out, row) || !strings.Contains(out, c.Name) {
			t.Errorf("command table is missing %s %s", c.Letters, c.Name)
		}
	}
	for _, title := range []string{"Mode 1 commands:", "Mode 2 commands:", "Common commands:"} {
		if !strings.Contains(out, title) {
			t.Errorf("command table is missing %q", title)
		}
	}
}

func TestHelpTopicGlobal(t *testing.T) {
	tests := []string{"describe", "generate", "gen", "locale", "commands", "help", "quit"}
	for _, topic := range tests {
		t.Run(topic, func(t *testing.T) {
			var buf bytes.Buffer
			if !printHelp(&buf, ModeDescribe, topic, "") {
				t.Fatalf("printHelp(%q) returned false", topic)
			}
			if !strings.Contains(buf.String(), "."+topic) {
				t.Errorf("help for %q does not name the command: %q", topic, buf.String())
			}
		})
	}
}

func TestHelpTopicLeadingDotStripped(t *testing.T) {
	var with, without bytes.Buffer
	printHelp(&with, ModeDescribe, ".locale", "")
	printHelp(&without, ModeDescribe, "locale", "")
	if with.String() != without.String() {
		t.Errorf(".locale and locale give different help")
	}
}

func TestHelpTopicProtocolCommand(t *testing.T) {
	tests := []struct {
		topic    string
		contains []string
	}{
		{"!ZM", []string{"!ZM  Z axis move", "family:    Common", "arguments: 0..1 (float)"}},
		{"z axis move", []string{"!ZM  Z axis move"}},
		{"in", []string{"IN  Initialize", "family:    Mode 2", "arguments: none", "call:      ^ IN;"}},
		{"!MC", []string{"arguments: 0..1 (int)"}},
	}
	for _, tc := range tests {
		t.Run(tc.topic, func(t *testing.T) {
			var buf bytes.Buffer
			if !printHelp(&buf, ModeDescribe, tc.topic, "") {
				t.Fatalf("printHelp(%q) returned false", tc.topic)
			}
			for _, want := range tc.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("help for %q does not contain %q:\n%s", tc.topic, want, buf.String())
				}
			}
		})
	}
}

func TestHelpTopicWithLocale(t *testing.T) {
	var buf bytes.Buffer
	printHelp(&buf, ModeDescribe, "!MC", "en")
	if !strings.Contains(buf.String(), "spindle motor") {
		t.Errorf("help with a locale should include the description, got %q", buf.String())
	}
}

func TestHelpTopicUnknown(t *testing.T) {
	var buf bytes.Buffer
	if printHelp(&buf, ModeDescribe, "nothing-here", "") {
		t.Error("printHelp should return false for an unknown topic")
	}
	if buf.Len() != 0 {
		t.Errorf("nothing should be written for an unknown topic, got %q", buf.String())
	}
}
