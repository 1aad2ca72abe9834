// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// ".help" lists the dot-commands, how the current mode reads input, and
// every protocol command grouped by family. ".help <topic>" explains a
// dot-command or one protocol command, looked up by letters ("!ZM") or by
// name ("Z axis move").
//
// Protocol command help is built from the command registry, so it can never
// drift from what the translator accepts.
//
// =============================================================================

package main

// GO CONCEPT: Map Literals for Lookup Tables
// -------------------------------------------
// map[string]string literals make small, fixed dictionaries. A lookup
// returns two values, text, ok := globalHelp[key], where ok reports whether
// the key exists.
//
// Compare with Python: help = {"key": "value"}; text = help.get(key).
import (
	"fmt"
	"io"
	"strings"

	"github.com/maiereni/drl2rml/rmlprotocol"
)

// printHelp writes the overview when topic is empty, otherwise the help of
// one topic. It returns false when the topic is unknown.
func printHelp(w io.Writer, mode REPLMode, topic, locale string) bool {
	if topic == "" {
		printHelpOverview(w, mode)
		return true
	}

	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if text, ok := globalHelp[key]; ok {
		fmt.Fprintln(w, text)
		return true
	}

	if codec, ok := findCodec(topic); ok {
		printCommandHelp(w, codec, locale)
		return true
	}
	return false
}

// findCodec resolves a help topic to a protocol command: letters first,
// then the descriptive name, both case-insensitive.
func findCodec(topic string) (*rmlprotocol.Codec, bool) {
	if c, ok := rmlprotocol.Lookup(strings.ToUpper(topic)); ok {
		return c, true
	}
	for _, c := range rmlprotocol.Commands() {
		if strings.EqualFold(c.Name, topic) {
			return c, true
		}
	}
	return nil, false
}

// printHelpOverview writes the dot-commands, the mode usage and the
// command table.
func printHelpOverview(w io.Writer, mode REPLMode) {
	fmt.Fprint(w, `Dot Commands:
  .describe         Switch to describe mode
  .generate         Switch to generate mode
  .gen <cmd> [args] Build one command without switching mode
  .locale [lang]    Show or set the description language
  .commands         List the protocol commands
  .help [topic]     Show help for a dot-command or protocol command
  .quit             Exit

`)
	fmt.Fprintln(w, modeUsage(mode))
	fmt.Fprintln(w)
	printCommandTable(w)
}

// modeUsage explains how a mode reads its input lines.
func modeUsage(mode REPLMode) string {
	switch mode {
	case ModeGenerate:
		return `Generate mode: each line is a command name or letters followed by
its arguments, e.g. "!ZM -20" or "Z axis move -20". Prints the command.`
	default:
		return `Describe mode: each line holds protocol commands separated by ';',
e.g. "^IN;!ZM -20;M 10,20;". Prints one description per command.`
	}
}

// printCommandTable lists the registry by family.
func printCommandTable(w io.Writer) {
	families := []rmlprotocol.Family{rmlprotocol.FamilyMode1, rmlprotocol.FamilyMode2, rmlprotocol.FamilyCommon}
	for _, f := range families {
		fmt.Fprintf(w, "%s commands:\n", familyTitle(f))
		for _, c := range rmlprotocol.FamilyCommands(f) {
			fmt.Fprintf(w, "  %-5s %s\n", c.Letters, c.Name)
		}
	}
}

func familyTitle(f rmlprotocol.Family) string {
	switch f {
	case rmlprotocol.FamilyMode1:
		return "Mode 1"
	case rmlprotocol.FamilyMode2:
		return "Mode 2"
	default:
		return "Common"
	}
}

// printCommandHelp writes the help of one protocol command.
func printCommandHelp(w io.Writer, c *rmlprotocol.Codec, locale string) {
	fmt.Fprintf(w, "  %s  %s\n", c.Letters, c.Name)
	fmt.Fprintf(w, "    family:    %s\n", familyTitle(c.Family))
	fmt.Fprintf(w, "    arguments: %s\n", arityText(c))
	if c.Family == rmlprotocol.FamilyMode2 {
		fmt.Fprintf(w, "    call:      %s %s;\n", rmlprotocol.CallMarker, c.Letters)
	}
	if set := rmlprotocol.Descriptions(locale); set != nil {
		if text, ok := set.Find(c.Name); ok {
			fmt.Fprintf(w, "    %s\n", text)
		}
	}
}

// arityText renders the argument count and kinds, e.g. "0..1 (int)".
func arityText(c *rmlprotocol.Codec) string {
	lo, hi := c.Arity()
	var count string
	switch {
	case lo == 0 && hi == 0:
		return "none"
	case hi < 0:
		count = fmt.Sprintf("%d or more", lo)
	case lo == hi:
		count = fmt.Sprintf("%d", lo)
	default:
		count = fmt.Sprintf("%d..%d", lo, hi)
	}
	var kinds []string
	for _, k := range c.Kinds() {
		kinds = append(kinds, k.String())
	}
	if len(kinds) == 0 {
		return count
	}
	return fmt.Sprintf("%s (%s)", count, strings.Join(kinds, " or "))
}

// globalHelp is the detailed help of every dot-command.
var globalHelp = map[string]string{
	"describe": `  .describe
    Switch to describe mode. Lines are read as protocol commands and
    printed as descriptions.`,
	"generate": `  .generate
    Switch to generate mode. Lines are read as a command name or letters
    followed by arguments and printed as protocol text.`,
	"gen": `  .gen <letters|"name"> [args...]
    Build one command, in any mode. Quote names that contain spaces:
      .gen !ZM -20
      .gen "Tool speed setting" 12`,
	"locale": `  .locale [lang]
    Show the description language, or set it (en, fr). An empty or
    unknown language prints descriptions without a comment.`,
	"commands": `  .commands
    List every protocol command by family.`,
	"help": `  .help [topic]
    Show all commands, or detailed help for a dot-command or a protocol
    command given by letters or name.`,
	"quit": `  .quit
    Exit the REPL. Ctrl-D does the same.`,
}
