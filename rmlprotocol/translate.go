package rmlprotocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LineBreak separates the lines of translated text.
const LineBreak = "\r\n"

// Translator turns command text into readable descriptions.
type Translator struct {
	// Locale selects the description language; empty means none.
	Locale string
}

// NewTranslator creates a translator for locale.
func NewTranslator(locale string) *Translator {
	return &Translator{Locale: locale}
}

// Lines describes every command of text, one entry per command. Each
// input line is split on semicolons; a missing final terminator is
// added. An unknown command aborts the translation.
func (t *Translator) Lines(text string) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		described, err := t.describeLine(scanner.Text())
		if err != nil {
			return nil, err
		}
		out = append(out, described...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Translate is Lines joined with CRLF, one description per line.
func (t *Translator) Translate(text string) (string, error) {
	lines, err := t.Lines(text)
	if err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

// TranslateReader reads a command file and precedes the descriptions of
// each input line with a comment echoing it: "// (<n>) <line>".
func (t *Translator) TranslateReader(r io.Reader) (string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := scanner.Text()
		out = append(out, fmt.Sprintf("// (%d) %s", lineNumber, line))
		described, err := t.describeLine(line)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", lineNumber, err)
		}
		out = append(out, described...)
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return joinLines(out), nil
}

// Describe parses a single command token and describes it.
func (t *Translator) Describe(token string) (string, error) {
	token = strings.TrimSpace(token)
	if !strings.HasSuffix(token, Terminator) {
		token += Terminator
	}
	codec, ok := Match(token)
	if !ok {
		return "", newUnknownCommandError(token, "")
	}
	args, err := codec.Parse(token)
	if err != nil {
		return "", err
	}
	return codec.Describe(t.Locale, args), nil
}

func (t *Translator) describeLine(line string) ([]string, error) {
	var out []string
	begin := 0
	for _, token := range strings.Split(line, Terminator) {
		pos := begin
		begin += len(token) + len(Terminator)
		if strings.TrimSpace(token) == "" {
			continue
		}
		s, err := t.Describe(token)
		if err != nil {
			return nil, fmt.Errorf("at position %d: %w", pos, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func joinLines(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString(LineBreak)
	}
	return sb.String()
}

// GenerateByName builds a command from its descriptive name and textual
// arguments, e.g. GenerateByName("Z axis move", "-20") returns "!ZM -20;".
// Mode 2 commands are wrapped in a call: "^ VS 12;".
func GenerateByName(name string, args ...string) (string, error) {
	codec, ok := LookupName(name)
	if !ok {
		codec, ok = Lookup(name)
	}
	if !ok || codec.ID == CmdCallMode {
		return "", newUnknownCommandError(name, "")
	}

	token := codec.Letters
	if len(args) > 0 {
		sep := ArgumentSeparator
		if codec.shape.render == renderAxes {
			sep = AxisSeparator
		}
		token += " " + strings.Join(args, sep)
	}
	token += Terminator

	parsed, err := codec.Parse(token)
	if err != nil {
		return "", err
	}
	out, err := codec.Generate(parsed)
	if err != nil {
		return "", err
	}
	if codec.Family == FamilyMode2 {
		out = CallMarker + " " + out
	}
	return out, nil
}
