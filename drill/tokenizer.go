package drill

import (
	"bufio"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const commentPrefix = ";"

const coordinate = `(-?\d+(?:\.\d+)?)`

// grammar recognizes one event variant. Grammars are tried in the order
// of the grammars table and must match the whole line.
type grammar struct {
	kind    EventKind
	pattern *regexp.Regexp
	build   func(t *Tokenizer, line lineRef, m []string) (Event, error)
}

type lineRef struct {
	number int
	text   string
}

func fullLine(p string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + p + `)$`)
}

var grammars = []grammar{
	{KindDrillHole, fullLine(`X` + coordinate + `Y` + coordinate), buildDrillHole},
	{KindMove, fullLine(`G00X` + coordinate + `Y` + coordinate), buildMove},
	{KindSelectTool, fullLine(`T(\d+)`), buildSelectTool},
	{KindTool, fullLine(`T(\d+)C(\d+(?:\.\d+)?)`), buildTool},
	{KindFormatSpec, fullLine(`FMAT(,\d)`), buildFormat},
	{KindSetDrillMode, fullLine(`G(\d+)`), buildDrillMode},
	{KindStartHeader, fullLine(`M48`), constant(StartHeader{})},
	{KindEndHeader, fullLine(`%`), constant(EndHeader{})},
	{KindEndFile, fullLine(`M30`), constant(EndFile{})},
	{KindToolLiftUp, fullLine(`M16`), constant(ToolLiftUp{})},
	{KindToolPlungeDown, fullLine(`M15`), constant(ToolPlungeDown{})},
	{KindMetricUnits, fullLine(`METRIC.*`), constant(MetricUnits{})},
}

// Tokenizer converts drill text into events. The zero value tokenizes
// without offsets and reports numeric failures as NumericFieldError.
type Tokenizer struct {
	// OffsetX and OffsetY are added to every DrillHole and Move.
	OffsetX, OffsetY float32

	// Legacy drops events whose numeric fields cannot be converted instead
	// of failing. It exists for compatibility with older outputs.
	Legacy bool

	// Logger receives debug traces; nil means slog.Default().
	Logger *slog.Logger
}

// NewTokenizer creates a tokenizer applying the given offsets.
func NewTokenizer(offsetX, offsetY float32) *Tokenizer {
	return &Tokenizer{OffsetX: offsetX, OffsetY: offsetY}
}

// Tokenize tokenizes text without offsets.
func Tokenize(text string) ([]Event, error) {
	return (&Tokenizer{}).Tokenize(text)
}

// Tokenize converts text into events, one per non-comment line.
func (t *Tokenizer) Tokenize(text string) ([]Event, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrBlankInput
	}
	return t.TokenizeReader(strings.NewReader(text))
}

// TokenizeReader converts the lines of r into events. LF and CRLF line
// endings are accepted. Blank lines are skipped like comments.
func (t *Tokenizer) TokenizeReader(r io.Reader) ([]Event, error) {
	log := t.logger()
	events := []Event{}
	scanner := bufio.NewScanner(r)
	for number := 1; scanner.Scan(); number++ {
		text := strings.TrimRight(scanner.Text(), " \t")
		if text == "" || strings.HasPrefix(text, commentPrefix) {
			continue
		}
		line := lineRef{number: number, text: text}
		event, err := t.tokenizeLine(line)
		if err != nil {
			if _, numeric := err.(*NumericFieldError); numeric && t.Legacy {
				log.Debug("dropping event", "line", number, "text", text, "error", err)
				continue
			}
			return nil, err
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	log.Debug("tokenized drill text", "events", len(events))
	return events, nil
}

func (t *Tokenizer) tokenizeLine(line lineRef) (Event, error) {
	for _, g := range grammars {
		m := g.pattern.FindStringSubmatch(line.text)
		if m == nil {
			continue
		}
		return g.build(t, line, m)
	}
	return nil, &MalformedLineError{Line: line.number, Text: line.text}
}

func (t *Tokenizer) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return slog.Default()
}

func (t *Tokenizer) position(line lineRef, m []string) (float32, float32, error) {
	x, err := parseField(line, "x", m[1])
	if err != nil {
		return 0, 0, err
	}
	y, err := parseField(line, "y", m[2])
	if err != nil {
		return 0, 0, err
	}
	return x + t.OffsetX, y + t.OffsetY, nil
}

func parseField(line lineRef, field, text string) (float32, error) {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, &NumericFieldError{Line: line.number, Text: line.text, Field: field, Err: err}
	}
	return float32(f), nil
}

func buildDrillHole(t *Tokenizer, line lineRef, m []string) (Event, error) {
	x, y, err := t.position(line, m)
	if err != nil {
		return nil, err
	}
	return DrillHole{X: x, Y: y}, nil
}

func buildMove(t *Tokenizer, line lineRef, m []string) (Event, error) {
	x, y, err := t.position(line, m)
	if err != nil {
		return nil, err
	}
	return Move{X: x, Y: y}, nil
}

func buildSelectTool(_ *Tokenizer, _ lineRef, m []string) (Event, error) {
	return SelectTool{ID: m[1]}, nil
}

func buildTool(_ *Tokenizer, line lineRef, m []string) (Event, error) {
	d, err := parseField(line, "diameter", m[2])
	if err != nil {
		return nil, err
	}
	return Tool{ID: m[1], Diameter: d}, nil
}

func buildFormat(_ *Tokenizer, _ lineRef, m []string) (Event, error) {
	return FormatSpec{Text: m[1]}, nil
}

func buildDrillMode(_ *Tokenizer, _ lineRef, m []string) (Event, error) {
	return SetDrillMode{Mode: m[1]}, nil
}

func constant(e Event) func(*Tokenizer, lineRef, []string) (Event, error) {
	return func(*Tokenizer, lineRef, []string) (Event, error) {
		return e, nil
	}
}
