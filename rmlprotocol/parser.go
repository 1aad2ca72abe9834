package rmlprotocol

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Grammar fragments shared by the command patterns. Spaces around numbers
// are optional on the wire.
const (
	intPattern       = `(\x20)?(\d)+(\x20)?`
	signedIntPattern = `(\x20)?(\x2d)?(\d)+(\x20)?`
	floatPattern     = `(\x20)?(\x2d)?(\d)+(\x2e\d*)?(\x20)?`
	pairPattern      = `(` + floatPattern + `)\x2c(` + floatPattern + `)`
	threePattern     = `(` + floatPattern + `)\x2c(` + floatPattern + `)\x2c(` + floatPattern + `)`
	pairsPattern     = pairPattern + `(\x2c` + pairPattern + `)*`
	verticesPattern  = threePattern + `(\x2c` + threePattern + `)*`
	axisPattern      = `((?:\x20?[XYZA]\x2d?\d+(?:\x2e\d*)?\x20?\x2c?)+)`
)

var (
	// defaultAvoid rejects capture groups that start with a letter or a
	// command marker; such groups are never argument data.
	defaultAvoid = avoidPattern(`[a-zA-Z\x40].*`)

	elementPatterns = map[elementMode]*regexp.Regexp{
		elementScalar:  regexp.MustCompile(`(` + floatPattern + `)`),
		elementIntList: regexp.MustCompile(`(` + signedIntPattern + `)`),
		elementPair:    regexp.MustCompile(`(` + pairPattern + `)`),
		elementVertex:  regexp.MustCompile(`(` + threePattern + `)`),
		elementAxis:    regexp.MustCompile(axisPattern),
	}

	axisComponent = regexp.MustCompile(`([XYZA])(\x2d?\d+(?:\x2e\d*)?)`)
)

// grammar compiles a full-token command pattern.
func grammar(p string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + p + `)$`)
}

// avoidPattern compiles a filter that must match a whole capture group.
func avoidPattern(p string) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + p + `)$`)
}

// IsParseable reports whether token matches the command grammar. The
// token must include the letters and the terminating semicolon.
func (c *Codec) IsParseable(token string) bool {
	return token != "" && c.grammar.MatchString(token)
}

// Parse extracts the arguments of token. It fails with a grammar mismatch
// when IsParseable is false. A command without arguments yields an empty,
// non-nil slice.
func (c *Codec) Parse(token string) ([]Argument, error) {
	if !c.IsParseable(token) {
		return nil, newGrammarMismatchError(c.Letters, token)
	}
	switch c.shape.element {
	case elementNone:
		return []Argument{}, nil
	case elementCall:
		return c.parseCall(token)
	}
	body := strings.TrimSuffix(token[len(c.Letters):], Terminator)
	return c.extract(body)
}

// parseCall splits "^ VS 12.5;" into the call target and the arguments of
// the nested mode 2 command.
func (c *Codec) parseCall(token string) ([]Argument, error) {
	nestedToken := strings.TrimSpace(token[len(CallMarker):])
	if len(nestedToken) < 2 {
		return nil, newGrammarMismatchError(c.Letters, token)
	}
	nested, ok := Lookup(nestedToken[:2])
	if !ok || nested.Family != FamilyMode2 {
		return nil, newUnknownCommandError(nestedToken[:2], "in call")
	}
	rest, err := nested.Parse(nestedToken)
	if err != nil {
		return nil, err
	}
	return append([]Argument{CallArgument{Command: nested.ID}}, rest...), nil
}

// extract walks the capture groups of every element match in order. A
// group is skipped when it is blank, when it matches the avoid filter, or
// when it lies inside the span of the previously accepted argument (a
// sub-group of a larger sibling). Any other group is converted to the
// codec's argument kind; groups that do not convert are ignored.
func (c *Codec) extract(body string) ([]Argument, error) {
	element := elementPatterns[c.shape.element]
	args := []Argument{}
	prevStart, prevEnd := -1, -1

	for _, m := range element.FindAllStringSubmatchIndex(body, -1) {
		for g := 1; g < len(m)/2; g++ {
			start, end := m[2*g], m[2*g+1]
			if start < 0 {
				continue
			}
			text := body[start:end]
			if strings.TrimSpace(text) == "" || c.avoid.MatchString(text) {
				continue
			}
			if start >= prevStart && end <= prevEnd {
				continue
			}
			arg, err := c.convert(text)
			if err != nil {
				return nil, err
			}
			if arg == nil {
				continue
			}
			args = append(args, arg)
			prevStart, prevEnd = start, end
		}
	}
	return args, nil
}

// convert turns one accepted capture group into an argument.
func (c *Codec) convert(text string) (Argument, error) {
	text = strings.TrimSpace(text)
	switch c.shape.element {
	case elementScalar, elementIntList:
		return c.convertScalar(text)
	case elementPair:
		f, err := c.parseFloats(text, 2)
		if f == nil || err != nil {
			return nil, err
		}
		return PairArgument{X: f[0], Y: f[1]}, nil
	case elementVertex:
		f, err := c.parseFloats(text, 3)
		if f == nil || err != nil {
			return nil, err
		}
		return VertexArgument{X: f[0], Y: f[1], Z: f[2]}, nil
	case elementAxis:
		return c.convertAxis(text)
	}
	return nil, nil
}

// convertScalar produces a FloatArgument for decimal text when the codec
// accepts floats, and the codec's integral kind otherwise.
func (c *Codec) convertScalar(text string) (Argument, error) {
	integral, acceptsFloat := c.scalarKinds()
	if strings.Contains(text, ".") || integral < 0 {
		if !acceptsFloat {
			return nil, nil
		}
		f, err := c.parseFloat(text)
		if err != nil {
			return nil, err
		}
		return FloatArgument(f), nil
	}
	bits := 64
	if integral == KindInt {
		bits = 32
	}
	v, err := strconv.ParseInt(text, 10, bits)
	if err != nil {
		return nil, c.numericError(text, err)
	}
	if integral == KindInt {
		return IntArgument(v), nil
	}
	return LongArgument(v), nil
}

// scalarKinds returns the first integral kind of the shape (or -1) and
// whether floats are accepted.
func (c *Codec) scalarKinds() (ArgumentKind, bool) {
	integral := ArgumentKind(-1)
	acceptsFloat := false
	for _, k := range c.shape.kinds {
		switch k {
		case KindInt, KindLong:
			if integral < 0 {
				integral = k
			}
		case KindFloat:
			acceptsFloat = true
		}
	}
	return integral, acceptsFloat
}

// parseFloats splits n comma separated floats; it returns nil when text
// holds a different number of fields.
func (c *Codec) parseFloats(text string, n int) ([]float32, error) {
	fields := strings.Split(text, ArgumentSeparator)
	if len(fields) != n {
		return nil, nil
	}
	out := make([]float32, n)
	for i, field := range fields {
		f, err := c.parseFloat(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func (c *Codec) convertAxis(text string) (Argument, error) {
	var axis AxisArgument
	for _, m := range axisComponent.FindAllStringSubmatch(text, -1) {
		f, err := c.parseFloat(m[2])
		if err != nil {
			return nil, err
		}
		switch m[1] {
		case "X":
			axis.X = Coord(f)
		case "Y":
			axis.Y = Coord(f)
		case "Z":
			axis.Z = Coord(f)
		case "A":
			axis.A = Coord(f)
		}
	}
	if axis.Empty() {
		return nil, nil
	}
	return axis, nil
}

func (c *Codec) parseFloat(text string) (float32, error) {
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, c.numericError(text, err)
	}
	return float32(f), nil
}

func (c *Codec) numericError(text string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return newValidationError(c.Letters, text, "value out of range")
	}
	return newGrammarMismatchError(c.Letters, text)
}
