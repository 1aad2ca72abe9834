package rmlprotocol

import (
	"strconv"
	"strings"
)

// ArgumentKind identifies the dynamic type of a command argument.
type ArgumentKind int

const (
	KindInt ArgumentKind = iota
	KindLong
	KindFloat
	KindPair
	KindVertex
	KindAxis
	KindCall
)

// String returns a readable name for the kind.
func (k ArgumentKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindPair:
		return "pair"
	case KindVertex:
		return "vertex"
	case KindAxis:
		return "axis"
	case KindCall:
		return "call"
	default:
		return "unknown"
	}
}

// Argument is a value carried by a protocol command. The set of
// implementations is closed: IntArgument, LongArgument, FloatArgument,
// PairArgument, VertexArgument, AxisArgument and CallArgument.
type Argument interface {
	Kind() ArgumentKind
	// String renders the argument the way it appears on the wire.
	String() string
}

// IntArgument is a small non-negative integer.
type IntArgument int32

// Kind implements Argument.
func (IntArgument) Kind() ArgumentKind { return KindInt }

func (a IntArgument) String() string { return strconv.FormatInt(int64(a), 10) }

// LongArgument is a signed integer.
type LongArgument int64

// Kind implements Argument.
func (LongArgument) Kind() ArgumentKind { return KindLong }

func (a LongArgument) String() string { return strconv.FormatInt(int64(a), 10) }

// FloatArgument is a decimal value rendered with at most one fraction digit.
type FloatArgument float32

// Kind implements Argument.
func (FloatArgument) Kind() ArgumentKind { return KindFloat }

func (a FloatArgument) String() string { return FormatFloat(float32(a)) }

// PairArgument is an X,Y coordinate pair.
type PairArgument struct {
	X, Y float32
}

// Kind implements Argument.
func (PairArgument) Kind() ArgumentKind { return KindPair }

func (a PairArgument) String() string {
	return FormatFloat(a.X) + ArgumentSeparator + FormatFloat(a.Y)
}

// VertexArgument is an X,Y,Z coordinate.
type VertexArgument struct {
	X, Y, Z float32
}

// Kind implements Argument.
func (VertexArgument) Kind() ArgumentKind { return KindVertex }

func (a VertexArgument) String() string {
	return FormatFloat(a.X) + ArgumentSeparator + FormatFloat(a.Y) + ArgumentSeparator + FormatFloat(a.Z)
}

// AxisArgument is a partial four axis position; nil fields are absent.
type AxisArgument struct {
	X, Y, Z, A *float32
}

// Kind implements Argument.
func (AxisArgument) Kind() ArgumentKind { return KindAxis }

// String renders the present fields as X<x>Y<y>Z<z>A<a>.
func (a AxisArgument) String() string {
	var sb strings.Builder
	for _, c := range []struct {
		letter string
		value  *float32
	}{{"X", a.X}, {"Y", a.Y}, {"Z", a.Z}, {"A", a.A}} {
		if c.value != nil {
			sb.WriteString(c.letter)
			sb.WriteString(FormatFloat(*c.value))
		}
	}
	return sb.String()
}

// Empty reports whether no coordinate is present.
func (a AxisArgument) Empty() bool {
	return a.X == nil && a.Y == nil && a.Z == nil && a.A == nil
}

// CallArgument names the mode 2 command wrapped by a call.
type CallArgument struct {
	Command CommandID
}

// Kind implements Argument.
func (CallArgument) Kind() ArgumentKind { return KindCall }

// String returns the letters of the wrapped command.
func (a CallArgument) String() string {
	if c := ByID(a.Command); c != nil {
		return c.Letters
	}
	return ""
}

// Coord returns a pointer to v, for building AxisArgument values.
func Coord(v float32) *float32 {
	return &v
}

// FormatFloat renders f with at most one fraction digit, no grouping and
// no trailing ".0": 123.0 -> "123", 234.1 -> "234.1".
func FormatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'f', 1, 32)
	return strings.TrimSuffix(s, ".0")
}

// joinArguments renders args separated by sep.
func joinArguments(args []Argument, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a != nil {
			parts[i] = a.String()
		}
	}
	return strings.Join(parts, sep)
}
