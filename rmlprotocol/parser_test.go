package rmlprotocol

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustLookup(t *testing.T, letters string) *Codec {
	t.Helper()
	c, ok := Lookup(letters)
	if !ok {
		t.Fatalf("no codec for %q", letters)
	}
	return c
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		letters  string
		token    string
		expected []Argument
	}{
		{"axis groups", "!ZE", "!ZE X1Y2Z3:A4;", []Argument{
			AxisArgument{X: Coord(1), Y: Coord(2), Z: Coord(3)},
			AxisArgument{A: Coord(4)},
		}},
		{"axis with commas", "!ZE", "!ZE X234.5,Z123.2;", []Argument{
			AxisArgument{X: Coord(234.5), Z: Coord(123.2)},
		}},
		{"vertices", "!ZZ", "!ZZ 123.5,456.5,567.5,789.5,123.5,422.5;", []Argument{
			VertexArgument{X: 123.5, Y: 456.5, Z: 567.5},
			VertexArgument{X: 789.5, Y: 123.5, Z: 422.5},
		}},
		{"vertices packed", "!ZZ", "!ZZ123.5,234.5,456.7,67.2,21.1,456.7;", []Argument{
			VertexArgument{X: 123.5, Y: 234.5, Z: 456.7},
			VertexArgument{X: 67.2, Y: 21.1, Z: 456.7},
		}},
		{"vertices without space", "!ZZ", "!ZZ123.5,456.5,-1;", []Argument{
			VertexArgument{X: 123.5, Y: 456.5, Z: -1},
		}},
		{"three axes", "Z", "Z 1,2,3;", []Argument{
			VertexArgument{X: 1, Y: 2, Z: 3},
		}},
		{"pairs", "I", "I 123.1,456.1,789.1,123.1;", []Argument{
			PairArgument{X: 123.1, Y: 456.1},
			PairArgument{X: 789.1, Y: 123.1},
		}},
		{"pairs with spaces", "D", "D 1, 2 ,3,4;", []Argument{
			PairArgument{X: 1, Y: 2},
			PairArgument{X: 3, Y: 4},
		}},
		{"no pairs", "D", "D;", []Argument{}},
		{"call with space", "^", "^ VS 125.5;", []Argument{
			CallArgument{Command: CmdVelocitySelection}, FloatArgument(125.5),
		}},
		{"call without space", "^", "^ VS125.5;", []Argument{
			CallArgument{Command: CmdVelocitySelection}, FloatArgument(125.5),
		}},
		{"call without arguments", "^", "^DF;", []Argument{
			CallArgument{Command: CmdDefaultSettings},
		}},
		{"call with pairs", "^", "^ PU 123,234.1;", []Argument{
			CallArgument{Command: CmdPenUp}, PairArgument{X: 123, Y: 234.1},
		}},
		{"signed z1 z2", "@", "@ -2000,0;", []Argument{
			LongArgument(-2000), LongArgument(0),
		}},
		{"single z1", "!PZ", "!PZ -10;", []Argument{LongArgument(-10)}},
		{"dwell", "W", "W 100;", []Argument{IntArgument(100)}},
		{"motor", "!MC", "!MC 1;", []Argument{IntArgument(1)}},
		{"revolution", "!RC", "!RC 15;", []Argument{LongArgument(15)}},
		{"integer speed", "F", "F 15;", []Argument{LongArgument(15)}},
		{"decimal speed", "V", "V 2.5;", []Argument{FloatArgument(2.5)}},
		{"empty speed", "VS", "VS;", []Argument{}},
		{"float only", "!ZM", "!ZM -20;", []Argument{FloatArgument(-20)}},
		{"set z0", "!ZO", "!ZO 3.5;", []Argument{FloatArgument(3.5)}},
		{"home", "H", "H;", []Argument{}},
		{"initialize", "IN", "IN;", []Argument{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := mustLookup(t, tt.letters).Parse(tt.token)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.token, err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.token, diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		letters string
		token   string
		want    error
	}{
		{"odd pair", "D", "D 1;", ErrGrammarMismatch},
		{"negative int", "W", "W -1;", ErrGrammarMismatch},
		{"missing terminator", "!MC", "!MC 0", ErrGrammarMismatch},
		{"empty", "H", "", ErrGrammarMismatch},
		{"incomplete vertex", "!ZZ", "!ZZ 1,2;", ErrGrammarMismatch},
		{"axis without space", "!ZE", "!ZEX1;", ErrGrammarMismatch},
		{"call to mode 1", "^", "^ XX;", ErrGrammarMismatch},
		{"call with bad nested", "^", "^ IN 1;", ErrGrammarMismatch},
		{"int overflow", "W", "W 99999999999;", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mustLookup(t, tt.letters).Parse(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse(%q) error = %v, want %v", tt.token, err, tt.want)
			}
		})
	}
}

func TestIsParseable(t *testing.T) {
	tests := []struct {
		letters  string
		token    string
		expected bool
	}{
		{"!ZE", "!ZE X1Y2Z3:A4;", true},
		{"!ZE", "!ZE ;", true},
		{"VS", "VS 12;", true},
		{"VS", "VS12.5;", true},
		{"VS", "VS -12;", true},
		{"F", "F;", true},
		{"H", "H ;", true},
		{"H", "H 1;", false},
		{"DF", "DF 1;", false},
		{"!ZM", "!ZM abc;", false},
		{"@", "@;", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := mustLookup(t, tt.letters).IsParseable(tt.token); got != tt.expected {
				t.Errorf("IsParseable(%q) = %v, want %v", tt.token, got, tt.expected)
			}
		})
	}
}
