// Package rmlprotocol implements the RML-1 command protocol spoken by
// pen and spindle plotting machines.
//
// # Protocol Overview
//
// Every command is a short letter code followed by optional arguments and
// terminated by a semicolon. Commands are grouped in three families:
//
//	Mode 1:       ^ D W H M I R F @ V Z
//	Mode 2:       DF IN PD PU PA PR VS   (reachable through the ^ call)
//	Mode common:  !DW !ZE !MC !NR !RC !ZO !PZ !ZZ !VZ !ZM
//
// Arguments are comma separated, with a space between the letters and the
// first argument. The extension axis move joins its axis groups with a
// colon instead:
//
//	D 1,2,3,4;
//	!ZE X1Y2Z3:A4;
//	^ VS 12.5;
//
// Decimal values are written with at most one fraction digit and without
// a trailing ".0".
//
// # Basic Usage
//
// Every command is described by a Codec held in a fixed registry:
//
//	codec, _ := rmlprotocol.Lookup("!ZM")
//	out, err := codec.Generate([]rmlprotocol.Argument{rmlprotocol.FloatArgument(-20)})
//	// out == "!ZM -20;"
//
//	args, err := codec.Parse("!ZM -20;")
//
// Generate validates the argument count, kinds and numeric bounds before
// producing any text. Parse accepts only text matching the command grammar.
//
// # Complex Commands
//
// DrillSequence and PlotSequence turn a ComplexArgument (a list of points
// plus depths and speeds) into a full block of commands:
//
//	block, err := rmlprotocol.DrillSequence{}.Generate(rmlprotocol.ComplexArgument{
//	    Z:      rmlprotocol.Coord(0),
//	    Points: []rmlprotocol.VertexArgument{{X: 12.3, Y: 45.6, Z: -20}},
//	})
//
// # Descriptions
//
// A Translator parses command text and renders every command by name with
// an optional localized explanation loaded from the embedded
// description files:
//
//	t := rmlprotocol.NewTranslator("en")
//	text, err := t.Translate("!ZM -20;!MC 0;")
//
// # Thread Safety
//
// Codecs are immutable after package initialization and may be shared by
// any number of goroutines. The description cache is synchronized.
package rmlprotocol
