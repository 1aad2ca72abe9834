package rmlprotocol

// Protocol constants.
const (
	// Terminator ends every command on the wire.
	Terminator = ";"

	// CallMarker is the mode 1 letter that wraps a mode 2 command.
	CallMarker = "^"

	// ArgumentSeparator joins the arguments of a command.
	ArgumentSeparator = ","

	// AxisSeparator joins the axis groups of an extension axis move.
	AxisSeparator = ":"
)

// Argument bounds accepted by the device.
const (
	// MinInt is the smallest IntArgument value.
	MinInt = 0

	// MaxInt is the largest IntArgument value.
	MaxInt = 32767

	// MinFloat is the smallest coordinate value, also applied to LongArgument.
	MinFloat = -8388608.0

	// MaxFloat is the largest coordinate value, also applied to LongArgument.
	MaxFloat = 8388607.0
)

// Family identifies the addressing group of a command.
type Family int

const (
	// FamilyMode1 holds the direct motion commands.
	FamilyMode1 Family = iota
	// FamilyMode2 holds the plotter commands, reached directly or via a call.
	FamilyMode2
	// FamilyCommon holds the commands prefixed with an exclamation mark.
	FamilyCommon
)

// String returns the family name used in description files.
func (f Family) String() string {
	switch f {
	case FamilyMode1:
		return "mode1"
	case FamilyMode2:
		return "mode2"
	case FamilyCommon:
		return "modec"
	default:
		return "unknown"
	}
}
