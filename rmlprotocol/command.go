package rmlprotocol

import (
	"regexp"
	"sort"
)

// CommandID identifies one protocol command.
type CommandID int

const (
	// Mode 1
	CmdCallMode CommandID = iota
	CmdDrawLineCutting
	CmdDwell
	CmdHomeMovement
	CmdLinearMovement
	CmdRelativeDrawLineCutting
	CmdRelativeLinearMovement
	CmdSetVelocity
	CmdSetZ1Z2
	CmdSetZVelocity
	CmdThreeAxesMovement

	// Mode 2
	CmdDefaultSettings
	CmdInitialize
	CmdPenDown
	CmdPenUp
	CmdPlotAbsolute
	CmdPlotRelative
	CmdVelocitySelection

	// Mode common
	CmdCommonDwell
	CmdExtensionAxisMovement
	CmdMotorControl
	CmdNotReady
	CmdRevolutionControl
	CmdSetZ0
	CmdCommonSetZ1Z2
	CmdThreeAxisFeed
	CmdVelocitySelectZ
	CmdZAxisMovement

	commandCount
)

// renderMode selects how Generate lays out a command.
type renderMode int

const (
	renderList renderMode = iota // LETTERS[ a,b,c];
	renderAxes                   // LETTERS a:b;
	renderBare                   // LETTERS; whatever the arguments
	renderCall                   // ^ <nested command>
)

// elementMode selects how Parse splits the argument text.
type elementMode int

const (
	elementNone elementMode = iota
	elementScalar
	elementIntList
	elementPair
	elementVertex
	elementAxis
	elementCall
)

// shape is the declared argument layout of a command.
type shape struct {
	kinds   []ArgumentKind // permitted kinds; an IntArgument is also accepted where KindLong is
	min     int
	max     int // -1 for no upper limit
	render  renderMode
	element elementMode
}

// Codec is the stateless descriptor of one protocol command. All codecs
// live in a fixed registry built at package initialization; they are safe
// for concurrent use.
type Codec struct {
	ID      CommandID
	Family  Family
	Letters string
	Name    string

	grammar *regexp.Regexp
	avoid   *regexp.Regexp
	shape   shape
}

var (
	noArgs       = shape{min: 0, max: 0, render: renderList, element: elementNone}
	bare         = shape{min: 0, max: -1, render: renderBare, element: elementNone}
	pairs        = shape{kinds: []ArgumentKind{KindPair}, min: 0, max: -1, render: renderList, element: elementPair}
	vertices     = shape{kinds: []ArgumentKind{KindVertex}, min: 1, max: -1, render: renderList, element: elementVertex}
	optionalInt  = shape{kinds: []ArgumentKind{KindInt}, min: 0, max: 1, render: renderList, element: elementScalar}
	optionalLong = shape{kinds: []ArgumentKind{KindLong}, min: 0, max: 1, render: renderList, element: elementScalar}
	oneOrTwoLong = shape{kinds: []ArgumentKind{KindLong}, min: 1, max: 2, render: renderList, element: elementIntList}
	optSpeed     = shape{kinds: []ArgumentKind{KindLong, KindFloat}, min: 0, max: 1, render: renderList, element: elementScalar}
	optFloat     = shape{kinds: []ArgumentKind{KindFloat}, min: 0, max: 1, render: renderList, element: elementScalar}
	axes         = shape{kinds: []ArgumentKind{KindAxis}, min: 1, max: -1, render: renderAxes, element: elementAxis}
	call         = shape{kinds: []ArgumentKind{KindCall}, min: 1, max: -1, render: renderCall, element: elementCall}
)

var registry = [commandCount]Codec{
	{ID: CmdCallMode, Family: FamilyMode1, Letters: "^", Name: "Call Mode 2",
		grammar: grammar(`\x5E(\x20)?(DF|IN|PA|PD|PR|PU|VS).*;`), shape: call},
	{ID: CmdDrawLineCutting, Family: FamilyMode1, Letters: "D", Name: "Draw -- Line-cutting command",
		grammar: grammar(`D(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdDwell, Family: FamilyMode1, Letters: "W", Name: "Dwell",
		grammar: grammar(`W(` + intPattern + `)?;`), shape: optionalInt},
	{ID: CmdHomeMovement, Family: FamilyMode1, Letters: "H", Name: "Move home",
		grammar: grammar(`H(\x20)?;`), shape: bare},
	{ID: CmdLinearMovement, Family: FamilyMode1, Letters: "M", Name: "Linear movement",
		grammar: grammar(`M(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdRelativeDrawLineCutting, Family: FamilyMode1, Letters: "I", Name: "Relative-coordinate line-cutting command",
		grammar: grammar(`I(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdRelativeLinearMovement, Family: FamilyMode1, Letters: "R", Name: "Relative Movements At Z2",
		grammar: grammar(`R(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdSetVelocity, Family: FamilyMode1, Letters: "F", Name: "Set velocity",
		grammar: grammar(`F(` + intPattern + `|` + floatPattern + `)?;`), shape: optSpeed},
	{ID: CmdSetZ1Z2, Family: FamilyMode1, Letters: "@", Name: "@ (Input Z1 & Z2 command)",
		grammar: grammar(`\x40(` + signedIntPattern + `(\x2c` + signedIntPattern + `)?);`), shape: oneOrTwoLong},
	{ID: CmdSetZVelocity, Family: FamilyMode1, Letters: "V", Name: "Set velocity for Z movements",
		grammar: grammar(`V(` + intPattern + `|` + floatPattern + `)?;`), shape: optSpeed},
	{ID: CmdThreeAxesMovement, Family: FamilyMode1, Letters: "Z", Name: "Three axes movement",
		grammar: grammar(`Z(` + verticesPattern + `);`), shape: vertices},

	{ID: CmdDefaultSettings, Family: FamilyMode2, Letters: "DF", Name: "Default Settings",
		grammar: grammar(`DF(\x20)?;`), shape: noArgs},
	{ID: CmdInitialize, Family: FamilyMode2, Letters: "IN", Name: "Initialize",
		grammar: grammar(`IN(\x20)?;`), shape: noArgs},
	{ID: CmdPenDown, Family: FamilyMode2, Letters: "PD", Name: "Pen down",
		grammar: grammar(`PD(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdPenUp, Family: FamilyMode2, Letters: "PU", Name: "Pen up",
		grammar: grammar(`PU(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdPlotAbsolute, Family: FamilyMode2, Letters: "PA", Name: "Plot absolute",
		grammar: grammar(`PA(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdPlotRelative, Family: FamilyMode2, Letters: "PR", Name: "Plot relative",
		grammar: grammar(`PR(` + pairsPattern + `)?;`), shape: pairs},
	{ID: CmdVelocitySelection, Family: FamilyMode2, Letters: "VS", Name: "Tool speed setting",
		grammar: grammar(`VS(` + floatPattern + `|` + intPattern + `)?;`), shape: optSpeed},

	{ID: CmdCommonDwell, Family: FamilyCommon, Letters: "!DW", Name: "Dwell time",
		grammar: grammar(`!DW(` + intPattern + `)?;`), shape: optionalInt},
	{ID: CmdExtensionAxisMovement, Family: FamilyCommon, Letters: "!ZE", Name: "Extension axis move",
		grammar: grammar(`!ZE\x20([\x20XYZA\d\x2e\x2d\x2c:]*);`), avoid: avoidPattern(`[b-vB-V\x40].*`), shape: axes},
	{ID: CmdMotorControl, Family: FamilyCommon, Letters: "!MC", Name: "Motor control",
		grammar: grammar(`!MC(` + intPattern + `)?;`), shape: optionalInt},
	{ID: CmdNotReady, Family: FamilyCommon, Letters: "!NR", Name: "Not ready",
		grammar: grammar(`!NR(\x20)?;`), shape: bare},
	{ID: CmdRevolutionControl, Family: FamilyCommon, Letters: "!RC", Name: "Revolution Control",
		grammar: grammar(`!RC(` + intPattern + `)?;`), shape: optionalLong},
	{ID: CmdSetZ0, Family: FamilyCommon, Letters: "!ZO", Name: "Set Z0",
		grammar: grammar(`!ZO(` + floatPattern + `)?;`), shape: optFloat},
	{ID: CmdCommonSetZ1Z2, Family: FamilyCommon, Letters: "!PZ", Name: "Set Z1 and Z2",
		grammar: grammar(`!PZ(` + signedIntPattern + `(\x2c` + signedIntPattern + `)?);`), shape: oneOrTwoLong},
	{ID: CmdThreeAxisFeed, Family: FamilyCommon, Letters: "!ZZ", Name: "Three axis simultaneous feed",
		grammar: grammar(`!ZZ(` + verticesPattern + `);`), avoid: avoidPattern(`!ZZ.*;`), shape: vertices},
	{ID: CmdVelocitySelectZ, Family: FamilyCommon, Letters: "!VZ", Name: "Set velocity on Z axis",
		grammar: grammar(`!VZ(` + intPattern + `|` + floatPattern + `)?;`), shape: optSpeed},
	{ID: CmdZAxisMovement, Family: FamilyCommon, Letters: "!ZM", Name: "Z axis move",
		grammar: grammar(`!ZM(` + floatPattern + `)?;`), shape: optFloat},
}

var (
	byLetters  = make(map[string]*Codec, commandCount)
	byName     = make(map[string]*Codec, commandCount)
	matchOrder []*Codec // longest letters first
)

func init() {
	for i := range registry {
		c := &registry[i]
		if c.avoid == nil {
			c.avoid = defaultAvoid
		}
		byLetters[c.Letters] = c
		byName[c.Name] = c
		matchOrder = append(matchOrder, c)
	}
	sort.SliceStable(matchOrder, func(i, j int) bool {
		return len(matchOrder[i].Letters) > len(matchOrder[j].Letters)
	})
}

// ByID returns the codec for id, or nil for an unknown id.
func ByID(id CommandID) *Codec {
	if id < 0 || id >= commandCount {
		return nil
	}
	return &registry[id]
}

// Lookup returns the codec addressed by its letters, e.g. "!ZM" or "VS".
func Lookup(letters string) (*Codec, bool) {
	c, ok := byLetters[letters]
	return c, ok
}

// LookupName returns the codec with the given descriptive name.
func LookupName(name string) (*Codec, bool) {
	c, ok := byName[name]
	return c, ok
}

// Commands returns every codec in registry order.
func Commands() []*Codec {
	out := make([]*Codec, len(registry))
	for i := range registry {
		out[i] = &registry[i]
	}
	return out
}

// FamilyCommands returns the codecs of one family in registry order.
func FamilyCommands(f Family) []*Codec {
	var out []*Codec
	for i := range registry {
		if registry[i].Family == f {
			out = append(out, &registry[i])
		}
	}
	return out
}

// Match resolves a single command token to its codec by letter prefix.
// Longer letter codes win, so "VS 12;" resolves to VS rather than V.
// Only the prefix is checked; Parse still validates the full grammar.
func Match(token string) (*Codec, bool) {
	for _, c := range matchOrder {
		if len(token) >= len(c.Letters) && token[:len(c.Letters)] == c.Letters {
			return c, true
		}
	}
	return nil, false
}

// String returns the command letters.
func (id CommandID) String() string {
	if c := ByID(id); c != nil {
		return c.Letters
	}
	return "?"
}
