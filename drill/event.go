// Package drill tokenizes PCB drill files (the Excellon dialect written by
// KiCad) into typed events.
//
// Every non-comment line of the file produces exactly one Event:
//
//	M48            StartHeader
//	METRIC         MetricUnits
//	FMAT,2         FormatSpec{Text: ",2"}
//	T1C0.400       Tool{ID: "1", Diameter: 0.4}
//	%              EndHeader
//	G90            SetDrillMode{Mode: "90"}
//	T1             SelectTool{ID: "1"}
//	X35.56Y-40.64  DrillHole{X: 35.56, Y: -40.64}
//	G00X1Y2        Move{X: 1, Y: 2}
//	M30            EndFile
//
// Lines starting with ';' are comments and are skipped.
package drill

import (
	"fmt"
	"strconv"
)

// EventKind identifies the variant of an Event.
type EventKind int

const (
	KindDrillHole EventKind = iota
	KindMove
	KindSelectTool
	KindTool
	KindFormatSpec
	KindSetDrillMode
	KindStartHeader
	KindEndHeader
	KindEndFile
	KindToolLiftUp
	KindToolPlungeDown
	KindMetricUnits
)

var kindNames = [...]string{
	KindDrillHole:      "drill",
	KindMove:           "move",
	KindSelectTool:     "select",
	KindTool:           "tool",
	KindFormatSpec:     "format",
	KindSetDrillMode:   "mode",
	KindStartHeader:    "start",
	KindEndHeader:      "end-header",
	KindEndFile:        "end",
	KindToolLiftUp:     "lift",
	KindToolPlungeDown: "plunge",
	KindMetricUnits:    "metric",
}

func (k EventKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one tokenized drill file line. Events are immutable values.
type Event interface {
	Kind() EventKind
}

// DrillHole drills at an absolute position, offsets already applied.
type DrillHole struct {
	X, Y float32
}

// Move positions the tool without drilling.
type Move struct {
	X, Y float32
}

// SelectTool activates a previously declared tool.
type SelectTool struct {
	ID string
}

// Tool declares a tool and its diameter in millimeters.
type Tool struct {
	ID       string
	Diameter float32
}

// FormatSpec carries the text following FMAT.
type FormatSpec struct {
	Text string
}

// SetDrillMode carries the digits of a G code.
type SetDrillMode struct {
	Mode string
}

// StartHeader opens the header (M48).
type StartHeader struct{}

// EndHeader closes the header (%).
type EndHeader struct{}

// EndFile ends the program (M30).
type EndFile struct{}

// ToolLiftUp raises a routing tool (M16).
type ToolLiftUp struct{}

// ToolPlungeDown lowers a routing tool (M15).
type ToolPlungeDown struct{}

// MetricUnits selects millimeters.
type MetricUnits struct{}

func (DrillHole) Kind() EventKind      { return KindDrillHole }
func (Move) Kind() EventKind           { return KindMove }
func (SelectTool) Kind() EventKind     { return KindSelectTool }
func (Tool) Kind() EventKind           { return KindTool }
func (FormatSpec) Kind() EventKind     { return KindFormatSpec }
func (SetDrillMode) Kind() EventKind   { return KindSetDrillMode }
func (StartHeader) Kind() EventKind    { return KindStartHeader }
func (EndHeader) Kind() EventKind      { return KindEndHeader }
func (EndFile) Kind() EventKind        { return KindEndFile }
func (ToolLiftUp) Kind() EventKind     { return KindToolLiftUp }
func (ToolPlungeDown) Kind() EventKind { return KindToolPlungeDown }
func (MetricUnits) Kind() EventKind    { return KindMetricUnits }

// Label renders the tool as "T<id> <diameter>mm", e.g. "T1 0.4mm".
func (t Tool) Label() string {
	return fmt.Sprintf("T%s %smm", t.ID, formatNumber(t.Diameter))
}

func (t Tool) String() string {
	return t.Label()
}

// formatNumber renders f with the fewest digits that read back as f.
func formatNumber(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}
