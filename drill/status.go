package drill

import (
	"strings"
)

// Status summarizes a tokenized drill file: the bounding box of every hole
// and move, and the declared tools. The box always contains the origin.
type Status struct {
	MinX, MaxX float32
	MinY, MaxY float32
	Tools      []Tool
}

// NewStatus computes the status of events.
func NewStatus(events []Event) Status {
	var s Status
	for _, e := range events {
		switch ev := e.(type) {
		case DrillHole:
			s.include(ev.X, ev.Y)
		case Move:
			s.include(ev.X, ev.Y)
		case Tool:
			s.Tools = append(s.Tools, ev)
		}
	}
	return s
}

func (s *Status) include(x, y float32) {
	s.MinX = min(s.MinX, x)
	s.MaxX = max(s.MaxX, x)
	s.MinY = min(s.MinY, y)
	s.MaxY = max(s.MaxY, y)
}

// Width is the X extent of the bounding box.
func (s Status) Width() float32 { return s.MaxX - s.MinX }

// Height is the Y extent of the bounding box.
func (s Status) Height() float32 { return s.MaxY - s.MinY }

// String renders the box and one line per tool:
//
//	X: 0 - 55.675 | Y: -73.66 - 0
//	Tool: T1 0.4mm
func (s Status) String() string {
	var sb strings.Builder
	sb.WriteString("X: ")
	sb.WriteString(formatNumber(s.MinX))
	sb.WriteString(" - ")
	sb.WriteString(formatNumber(s.MaxX))
	sb.WriteString(" | Y: ")
	sb.WriteString(formatNumber(s.MinY))
	sb.WriteString(" - ")
	sb.WriteString(formatNumber(s.MaxY))
	for _, tool := range s.Tools {
		sb.WriteString("\nTool: ")
		sb.WriteString(tool.Label())
	}
	return sb.String()
}
