// Package toolpath turns tokenized drill files into RML-1 command text,
// one block of commands per drilling tool.
package toolpath

import (
	"errors"
	"fmt"
)

// SpeedXY is the X,Y feed rate written to every generated block.
const SpeedXY float32 = 15

// ErrInvalidArguments indicates routing arguments that cannot be used.
var ErrInvalidArguments = errors.New("invalid routing arguments")

// RoutingArguments configures one generation run. Depths and coordinates
// are in drill file units and are divided by UnitConversion before being
// written.
type RoutingArguments struct {
	Z0 float32 // travel height
	Z1 float32 // drilling depth

	OffsetX float32 // added to every coordinate while tokenizing
	OffsetY float32

	// UnitConversion divides every emitted value; use 1 for none.
	UnitConversion float32

	// SpeedZ is the optional Z feed rate.
	SpeedZ *float32

	// Stepping is the number of holes per command block. Zero or less
	// emits a single block per tool with one command per line.
	Stepping int

	// WriteExtremes prepends a block visiting the origin and the far
	// corner of the drilled area at the deepest Z. Only used when
	// Stepping is positive.
	WriteExtremes bool
}

// DefaultRoutingArguments returns arguments without conversion that write
// the extremes block.
func DefaultRoutingArguments() RoutingArguments {
	return RoutingArguments{UnitConversion: 1, WriteExtremes: true}
}

// Validate checks the arguments before a run.
func (a RoutingArguments) Validate() error {
	if !(a.UnitConversion > 0) {
		return fmt.Errorf("%w: unit conversion rate must be positive, got %v", ErrInvalidArguments, a.UnitConversion)
	}
	if a.SpeedZ != nil && *a.SpeedZ < 0 {
		return fmt.Errorf("%w: negative Z speed %v", ErrInvalidArguments, *a.SpeedZ)
	}
	return nil
}
