package rmlprotocol

import (
	"strings"
)

// ComplexArgument bundles everything a complex command needs. Nil
// pointers are absent values.
type ComplexArgument struct {
	X, Y         *float32 // starting point, used only when both are set
	Z            *float32 // base depth (Z0 for drilling, Z2 for plotting)
	SpeedXY      *float32
	SpeedZ       *float32
	SpeedSpinner *float32
	Reset        bool // return home before switching the motor off
	Points       []VertexArgument
}

// ComplexGenerator composes several codec invocations into one block.
type ComplexGenerator interface {
	Generate(arg ComplexArgument) (string, error)
}

// DrillSequence plunges the tool at every point:
//
//	^IN; F s; V s; [M x,y;] { M px,py; !ZM pz; !ZM z0; } [H;] !MC 0;
type DrillSequence struct{}

// Generate implements ComplexGenerator.
func (DrillSequence) Generate(arg ComplexArgument) (string, error) {
	if len(arg.Points) == 0 {
		return "", ErrEmptyPoints
	}
	b := newBlock()
	b.initialize()
	b.speeds(arg)
	b.moveXY(arg.X, arg.Y)
	for _, p := range arg.Points {
		b.moveXY(Coord(p.X), Coord(p.Y))
		b.emit(CmdZAxisMovement, FloatArgument(p.Z))
		if arg.Z != nil {
			b.emit(CmdZAxisMovement, FloatArgument(*arg.Z))
		}
	}
	if arg.Reset {
		b.emit(CmdHomeMovement)
	}
	b.emit(CmdMotorControl, IntArgument(0))
	return b.result()
}

// PlotSequence lifts and lowers a pen at every point:
//
//	^IN; F s; V s; @ z1,z2; { ^ PU px,py; ^ PD; } ^ PU; [H;] !MC 0;
//
// Z1 is the single non-zero Z shared by the points, truncated toward zero;
// points that disagree fail with ErrInconsistentZ. Z2 is the truncated
// base depth, or 0.
type PlotSequence struct{}

// Generate implements ComplexGenerator.
func (PlotSequence) Generate(arg ComplexArgument) (string, error) {
	if len(arg.Points) == 0 {
		return "", ErrEmptyPoints
	}
	z1, err := commonZ(arg.Points)
	if err != nil {
		return "", err
	}
	var z2 int64
	if arg.Z != nil {
		z2 = int64(*arg.Z)
	}

	b := newBlock()
	b.initialize()
	b.speeds(arg)
	b.emit(CmdSetZ1Z2, LongArgument(z1), LongArgument(z2))
	for _, p := range arg.Points {
		b.emit(CmdCallMode, CallArgument{Command: CmdPenUp}, PairArgument{X: p.X, Y: p.Y})
		b.emit(CmdCallMode, CallArgument{Command: CmdPenDown})
	}
	b.emit(CmdCallMode, CallArgument{Command: CmdPenUp})
	if arg.Reset {
		b.emit(CmdHomeMovement)
	}
	b.emit(CmdMotorControl, IntArgument(0))
	return b.result()
}

func commonZ(points []VertexArgument) (int64, error) {
	var z float32
	for _, p := range points {
		if p.Z == 0 {
			continue
		}
		if z == 0 {
			z = p.Z
		} else if z != p.Z {
			return 0, ErrInconsistentZ
		}
	}
	return int64(z), nil
}

// block accumulates codec output and keeps the first error.
type block struct {
	sb  strings.Builder
	err error
}

func newBlock() *block {
	return &block{}
}

func (b *block) emit(id CommandID, args ...Argument) {
	if b.err != nil {
		return
	}
	s, err := ByID(id).Generate(args)
	if err != nil {
		b.err = err
		return
	}
	b.sb.WriteString(s)
}

// initialize writes the call to IN without the separating space the call
// codec would add.
func (b *block) initialize() {
	if b.err != nil {
		return
	}
	s, err := ByID(CmdInitialize).Generate(nil)
	if err != nil {
		b.err = err
		return
	}
	b.sb.WriteString(CallMarker + s)
}

func (b *block) speeds(arg ComplexArgument) {
	if arg.SpeedXY != nil {
		b.emit(CmdSetVelocity, FloatArgument(*arg.SpeedXY))
	}
	if arg.SpeedZ != nil {
		b.emit(CmdSetZVelocity, FloatArgument(*arg.SpeedZ))
	}
}

func (b *block) moveXY(x, y *float32) {
	if x == nil || y == nil {
		return
	}
	b.emit(CmdLinearMovement, PairArgument{X: *x, Y: *y})
}

func (b *block) result() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	return b.sb.String(), nil
}
