package rmlprotocol

import (
	"fmt"
	"math"
)

// Generate renders the command with args. Arguments are validated first;
// on any error no text is returned.
//
//	D    + [PairArgument{1, 2}]            -> "D 1,2;"
//	!ZE  + [Axis X1 Y2 Z3, Axis A4]        -> "!ZE X1Y2Z3:A4;"
//	^    + [CallArgument{VS}, Float 12.5]  -> "^ VS 12.5;"
func (c *Codec) Generate(args []Argument) (string, error) {
	if err := c.Validate(args); err != nil {
		return "", err
	}
	switch c.shape.render {
	case renderBare:
		return c.Letters + Terminator, nil
	case renderCall:
		return c.generateCall(args)
	}
	if len(args) == 0 {
		return c.Letters + Terminator, nil
	}
	sep := ArgumentSeparator
	if c.shape.render == renderAxes {
		sep = AxisSeparator
	}
	return c.Letters + " " + joinArguments(args, sep) + Terminator, nil
}

func (c *Codec) generateCall(args []Argument) (string, error) {
	target, ok := args[0].(CallArgument)
	if !ok {
		return "", newTypeError(c.Letters, args[0].String(), "the call target must be a CallArgument value")
	}
	nested, err := ByID(target.Command).Generate(args[1:])
	if err != nil {
		return "", err
	}
	return CallMarker + " " + nested, nil
}

// Validate checks the argument count, the kind of every argument and the
// numeric bounds of every value against the command's declared shape.
func (c *Codec) Validate(args []Argument) error {
	if c.shape.render == renderBare {
		return nil
	}
	n := len(args)
	if n < c.shape.min {
		return newArityError(c.Letters, fmt.Sprintf("expected at least %d argument(s), got %d", c.shape.min, n))
	}
	if c.shape.max >= 0 && n > c.shape.max {
		return newArityError(c.Letters, fmt.Sprintf("expected at most %d argument(s), got %d", c.shape.max, n))
	}
	if c.shape.render == renderCall {
		// Only the call target is checked here; the nested command
		// validates the rest.
		args = args[:1]
	}
	for _, arg := range args {
		if arg == nil {
			return newTypeError(c.Letters, "nil", "the argument is blank")
		}
		if !c.accepts(arg.Kind()) {
			return newTypeError(c.Letters, arg.String(), fmt.Sprintf("%s is not accepted", arg.Kind()))
		}
		if err := checkBounds(c.Letters, arg); err != nil {
			return err
		}
	}
	return nil
}

// accepts reports whether kind k is permitted. An IntArgument is accepted
// wherever a LongArgument is.
func (c *Codec) accepts(k ArgumentKind) bool {
	for _, permitted := range c.shape.kinds {
		if permitted == k || (k == KindInt && permitted == KindLong) {
			return true
		}
	}
	return false
}

// Kinds returns the argument kinds the command accepts.
func (c *Codec) Kinds() []ArgumentKind {
	return append([]ArgumentKind(nil), c.shape.kinds...)
}

// Arity returns the minimum and maximum argument count; max is -1 when
// unbounded.
func (c *Codec) Arity() (minArgs, maxArgs int) {
	return c.shape.min, c.shape.max
}

func checkBounds(cmd string, arg Argument) error {
	switch a := arg.(type) {
	case IntArgument:
		if a < MinInt || a > MaxInt {
			return newValidationError(cmd, a.String(), "the argument of type int is out of bound")
		}
	case LongArgument:
		if float64(a) < MinFloat || float64(a) > MaxFloat {
			return newValidationError(cmd, a.String(), "the argument of type long is out of bound")
		}
	case FloatArgument:
		return checkFloat(cmd, "value", float32(a))
	case PairArgument:
		return firstError(
			checkFloat(cmd, "x", a.X),
			checkFloat(cmd, "y", a.Y))
	case VertexArgument:
		return firstError(
			checkFloat(cmd, "x", a.X),
			checkFloat(cmd, "y", a.Y),
			checkFloat(cmd, "z", a.Z))
	case AxisArgument:
		if a.Empty() {
			return newValidationError(cmd, "", "the axis argument has no coordinate set")
		}
		return firstError(
			checkOptional(cmd, "x", a.X),
			checkOptional(cmd, "y", a.Y),
			checkOptional(cmd, "z", a.Z),
			checkOptional(cmd, "a", a.A))
	case CallArgument:
		if target := ByID(a.Command); target == nil || target.Family != FamilyMode2 {
			return newValidationError(cmd, a.Command.String(), "no mode 2 command specified")
		}
	}
	return nil
}

func checkFloat(cmd, field string, f float32) error {
	v := float64(f)
	if math.IsNaN(v) || v < MinFloat || v > MaxFloat {
		return newValidationError(cmd, FormatFloat(f), fmt.Sprintf("the argument %s is out of bound", field))
	}
	return nil
}

func checkOptional(cmd, field string, f *float32) error {
	if f == nil {
		return nil
	}
	return checkFloat(cmd, field, *f)
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
