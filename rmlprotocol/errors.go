package rmlprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the command codec.
var (
	// ErrGrammarMismatch indicates text that does not match a command grammar.
	ErrGrammarMismatch = errors.New("grammar mismatch")

	// ErrArity indicates a wrong number of arguments.
	ErrArity = errors.New("wrong number of arguments")

	// ErrType indicates an argument of a kind the command does not accept.
	ErrType = errors.New("wrong argument type")

	// ErrValidation indicates an argument value outside the protocol bounds.
	ErrValidation = errors.New("argument out of bounds")

	// ErrUnknownCommand indicates a token or name that resolves to no command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrEmptyPoints indicates a complex command without geometry.
	ErrEmptyPoints = errors.New("no points have been specified")

	// ErrInconsistentZ indicates plot points that disagree on their Z position.
	ErrInconsistentZ = errors.New("points do not share the same Z position")
)

// CodecError describes a failure to generate or parse a command.
type CodecError struct {
	Kind    CodecErrorKind
	Command string // Letters of the command involved, if known
	Value   string // The offending text or value
	Message string // Additional context
}

// CodecErrorKind categorizes codec errors.
type CodecErrorKind int

const (
	// ErrKindGrammarMismatch indicates text that fails the command grammar.
	ErrKindGrammarMismatch CodecErrorKind = iota
	// ErrKindArity indicates a wrong argument count.
	ErrKindArity
	// ErrKindType indicates an argument of an unexpected kind.
	ErrKindType
	// ErrKindValidation indicates an out of bounds or incomplete value.
	ErrKindValidation
	// ErrKindUnknownCommand indicates text that names no command.
	ErrKindUnknownCommand
)

// Error implements the error interface.
func (e *CodecError) Error() string {
	prefix := ""
	if e.Command != "" {
		prefix = e.Command + ": "
	}
	switch e.Kind {
	case ErrKindGrammarMismatch:
		return fmt.Sprintf("%scannot parse '%s'", prefix, e.Value)
	case ErrKindArity:
		return prefix + e.Message
	case ErrKindType:
		return fmt.Sprintf("%sunexpected argument '%s': %s", prefix, e.Value, e.Message)
	case ErrKindValidation:
		return fmt.Sprintf("%sinvalid argument '%s': %s", prefix, e.Value, e.Message)
	case ErrKindUnknownCommand:
		if e.Message != "" {
			return fmt.Sprintf("unknown command '%s' %s", e.Value, e.Message)
		}
		return fmt.Sprintf("unknown command '%s'", e.Value)
	default:
		return fmt.Sprintf("%scodec error: %s", prefix, e.Value)
	}
}

// Unwrap maps the kind onto its sentinel so errors.Is works on the kind.
func (e *CodecError) Unwrap() error {
	switch e.Kind {
	case ErrKindGrammarMismatch:
		return ErrGrammarMismatch
	case ErrKindArity:
		return ErrArity
	case ErrKindType:
		return ErrType
	case ErrKindValidation:
		return ErrValidation
	case ErrKindUnknownCommand:
		return ErrUnknownCommand
	default:
		return nil
	}
}

// Helper functions to create specific codec errors.

func newGrammarMismatchError(cmd, token string) error {
	return &CodecError{Kind: ErrKindGrammarMismatch, Command: cmd, Value: token}
}

func newArityError(cmd, msg string) error {
	return &CodecError{Kind: ErrKindArity, Command: cmd, Message: msg}
}

func newTypeError(cmd, value, msg string) error {
	return &CodecError{Kind: ErrKindType, Command: cmd, Value: value, Message: msg}
}

func newValidationError(cmd, value, msg string) error {
	return &CodecError{Kind: ErrKindValidation, Command: cmd, Value: value, Message: msg}
}

func newUnknownCommandError(value, msg string) error {
	return &CodecError{Kind: ErrKindUnknownCommand, Value: value, Message: msg}
}
