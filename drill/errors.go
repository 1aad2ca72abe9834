package drill

import (
	"errors"
	"fmt"
)

// ErrBlankInput indicates an empty drill text.
var ErrBlankInput = errors.New("the drill text is blank")

// MalformedLineError reports a non-comment line that matches no event
// grammar. Tokenization stops at the first such line.
type MalformedLineError struct {
	Line int    // 1-based line number
	Text string // the raw line
}

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("cannot interpret '%s' at line %d", e.Text, e.Line)
}

// NumericFieldError reports a line whose grammar matched but whose numeric
// field could not be converted, typically because it overflows float32.
type NumericFieldError struct {
	Line  int
	Text  string
	Field string // "x", "y" or "diameter"
	Err   error
}

// Error implements the error interface.
func (e *NumericFieldError) Error() string {
	return fmt.Sprintf("invalid %s in '%s' at line %d: %v", e.Field, e.Text, e.Line, e.Err)
}

// Unwrap returns the conversion error.
func (e *NumericFieldError) Unwrap() error {
	return e.Err
}
