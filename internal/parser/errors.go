package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure is matched when the input is not two blocks separated by a blank line
	ErrStructure = errors.New("malformed input")
	// ErrDiagram is matched by failures in the stack diagram block
	ErrDiagram = errors.New("invalid stack diagram")
	// ErrInstruction is matched by failures in the instruction block
	ErrInstruction = errors.New("invalid instruction")
)

// LineError describes a single offending input line
type LineError struct {
	Kind   error  // ErrDiagram or ErrInstruction
	Line   int    // 1-based line number within the whole input
	Text   string // raw line text
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: line %d %q: %s", e.Kind, e.Line, e.Text, e.Reason)
}

func (e *LineError) Unwrap() error {
	return e.Kind
}

func diagramError(line int, text, format string, args ...any) error {
	return &LineError{Kind: ErrDiagram, Line: line, Text: text, Reason: fmt.Sprintf(format, args...)}
}

func instructionError(line int, text, format string, args ...any) error {
	return &LineError{Kind: ErrInstruction, Line: line, Text: text, Reason: fmt.Sprintf(format, args...)}
}
