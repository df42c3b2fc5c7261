package crane

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientItems is matched by moves that ask for more crates than the source holds
	ErrInsufficientItems = errors.New("insufficient items to move")
	// ErrEmptyStack is matched when the top of an empty stack is requested
	ErrEmptyStack = errors.New("cannot take top of empty stack")
	// ErrUnknownStack is matched by moves that name a stack the collection does not have
	ErrUnknownStack = errors.New("unknown stack")
)

// InsufficientItemsError reports a move that asked for more crates than were available
type InsufficientItemsError struct {
	Move      Move
	Requested int
	Available int
}

func (e *InsufficientItemsError) Error() string {
	return fmt.Sprintf("%s: requested %d crates from stack %d but only %d available",
		describe(e.Move), e.Requested, e.Move.From+1, e.Available)
}

func (e *InsufficientItemsError) Unwrap() error {
	return ErrInsufficientItems
}

// EmptyStackError reports the 1-based label of a stack that had no top
type EmptyStackError struct {
	Label int
}

func (e *EmptyStackError) Error() string {
	return fmt.Sprintf("cannot take top of empty stack %d", e.Label)
}

func (e *EmptyStackError) Unwrap() error {
	return ErrEmptyStack
}

// UnknownStackError reports a move whose label is outside 1..Stacks
type UnknownStackError struct {
	Move   Move
	Label  int
	Stacks int
}

func (e *UnknownStackError) Error() string {
	return fmt.Sprintf("%s: stack %d does not exist (have %d stacks)", describe(e.Move), e.Label, e.Stacks)
}

func (e *UnknownStackError) Unwrap() error {
	return ErrUnknownStack
}

func describe(m Move) string {
	if m.Line > 0 {
		return fmt.Sprintf("line %d %q", m.Line, m.String())
	}
	return fmt.Sprintf("%q", m.String())
}
