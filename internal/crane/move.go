package crane

import "fmt"

// Move relocates Count crates from stack From to stack To.
// From and To are 0-based indices and never equal.
type Move struct {
	Count int
	From  int
	To    int

	// Line is the 1-based input line the move was parsed from, 0 if built in code
	Line int
}

// String renders the move the way it appears in input, with 1-based labels
func (m Move) String() string {
	return fmt.Sprintf("move %d from %d to %d", m.Count, m.From+1, m.To+1)
}

// Step records the state of every stack right after a move was applied.
type Step struct {
	Move  Move
	After Stacks
}

// Apply performs a single move in place.
//
// Crates are lifted one at a time, so a multi-crate move lands on the
// destination in reverse order: the former source top ends up deepest among
// the moved crates and the crate that sat lowest ends up on top.
func (s Stacks) Apply(m Move) error {
	for _, idx := range []int{m.From, m.To} {
		if idx < 0 || idx >= len(s) {
			return &UnknownStackError{Move: m, Label: idx + 1, Stacks: len(s)}
		}
	}
	if m.Count < 0 {
		return &InsufficientItemsError{Move: m, Requested: m.Count, Available: len(s[m.From])}
	}

	source, destination := pair(s, m.From, m.To)
	if m.Count > len(*source) {
		return &InsufficientItemsError{Move: m, Requested: m.Count, Available: len(*source)}
	}

	for n := 0; n < m.Count; n++ {
		c, _ := source.Pop()
		destination.Push(c)
	}
	return nil
}

// ApplyAll applies moves in order and stops at the first one that fails.
// Moves applied before the failure stay applied.
func (s Stacks) ApplyAll(moves []Move) error {
	_, err := s.ApplyEach(moves, nil)
	return err
}

// ApplyEach is ApplyAll in place, calling fn (if non-nil) after every
// successful move with its 1-based step number. It returns how many moves
// were applied.
func (s Stacks) ApplyEach(moves []Move, fn func(step int, m Move)) (int, error) {
	for i, m := range moves {
		if err := s.Apply(m); err != nil {
			return i, fmt.Errorf("step %d: %w", i+1, err)
		}
		if fn != nil {
			fn(i+1, m)
		}
	}
	return len(moves), nil
}

// Replay applies moves to a copy of s and returns a snapshot after each one.
// On failure the steps completed so far are returned with the error; s itself
// is never modified.
func (s Stacks) Replay(moves []Move) ([]Step, error) {
	current := s.Clone()
	steps := make([]Step, 0, len(moves))
	for i, m := range moves {
		if err := current.Apply(m); err != nil {
			return steps, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, Step{Move: m, After: current.Clone()})
	}
	return steps, nil
}

// pair returns pointers to two distinct stacks by splitting the collection
// at the larger index, so the two halves never overlap.
func pair(s Stacks, from, to int) (*Stack, *Stack) {
	if from == to {
		panic(fmt.Sprintf("crane: source and destination are both stack %d", from+1))
	}
	if from < to {
		left, right := s[:to], s[to:]
		return &left[from], &right[0]
	}
	left, right := s[:from], s[from:]
	return &right[0], &left[to]
}
