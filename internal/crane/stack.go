package crane

import (
	"fmt"
	"strings"
)

// DefaultMaxStacks is the number of stacks a diagram may declare unless configured otherwise.
const DefaultMaxStacks = 9

// Stack holds crates from bottom to top; the last element is the top.
type Stack []rune

// Len returns the number of crates on the stack
func (s Stack) Len() int {
	return len(s)
}

// Top returns the topmost crate, or false when the stack is empty
func (s Stack) Top() (rune, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1], true
}

// Push places a crate on top of the stack
func (s *Stack) Push(c rune) {
	*s = append(*s, c)
}

// Pop removes and returns the topmost crate
func (s *Stack) Pop() (rune, bool) {
	c, ok := s.Top()
	if !ok {
		return 0, false
	}
	*s = (*s)[:len(*s)-1]
	return c, true
}

// String renders the stack bottom to top, e.g. "ZN"
func (s Stack) String() string {
	return string(s)
}

// Stacks is a fixed-size collection of stacks. Index i holds the stack labeled i+1.
type Stacks []Stack

// New returns n empty stacks
func New(n int) Stacks {
	return make(Stacks, n)
}

// Clone returns a deep copy that shares no backing arrays with s
func (s Stacks) Clone() Stacks {
	out := make(Stacks, len(s))
	for i, st := range s {
		if st != nil {
			out[i] = append(Stack(nil), st...)
		}
	}
	return out
}

// Total returns the number of crates across all stacks
func (s Stacks) Total() int {
	total := 0
	for _, st := range s {
		total += len(st)
	}
	return total
}

// Tallest returns the height of the tallest stack
func (s Stacks) Tallest() int {
	tallest := 0
	for _, st := range s {
		if len(st) > tallest {
			tallest = len(st)
		}
	}
	return tallest
}

// Tops concatenates the top crate of every stack in label order.
// An empty stack makes the summary undefined and yields an *EmptyStackError.
func (s Stacks) Tops() (string, error) {
	var b strings.Builder
	for i, st := range s {
		c, ok := st.Top()
		if !ok {
			return "", &EmptyStackError{Label: i + 1}
		}
		b.WriteRune(c)
	}
	return b.String(), nil
}

// String renders each stack on its own line as "<label>: <crates>"
func (s Stacks) String() string {
	lines := make([]string, len(s))
	for i, st := range s {
		lines[i] = fmt.Sprintf("%d: %s", i+1, st)
	}
	return strings.Join(lines, "\n")
}
