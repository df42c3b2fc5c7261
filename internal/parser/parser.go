package parser

import (
	"fmt"
	"strings"

	"github.com/CaptShanks/cratestack/internal/crane"
)

// Puzzle is a parsed input: the starting stacks and the moves to replay on them
type Puzzle struct {
	Stacks crane.Stacks
	Moves  []crane.Move
}

// Parse splits input at its first blank line and parses the stack diagram
// above it and the instructions below it. Leading blank lines are ignored.
// Line numbers in errors count from the start of input.
func Parse(input string, maxStacks int) (*Puzzle, error) {
	lines := splitLines(input)

	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	sep := -1
	for i := start; i < len(lines); i++ {
		if isBlank(lines[i]) {
			sep = i
			break
		}
	}
	if start == len(lines) {
		return nil, fmt.Errorf("%w: input is empty", ErrStructure)
	}
	if sep < 0 {
		return nil, fmt.Errorf("%w: no blank line between the stack diagram and the instructions", ErrStructure)
	}

	stacks, err := parseDiagram(lines[start:sep], start+1, maxStacks)
	if err != nil {
		return nil, err
	}
	moves, err := parseInstructions(lines[sep+1:], sep+2)
	if err != nil {
		return nil, err
	}

	return &Puzzle{Stacks: stacks, Moves: moves}, nil
}

// Solve replays the puzzle's moves on its stacks and returns the top of each stack.
// The puzzle's stacks hold the final arrangement afterwards, even on failure.
func (p *Puzzle) Solve() (string, error) {
	if err := p.Stacks.ApplyAll(p.Moves); err != nil {
		return "", err
	}
	return p.Stacks.Tops()
}

// splitLines splits on LF or CRLF. A final newline ends the last line rather
// than starting an empty one.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
