package parser

import (
	"fmt"
	"strings"

	"github.com/CaptShanks/cratestack/internal/crane"
)

// FormatDiagram renders stacks as a bracketed crate diagram with a trailing
// label line. Trailing spaces are trimmed from every line.
func FormatDiagram(stacks crane.Stacks) string {
	lines := DiagramLines(stacks)
	return strings.Join(lines, "\n")
}

// DiagramLines is FormatDiagram split into lines, top layer first
func DiagramLines(stacks crane.Stacks) []string {
	height := stacks.Tallest()
	lines := make([]string, 0, height+1)
	cells := make([]string, len(stacks))

	for layer := height - 1; layer >= 0; layer-- {
		for i, st := range stacks {
			if layer < st.Len() {
				cells[i] = "[" + string(st[layer]) + "]"
			} else {
				cells[i] = "   "
			}
		}
		lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	}

	for i := range stacks {
		cells[i] = fmt.Sprintf("%2d ", i+1)
	}
	lines = append(lines, strings.TrimRight(strings.Join(cells, " "), " "))
	return lines
}

// FormatListing renders one "<label> <crate> <crate> ..." line per stack, bottom to top
func FormatListing(stacks crane.Stacks) string {
	lines := make([]string, len(stacks))
	for i, st := range stacks {
		fields := make([]string, 0, st.Len()+1)
		fields = append(fields, fmt.Sprintf("%d", i+1))
		for _, c := range st {
			fields = append(fields, string(c))
		}
		lines[i] = strings.Join(fields, " ")
	}
	return strings.Join(lines, "\n")
}

// FormatInstructions renders moves back into instruction lines
func FormatInstructions(moves []crane.Move) string {
	lines := make([]string, len(moves))
	for i, m := range moves {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}
