package parser

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/CaptShanks/cratestack/internal/crane"
)

// ParseDiagram parses a stack diagram block into stacks. Both the bracketed
// crate diagram
//
//	    [D]
//	[N] [C]
//	[Z] [M] [P]
//	 1   2   3
//
// and the listing form ("1 Z N", one stack per line, bottom to top) are
// accepted. maxStacks <= 0 means crane.DefaultMaxStacks.
func ParseDiagram(block string, maxStacks int) (crane.Stacks, error) {
	return parseDiagram(splitLines(block), 1, maxStacks)
}

func parseDiagram(lines []string, first, maxStacks int) (crane.Stacks, error) {
	if maxStacks <= 0 {
		maxStacks = crane.DefaultMaxStacks
	}

	start := first
	// Trim blank lines at either end, keeping line numbers accurate
	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
		first++
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, diagramError(start, "", "diagram is empty")
	}

	if isListing(lines) {
		return parseListing(lines, first, maxStacks)
	}
	return parseCrates(lines, first, maxStacks)
}

// isListing reports whether lines use the "1 Z N" listing form. A crate
// diagram without any bracket can only be a lone label line.
func isListing(lines []string) bool {
	for _, line := range lines {
		if strings.ContainsRune(line, '[') {
			return false
		}
	}
	if len(lines) > 1 {
		return true
	}
	for _, field := range strings.Fields(lines[0]) {
		if _, err := strconv.Atoi(field); err != nil {
			return true
		}
	}
	return false
}

func parseCrates(lines []string, first, maxStacks int) (crane.Stacks, error) {
	labelLineNo := first + len(lines) - 1
	labelLine := lines[len(lines)-1]
	columns, err := labelColumns(labelLine, labelLineNo, maxStacks)
	if err != nil {
		return nil, err
	}

	layers := lines[:len(lines)-1]
	grid := make([][]rune, len(layers))
	for i, line := range layers {
		row, err := readLayer(line, first+i, columns)
		if err != nil {
			return nil, err
		}
		grid[i] = row
	}

	stacks := crane.New(len(columns))
	gap := make([]bool, len(columns))
	for i := len(grid) - 1; i >= 0; i-- {
		for s, c := range grid[i] {
			if c == 0 {
				gap[s] = true
				continue
			}
			if gap[s] {
				return nil, diagramError(first+i, layers[i], "crate %q in stack %d floats above an empty slot", c, s+1)
			}
			stacks[s].Push(c)
		}
	}
	return stacks, nil
}

// labelColumns returns, for each stack, the rune column its crates sit in.
// Labels must read 1, 2, ... N from left to right; a multi-digit label is
// aligned on its last digit.
func labelColumns(line string, lineNo, maxStacks int) ([]int, error) {
	var columns []int
	runes := []rune(line)
	for pos := 0; pos < len(runes); {
		if runes[pos] == ' ' {
			pos++
			continue
		}
		end := pos
		for end < len(runes) && runes[end] != ' ' {
			end++
		}
		token := string(runes[pos:end])
		want := len(columns) + 1
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, diagramError(lineNo, line, "stack label %q is not a number", token)
		}
		if n != want {
			return nil, diagramError(lineNo, line, "expected stack label %d, found %d", want, n)
		}
		col := end - 1
		if col < 1 {
			return nil, diagramError(lineNo, line, "stack label %d leaves no room for a crate bracket", n)
		}
		if len(columns) > 0 && col-columns[len(columns)-1] < 3 {
			return nil, diagramError(lineNo, line, "stack labels %d and %d are too close together", n-1, n)
		}
		columns = append(columns, col)
		pos = end
	}

	if len(columns) == 0 {
		return nil, diagramError(lineNo, line, "no stack labels found")
	}
	if len(columns) > maxStacks {
		return nil, diagramError(lineNo, line, "%d stacks declared, at most %d supported", len(columns), maxStacks)
	}
	return columns, nil
}

// readLayer returns the crate in each stack column of one diagram layer, 0 for none
func readLayer(line string, lineNo int, columns []int) ([]rune, error) {
	runes := []rune(line)
	at := func(p int) rune {
		if p < len(runes) {
			return runes[p]
		}
		return ' '
	}

	row := make([]rune, len(columns))
	claimed := make([]bool, len(runes)+1)
	for s, c := range columns {
		for p := c - 1; p <= c+1 && p < len(runes); p++ {
			claimed[p] = true
		}

		crate := at(c)
		if crate == ' ' {
			if at(c-1) != ' ' || at(c+1) != ' ' {
				return nil, diagramError(lineNo, line, "stack %d column is misaligned", s+1)
			}
			continue
		}
		if at(c-1) != '[' || at(c+1) != ']' {
			return nil, diagramError(lineNo, line, "expected a bracketed crate like [A] above label %d", s+1)
		}
		if !validCrate(crate) {
			return nil, diagramError(lineNo, line, "crate %q in stack %d is not a printable character", crate, s+1)
		}
		row[s] = crate
	}

	for p, r := range runes {
		if !claimed[p] && r != ' ' {
			return nil, diagramError(lineNo, line, "unexpected %q at column %d, outside every stack column", r, p+1)
		}
	}
	return row, nil
}

func parseListing(lines []string, first, maxStacks int) (crane.Stacks, error) {
	if len(lines) > maxStacks {
		return nil, diagramError(first+maxStacks, lines[maxStacks], "%d stacks declared, at most %d supported", len(lines), maxStacks)
	}

	stacks := crane.New(len(lines))
	for i, line := range lines {
		lineNo := first + i
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return nil, diagramError(lineNo, line, "missing stack label")
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, diagramError(lineNo, line, "stack label %q is not a number", fields[0])
		}
		if n != i+1 {
			return nil, diagramError(lineNo, line, "expected stack label %d, found %d", i+1, n)
		}
		for _, field := range fields[1:] {
			crate, size := utf8.DecodeRuneInString(field)
			if size != len(field) {
				return nil, diagramError(lineNo, line, "crate %q is not a single character", field)
			}
			if !validCrate(crate) {
				return nil, diagramError(lineNo, line, "crate %q is not a printable character", field)
			}
			stacks[i].Push(crate)
		}
	}
	return stacks, nil
}

func validCrate(r rune) bool {
	return r != utf8.RuneError && r != '[' && r != ']' && unicode.IsPrint(r) && !unicode.IsSpace(r)
}
