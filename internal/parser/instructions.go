package parser

import (
	"strconv"
	"strings"

	"github.com/CaptShanks/cratestack/internal/crane"
)

// instruction keywords at token positions 0, 2 and 4
var keywords = [3]string{"move", "from", "to"}

// ParseInstructions parses one "move <count> from <source> to <destination>"
// instruction per non-empty line. Source and destination are 1-based stack
// labels and must differ.
func ParseInstructions(block string) ([]crane.Move, error) {
	return parseInstructions(splitLines(block), 1)
}

func parseInstructions(lines []string, first int) ([]crane.Move, error) {
	var moves []crane.Move
	for i, line := range lines {
		if isBlank(line) {
			continue
		}
		m, err := parseMove(line, first+i)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func parseMove(line string, lineNo int) (crane.Move, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return crane.Move{}, instructionError(lineNo, line, "expected \"move <count> from <source> to <destination>\"")
	}

	var nums [3]int
	for i := range nums {
		if kw := fields[2*i]; kw != keywords[i] {
			return crane.Move{}, instructionError(lineNo, line, "expected %q, found %q", keywords[i], kw)
		}
		val := fields[2*i+1]
		n, err := strconv.Atoi(val)
		if err != nil {
			return crane.Move{}, instructionError(lineNo, line, "couldn't parse %q as an integer", val)
		}
		nums[i] = n
	}

	count, from, to := nums[0], nums[1], nums[2]
	if count < 0 {
		return crane.Move{}, instructionError(lineNo, line, "crate count %d is negative", count)
	}
	for _, label := range []int{from, to} {
		if label < 1 {
			return crane.Move{}, instructionError(lineNo, line, "stack label %d must be 1 or greater", label)
		}
	}
	if from == to {
		return crane.Move{}, instructionError(lineNo, line, "source and destination stacks must differ (both %d)", from)
	}

	return crane.Move{Count: count, From: from - 1, To: to - 1, Line: lineNo}, nil
}
