package tui

import (
	"github.com/CaptShanks/cratestack/internal/crane"
	"github.com/CaptShanks/cratestack/internal/parser"
)

// DiffOp represents the type of a diff operation
type DiffOp int

const (
	DiffEqual     DiffOp = iota
	DiffInsert           // line exists only in the new diagram
	DiffDelete           // line exists only in the old diagram
	DiffSeparator        // collapsed run of equal lines
)

// DiffLine pairs an operation with its text content
type DiffLine struct {
	Op   DiffOp
	Text string
}

// maxLCSLines bounds the table size; diagrams taller than this are diffed on
// their changed core only
const maxLCSLines = 800

// DiagramDiff diffs the rendered diagrams of two arrangements line by line
func DiagramDiff(before, after crane.Stacks) []DiffLine {
	return ComputeDiff(parser.DiagramLines(before), parser.DiagramLines(after))
}

// ComputeDiff computes a line-level diff between old and new using LCS.
// The common prefix and suffix are never put in the table.
func ComputeDiff(oldLines, newLines []string) []DiffLine {
	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	result := make([]DiffLine, 0, len(oldLines)+len(newLines))
	for _, l := range oldLines[:prefix] {
		result = append(result, DiffLine{Op: DiffEqual, Text: l})
	}

	oldCore := oldLines[prefix : len(oldLines)-suffix]
	newCore := newLines[prefix : len(newLines)-suffix]
	if len(oldCore)+len(newCore) <= maxLCSLines {
		result = append(result, lcs(oldCore, newCore)...)
	} else {
		for _, l := range oldCore {
			result = append(result, DiffLine{Op: DiffDelete, Text: l})
		}
		for _, l := range newCore {
			result = append(result, DiffLine{Op: DiffInsert, Text: l})
		}
	}

	for _, l := range oldLines[len(oldLines)-suffix:] {
		result = append(result, DiffLine{Op: DiffEqual, Text: l})
	}
	return result
}

func lcs(a, b []string) []DiffLine {
	m, n := len(a), len(b)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	var out []DiffLine
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			out = append(out, DiffLine{Op: DiffEqual, Text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			out = append(out, DiffLine{Op: DiffDelete, Text: a[i]})
			i++
		default:
			out = append(out, DiffLine{Op: DiffInsert, Text: b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		out = append(out, DiffLine{Op: DiffDelete, Text: a[i]})
	}
	for ; j < n; j++ {
		out = append(out, DiffLine{Op: DiffInsert, Text: b[j]})
	}
	return out
}

// ContextDiff keeps contextSize equal lines around each change and replaces
// every collapsed run with one DiffSeparator. An all-equal diff yields nil.
func ContextDiff(diff []DiffLine, contextSize int) []DiffLine {
	if contextSize < 0 {
		contextSize = 3
	}

	keep := make([]bool, len(diff))
	changed := false
	for i, d := range diff {
		if d.Op == DiffEqual {
			continue
		}
		changed = true
		for k := max(0, i-contextSize); k <= min(len(diff)-1, i+contextSize); k++ {
			keep[k] = true
		}
	}
	if !changed {
		return nil
	}

	var result []DiffLine
	gap := false
	for i, d := range diff {
		if !keep[i] {
			gap = true
			continue
		}
		if gap {
			result = append(result, DiffLine{Op: DiffSeparator, Text: "@@"})
			gap = false
		}
		result = append(result, d)
	}
	return result
}
