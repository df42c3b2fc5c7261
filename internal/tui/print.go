package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/CaptShanks/cratestack/internal/crane"
	"github.com/CaptShanks/cratestack/internal/history"
)

// Run is everything the print mode shows about one solved (or failed) puzzle
type Run struct {
	Source  string
	Initial crane.Stacks
	Final   crane.Stacks // arrangement after the last applied move
	Moves   []crane.Move
	Applied int // moves applied before Err, len(Moves) on success
	Tops    string
	Err     error
	Diff    bool // show a line diff instead of the final diagram
}

// PrintRun writes the colored report of r to w (non-interactive mode)
func PrintRun(w io.Writer, r Run) {
	source := r.Source
	if source == "" || source == "-" {
		source = "stdin"
	}
	fmt.Fprintln(w, st.header.Render("cratestack - "+source))
	fmt.Fprintln(w, st.summary.Render(fmt.Sprintf("%d of %d moves applied, %d crates on %d stacks",
		r.Applied, len(r.Moves), r.Initial.Total(), len(r.Initial))))
	fmt.Fprintln(w)

	fmt.Fprintln(w, st.muted.Render("initial"))
	for _, line := range renderDiagram(r.Initial, -1, -1) {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)

	if r.Diff {
		fmt.Fprintln(w, st.muted.Render("changes"))
		for _, line := range renderDiff(DiagramDiff(r.Initial, r.Final)) {
			fmt.Fprintln(w, line)
		}
	} else {
		fmt.Fprintln(w, st.muted.Render("final"))
		from, to := -1, -1
		if r.Applied > 0 {
			last := r.Moves[r.Applied-1]
			from, to = last.From, last.To
		}
		for _, line := range renderDiagram(r.Final, from, to) {
			fmt.Fprintln(w, line)
		}
	}
	fmt.Fprintln(w)

	if r.Err != nil {
		fmt.Fprintln(w, st.err.Render("Error: "+r.Err.Error()))
		return
	}
	fmt.Fprintln(w, "Tops: "+st.tops.Render(r.Tops))
}

// renderDiagram is parser.DiagramLines with color. Stacks from and to get
// their labels highlighted; pass -1 for neither.
func renderDiagram(stacks crane.Stacks, from, to int) []string {
	height := stacks.Tallest()
	lines := make([]string, 0, height+1)

	for layer := height - 1; layer >= 0; layer-- {
		last := -1
		for i, s := range stacks {
			if layer < s.Len() {
				last = i
			}
		}
		var b strings.Builder
		for i := 0; i <= last; i++ {
			if i > 0 {
				b.WriteByte(' ')
			}
			s := stacks[i]
			if layer >= s.Len() {
				b.WriteString("   ")
				continue
			}
			crate := st.crate
			if layer == s.Len()-1 {
				crate = st.top
			}
			b.WriteString(st.bracket.Render("[") + crate.Render(string(s[layer])) + st.bracket.Render("]"))
		}
		lines = append(lines, b.String())
	}

	labels := make([]string, len(stacks))
	for i := range stacks {
		style := st.label
		switch i {
		case from:
			style = st.source
		case to:
			style = st.dest
		}
		labels[i] = style.Render(fmt.Sprintf("%2d", i+1))
	}
	return append(lines, strings.Join(labels, "  "))
}

func renderDiff(diff []DiffLine) []string {
	out := make([]string, 0, len(diff))
	for _, d := range diff {
		switch d.Op {
		case DiffInsert:
			out = append(out, st.diffInsert.Render("+ "+d.Text))
		case DiffDelete:
			out = append(out, st.diffDelete.Render("- "+d.Text))
		case DiffSeparator:
			out = append(out, st.muted.Render(d.Text))
		default:
			out = append(out, "  "+d.Text)
		}
	}
	return out
}

// FormatHistoryEntryColored numbers history.FormatEntry and colors its status
func FormatHistoryEntryColored(index int, e history.Entry) string {
	line := strings.TrimRight(history.FormatEntry(e), " ")
	status := strings.ToUpper(e.Status)
	if style, ok := st.status[e.Status]; ok && strings.HasSuffix(line, status) {
		line = strings.TrimSuffix(line, status) + style.Render(status)
	}
	return fmt.Sprintf("%3d  %s", index, line)
}
