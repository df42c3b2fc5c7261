package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CaptShanks/cratestack/internal/history"
)

var (
	pickerSearch = key.NewBinding(key.WithKeys("/"))
	pickerQuit   = key.NewBinding(key.WithKeys("q", "ctrl+c"))
	pickerEsc    = key.NewBinding(key.WithKeys("esc"))
	pickerSelect = key.NewBinding(key.WithKeys("enter", " "))
	pickerDown   = key.NewBinding(key.WithKeys("j", "down"))
	pickerUp     = key.NewBinding(key.WithKeys("k", "up"))
	pickerTop    = key.NewBinding(key.WithKeys("g", "home"))
	pickerBottom = key.NewBinding(key.WithKeys("G", "end"))
)

// PickerModel is a TUI for selecting a history entry
type PickerModel struct {
	all      []history.Entry
	filtered []history.Entry
	cursor   int
	selected string // path of the chosen entry, empty if cancelled
	quitting bool

	searching bool
	query     string
}

// NewPickerModel creates a new history picker
func NewPickerModel(entries []history.Entry) PickerModel {
	return PickerModel{all: entries, filtered: entries}
}

// SelectedPath returns the path of the selected entry (empty if cancelled)
func (m PickerModel) SelectedPath() string {
	return m.selected
}

func (m PickerModel) Init() tea.Cmd {
	return nil
}

// filter keeps the entries matching every space-separated term of the query
func (m *PickerModel) filter() {
	terms := strings.Fields(strings.ToLower(m.query))
	if len(terms) == 0 {
		m.filtered = m.all
	} else {
		m.filtered = nil
		for _, e := range m.all {
			haystack := strings.ToLower(strings.Join([]string{
				e.Source,
				e.Status,
				e.Timestamp.Format("2006-01-02 15:04"),
				e.Filename,
			}, " "))
			match := true
			for _, t := range terms {
				if !strings.Contains(haystack, t) {
					match = false
					break
				}
			}
			if match {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	m.cursor = max(0, min(m.cursor, len(m.filtered)-1))
}

func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.searching {
		return m.updateSearch(keyMsg), nil
	}

	switch {
	case key.Matches(keyMsg, pickerSearch):
		m.searching = true
	case key.Matches(keyMsg, pickerQuit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerEsc):
		if m.query != "" {
			m.query = ""
			m.filter()
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerSelect):
		if len(m.filtered) > 0 {
			m.selected = m.filtered[m.cursor].Path
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, pickerDown):
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, pickerUp):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, pickerTop):
		m.cursor = 0
	case key.Matches(keyMsg, pickerBottom):
		m.cursor = max(0, len(m.filtered)-1)
	}
	return m, nil
}

func (m PickerModel) updateSearch(msg tea.KeyMsg) PickerModel {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.query = ""
	case tea.KeyEnter:
		m.searching = false
		return m
	case tea.KeyBackspace:
		if m.query == "" {
			return m
		}
		r := []rune(m.query)
		m.query = string(r[:len(r)-1])
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	case tea.KeySpace:
		m.query += " "
	default:
		return m
	}
	m.filter()
	return m
}

func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(st.header.Render("Select a run to view"))
	b.WriteString("\n")
	b.WriteString(st.muted.Render("       #  TIMESTAMP            SOURCE                STATUS"))
	b.WriteString("\n")

	if len(m.filtered) == 0 {
		if m.query != "" {
			b.WriteString(st.muted.Render(fmt.Sprintf("  No results for '%s'", m.query)))
		} else {
			b.WriteString(st.muted.Render("  No history entries"))
		}
		b.WriteString("\n")
	}
	for i, e := range m.filtered {
		cursor := "  "
		if i == m.cursor {
			cursor = st.top.Render("> ")
		}
		b.WriteString(cursor + FormatHistoryEntryColored(i+1, e))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.searching:
		b.WriteString(st.nudge.Render("/ ") + m.query + "█")
	case m.query != "":
		b.WriteString(st.nudge.Render("Filter: "+m.query) +
			st.muted.Render(fmt.Sprintf("  (%d/%d)", len(m.filtered), len(m.all))))
		b.WriteString("\n")
		b.WriteString(st.muted.Render("j/k: navigate  enter: select  esc: clear filter  q: cancel"))
	default:
		b.WriteString(st.muted.Render("j/k: navigate  /: search  enter: select  q: cancel"))
	}
	return b.String()
}

// RunPicker runs the interactive history picker and returns the selected path
func RunPicker(entries []history.Entry) (string, error) {
	p := tea.NewProgram(NewPickerModel(entries))
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(PickerModel).SelectedPath(), nil
}
