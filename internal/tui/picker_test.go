package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CaptShanks/cratestack/internal/history"
)

func pickerEntries() []history.Entry {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)
	return []history.Entry{
		{Path: "/h/c.yaml", Source: "day5", Status: history.StatusSolved, Timestamp: base.Add(2 * time.Minute)},
		{Path: "/h/b.yaml", Source: "broken", Status: history.StatusFailed, Timestamp: base.Add(time.Minute)},
		{Path: "/h/a.yaml", Source: "stdin", Status: history.StatusSolved, Timestamp: base},
	}
}

func pickerKey(t *testing.T, m PickerModel, msg tea.KeyMsg) (PickerModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(PickerModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPickerSelect(t *testing.T) {
	m := NewPickerModel(pickerEntries())
	m, _ = pickerKey(t, m, runes("j"))
	m, _ = pickerKey(t, m, runes("j"))
	m, _ = pickerKey(t, m, runes("j"))
	m, cmd := pickerKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Fatal("Expected quit after selecting")
	}
	if got := m.SelectedPath(); got != "/h/a.yaml" {
		t.Errorf("Expected /h/a.yaml, got %q", got)
	}
}

func TestPickerCancel(t *testing.T) {
	m, cmd := pickerKey(t, NewPickerModel(pickerEntries()), runes("q"))
	if cmd == nil {
		t.Fatal("Expected quit")
	}
	if m.SelectedPath() != "" {
		t.Errorf("Expected no selection, got %q", m.SelectedPath())
	}
}

func TestPickerSearch(t *testing.T) {
	m := NewPickerModel(pickerEntries())
	m, _ = pickerKey(t, m, runes("/"))
	m, _ = pickerKey(t, m, runes("fail"))
	if len(m.filtered) != 1 || m.filtered[0].Source != "broken" {
		t.Fatalf("Expected only the failed run, got %+v", m.filtered)
	}
	if !strings.Contains(m.View(), "/ fail") {
		t.Errorf("Expected search bar, got:\n%s", m.View())
	}

	m, _ = pickerKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.searching {
		t.Error("Expected search mode to end on enter")
	}
	if !strings.Contains(m.View(), "Filter: fail") {
		t.Errorf("Expected active filter, got:\n%s", m.View())
	}

	m, _ = pickerKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.filtered) != 3 {
		t.Errorf("Expected esc to clear the filter, got %d entries", len(m.filtered))
	}
}

func TestPickerNoResults(t *testing.T) {
	m := NewPickerModel(pickerEntries())
	m, _ = pickerKey(t, m, runes("/"))
	m, _ = pickerKey(t, m, runes("zzz"))
	if !strings.Contains(m.View(), "No results for 'zzz'") {
		t.Errorf("Expected no results message, got:\n%s", m.View())
	}
	m, _ = pickerKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := pickerKey(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.SelectedPath() != "" {
		t.Errorf("Expected quit without selection, got %q", m.SelectedPath())
	}
}
