package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/wordwrap"

	"github.com/CaptShanks/cratestack/internal/crane"
	"github.com/CaptShanks/cratestack/internal/updater"
)

const (
	headerHeight = 4 // title + step line + blank line
	footerHeight = 3 // help text
)

type keyMap struct {
	Next  key.Binding
	Prev  key.Binding
	First key.Binding
	Last  key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.First, k.Last},
		{k.Help, k.Quit},
	}
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("n", "l", "right", " "),
		key.WithHelp("n/→", "next move"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p", "h", "left"),
		key.WithHelp("p/←", "previous move"),
	),
	First: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "initial arrangement"),
	),
	Last: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "last move"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model steps through a replayed run one move at a time
type Model struct {
	run      Run
	steps    []crane.Step
	cursor   int // 0 is the initial arrangement, i the state after steps[i-1]
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	width    int
	height   int

	// Update nudge
	checker         *updater.Checker
	currentVersion  string
	updateAvailable string
}

// UpdateAvailableMsg is sent when an update check finds a newer version.
type UpdateAvailableMsg struct {
	Version string
}

// NewModel creates a stepper over steps, as returned by crane.Stacks.Replay.
// r.Err, when set, is shown once the cursor reaches the failing move.
func NewModel(r Run, steps []crane.Step) Model {
	return Model{
		run:   r,
		steps: steps,
		help:  help.New(),
		keys:  keys,
	}
}

// WithUpdateCheck makes Init look for a release newer than version
func (m Model) WithUpdateCheck(c *updater.Checker, version string) Model {
	m.checker = c
	m.currentVersion = version
	return m
}

// Init starts the update check, if one was requested
func (m Model) Init() tea.Cmd {
	if m.checker == nil || m.currentVersion == "" || m.currentVersion == "dev" {
		return nil
	}
	return checkUpdateCmd(m.checker, m.currentVersion)
}

// checkUpdateCmd runs an async update check and sends UpdateAvailableMsg if an update is available.
func checkUpdateCmd(c *updater.Checker, version string) tea.Cmd {
	return func() tea.Msg {
		latest, hasUpdate, err := c.CheckLatestWithCache(version)
		if err != nil || !hasUpdate {
			return nil
		}
		return UpdateAvailableMsg{Version: latest}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case UpdateAvailableMsg:
		m.updateAvailable = msg.Version
		m.resize()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.ready {
			m.viewport = viewport.New(0, 0)
			m.viewport.YPosition = headerHeight
			m.ready = true
		}
		m.resize()
		m.updateViewportContent()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.goTo(m.cursor + 1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.goTo(m.cursor - 1)
			return m, nil
		case key.Matches(msg, m.keys.First):
			m.goTo(0)
			return m, nil
		case key.Matches(msg, m.keys.Last):
			m.goTo(len(m.steps))
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.resize()
			return m, nil
		}
	}

	// j/k, pgup/pgdown and the mouse scroll tall diagrams
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) goTo(cursor int) {
	cursor = max(0, min(cursor, len(m.steps)))
	if cursor == m.cursor {
		return
	}
	m.cursor = cursor
	m.updateViewportContent()
}

func (m *Model) resize() {
	if !m.ready {
		return
	}
	footer := footerHeight
	if m.help.ShowAll {
		footer += 2
	}
	if m.updateAvailable != "" {
		footer++ // update nudge line
	}
	m.viewport.Width = max(0, m.width-4)
	m.viewport.Height = max(1, m.height-headerHeight-footer)
}

// current returns the arrangement on screen
func (m Model) current() crane.Stacks {
	if m.cursor == 0 {
		return m.run.Initial
	}
	return m.steps[m.cursor-1].After
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	stacks := m.current()
	from, to := -1, -1
	if m.cursor > 0 {
		mv := m.steps[m.cursor-1].Move
		from, to = mv.From, mv.To
	}

	var b strings.Builder
	for _, line := range renderDiagram(stacks, from, to) {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if tops, err := stacks.Tops(); err != nil {
		b.WriteString(st.muted.Render("Tops: " + err.Error()))
	} else {
		b.WriteString("Tops: " + st.tops.Render(tops))
	}
	b.WriteString("\n")

	if m.failed() {
		width := m.viewport.Width
		if width <= 0 {
			width = 80
		}
		b.WriteString("\n")
		b.WriteString(st.err.Render(wordwrap.String("Error: "+m.run.Err.Error(), width)))
		b.WriteString("\n")
	}
	return b.String()
}

// failed reports whether the failing move is the next one on screen
func (m Model) failed() bool {
	return m.run.Err != nil && m.cursor == len(m.steps)
}

func (m Model) viewHeader() string {
	var b strings.Builder
	source := m.run.Source
	if source == "" || source == "-" {
		source = "stdin"
	}
	b.WriteString(st.header.Render("cratestack - " + source))
	b.WriteString("\n")

	var line string
	switch {
	case m.cursor == 0:
		line = fmt.Sprintf("  initial arrangement, %d moves", len(m.run.Moves))
	default:
		line = fmt.Sprintf("  move %d/%d: %s", m.cursor, len(m.run.Moves), m.steps[m.cursor-1].Move)
	}
	if m.failed() && m.cursor < len(m.run.Moves) {
		line += st.err.Render(fmt.Sprintf("  (next: %s fails)", m.run.Moves[m.cursor]))
	}
	b.WriteString(st.summary.Render(line))
	b.WriteString("\n\n")
	return b.String()
}

// viewUpdateNudge renders the update available nudge.
func (m Model) viewUpdateNudge() string {
	if m.updateAvailable == "" {
		return ""
	}
	return "\n" + st.nudge.Render(fmt.Sprintf("Update available: v%s. Run 'cratestack upgrade' to update.", m.updateAvailable))
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(st.help.Render(m.help.View(m.keys)))
	b.WriteString(m.viewUpdateNudge())
	return st.app.Render(b.String())
}

// RunStepper runs the interactive stepper until the user quits
func RunStepper(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
