package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette holds the colors every style is derived from
type Palette struct {
	Crate   lipgloss.Color // crates below the top
	Top     lipgloss.Color // topmost crate of a stack
	Source  lipgloss.Color // stack crates were just taken from
	Dest    lipgloss.Color // stack crates were just placed on
	Error   lipgloss.Color
	Header  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Surface lipgloss.Color
}

// Soft, low-contrast palette inspired by Tokyo Night
var darkPalette = Palette{
	Crate:   lipgloss.Color("#e0af68"), // warm amber
	Top:     lipgloss.Color("#9ece6a"), // soft sage green
	Source:  lipgloss.Color("#f7768e"), // soft coral red
	Dest:    lipgloss.Color("#7dcfff"), // soft sky blue
	Error:   lipgloss.Color("#f7768e"),
	Header:  lipgloss.Color("#7aa2f7"), // soft periwinkle
	Text:    lipgloss.Color("#a9b1d6"),
	Muted:   lipgloss.Color("#565f89"),
	Surface: lipgloss.Color("#292e42"),
}

// Tokyo Night Day
var lightPalette = Palette{
	Crate:   lipgloss.Color("#8c6c3e"),
	Top:     lipgloss.Color("#587539"),
	Source:  lipgloss.Color("#c64343"),
	Dest:    lipgloss.Color("#166775"),
	Error:   lipgloss.Color("#c64343"),
	Header:  lipgloss.Color("#2e7de9"),
	Text:    lipgloss.Color("#3760bf"),
	Muted:   lipgloss.Color("#848cb5"),
	Surface: lipgloss.Color("#d0d5e3"),
}

// styles is rebuilt whenever the palette changes
type styles struct {
	app        lipgloss.Style
	header     lipgloss.Style
	summary    lipgloss.Style
	crate      lipgloss.Style
	top        lipgloss.Style
	label      lipgloss.Style
	source     lipgloss.Style
	dest       lipgloss.Style
	bracket    lipgloss.Style
	tops       lipgloss.Style
	err        lipgloss.Style
	muted      lipgloss.Style
	help       lipgloss.Style
	nudge      lipgloss.Style
	diffInsert lipgloss.Style
	diffDelete lipgloss.Style
	status     map[string]lipgloss.Style
}

var (
	palette = darkPalette
	st      = newStyles(darkPalette)
)

func newStyles(p Palette) styles {
	return styles{
		app:     lipgloss.NewStyle().Padding(1, 2),
		header:  lipgloss.NewStyle().Bold(true).Foreground(p.Header).MarginBottom(1),
		summary: lipgloss.NewStyle().Foreground(p.Text),
		crate:   lipgloss.NewStyle().Foreground(p.Crate),
		top:     lipgloss.NewStyle().Foreground(p.Top).Bold(true),
		label:   lipgloss.NewStyle().Foreground(p.Muted),
		source:  lipgloss.NewStyle().Foreground(p.Source).Bold(true),
		dest:    lipgloss.NewStyle().Foreground(p.Dest).Bold(true),
		bracket: lipgloss.NewStyle().Foreground(p.Muted),
		tops: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Top).
			Background(p.Surface).
			Padding(0, 1),
		err:        lipgloss.NewStyle().Foreground(p.Error).Bold(true),
		muted:      lipgloss.NewStyle().Foreground(p.Muted),
		help:       lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
		nudge:      lipgloss.NewStyle().Foreground(p.Dest).Italic(true),
		diffInsert: lipgloss.NewStyle().Foreground(p.Top),
		diffDelete: lipgloss.NewStyle().Foreground(p.Source),
		status: map[string]lipgloss.Style{
			"solved": lipgloss.NewStyle().Foreground(p.Top),
			"failed": lipgloss.NewStyle().Foreground(p.Error),
		},
	}
}

// SetLightPalette switches every style to the light palette
func SetLightPalette() {
	palette = lightPalette
	st = newStyles(palette)
}

// SetDarkPalette switches every style to the dark palette
func SetDarkPalette() {
	palette = darkPalette
	st = newStyles(palette)
}

// ApplyTheme selects a palette by name; "auto" asks the terminal for its background
func ApplyTheme(theme string) {
	switch theme {
	case "light":
		SetLightPalette()
	case "dark":
		SetDarkPalette()
	default:
		if termenv.HasDarkBackground() {
			SetDarkPalette()
		} else {
			SetLightPalette()
		}
	}
}

// EnableColor forces truecolor output even when stdout is not a terminal.
// NO_COLOR always wins.
func EnableColor(force bool) {
	switch {
	case termenv.EnvNoColor():
		lipgloss.SetColorProfile(termenv.Ascii)
	case force:
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
