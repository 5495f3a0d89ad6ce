// Package ui implements the BookDesk terminal pages: the bookstore
// dashboard with its action modals, the class reports listing, and the
// timed exam view.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Semantic colors, identical in both modes.
var (
	colorSuccess = lipgloss.Color("#43A047")
	colorError   = lipgloss.Color("#E53935")
	colorWarning = lipgloss.Color("#FFB300")
	colorInfo    = lipgloss.Color("#1E88E5")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#f6f5f1"),
		Foreground: lipgloss.Color("#1c2733"),
		Primary:    lipgloss.Color("#2d4a6b"),
		Accent:     lipgloss.Color("#b06c3b"),
		Muted:      lipgloss.Color("#8a9199"),
		Border:     lipgloss.Color("#d8d4c8"),
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: lipgloss.Color("#14181d"),
		Foreground: lipgloss.Color("#e8e6df"),
		Primary:    lipgloss.Color("#7fa8d4"),
		Accent:     lipgloss.Color("#d49a6a"),
		Muted:      lipgloss.Color("#5c6670"),
		Border:     lipgloss.Color("#2c343d"),
		IsDark:     true,
	}
}

// DetectTheme picks a theme from an explicit preference ("light"/"dark") or
// the terminal's COLORFGBG hint, defaulting to light.
func DetectTheme(preference string) Theme {
	switch preference {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}

	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}
	return LightTheme()
}

// Styles holds the styled components shared by all pages.
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Selected lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	ModalBox     lipgloss.Style
	FieldLabel   lipgloss.Style
	InputInvalid lipgloss.Style
	Spinner      lipgloss.Style
	TimerClock   lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colorInfo),

		ModalBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Accent).
			Padding(1, 2),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(14),

		InputInvalid: lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		TimerClock: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.Border),
	}
}

// DefaultStyles returns styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme(""))
}
