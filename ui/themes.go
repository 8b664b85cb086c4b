package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sheikhrachel/lifeboard/utils"
)

// Theme defines the color scheme of the board and its chrome
type Theme struct {
	Name   string
	Live   lipgloss.Color
	Dead   lipgloss.Color
	Cursor lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Accent lipgloss.Color
	Error  lipgloss.Color
}

var (
	ThemeLight = Theme{
		Name:   utils.ThemeLight,
		Live:   lipgloss.Color("#1f2933"),
		Dead:   lipgloss.Color("#f5f7fa"),
		Cursor: lipgloss.Color("#f0b429"),
		Text:   lipgloss.Color("#102a43"),
		Muted:  lipgloss.Color("#829ab1"),
		Accent: lipgloss.Color("#2680c2"),
		Error:  lipgloss.Color("#d64545"),
	}

	ThemeDark = Theme{
		Name:   utils.ThemeDark,
		Live:   lipgloss.Color("#7bed9f"),
		Dead:   lipgloss.Color("#1e272e"),
		Cursor: lipgloss.Color("#ff9f43"),
		Text:   lipgloss.Color("#f1f2f6"),
		Muted:  lipgloss.Color("#747d8c"),
		Accent: lipgloss.Color("#70a1ff"),
		Error:  lipgloss.Color("#ff4757"),
	}
)

// GetTheme returns a theme by name, falling back to light
func GetTheme(name string) Theme {
	if name == utils.ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// styles are the rendered pieces of one theme
type styles struct {
	live, dead, cursor lipgloss.Style
	title, text, muted lipgloss.Style
	err                lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		live:   lipgloss.NewStyle().Foreground(t.Live).Background(t.Dead),
		dead:   lipgloss.NewStyle().Background(t.Dead),
		cursor: lipgloss.NewStyle().Foreground(t.Cursor).Background(t.Dead),
		title:  lipgloss.NewStyle().Bold(true).Foreground(t.Accent),
		text:   lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		err:    lipgloss.NewStyle().Foreground(t.Error),
	}
}
