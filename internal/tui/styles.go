package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/iplot/internal/viz"
)

type styles struct {
	title  lipgloss.Style
	plot   lipgloss.Style
	text   lipgloss.Style
	muted  lipgloss.Style
	accent lipgloss.Style
	err    lipgloss.Style
}

func newStyles(t viz.Theme) styles {
	return styles{
		title:  lipgloss.NewStyle().Foreground(t.Title).Bold(true),
		plot:   lipgloss.NewStyle().Foreground(t.Plot),
		text:   lipgloss.NewStyle().Foreground(t.Text),
		muted:  lipgloss.NewStyle().Foreground(t.Muted),
		accent: lipgloss.NewStyle().Foreground(t.Accent),
		err:    lipgloss.NewStyle().Foreground(t.Error),
	}
}

func helpStyles(t viz.Theme) help.Styles {
	s := help.New().Styles
	s.ShortKey = lipgloss.NewStyle().Foreground(t.Accent)
	s.FullKey = s.ShortKey
	s.ShortDesc = lipgloss.NewStyle().Foreground(t.Muted)
	s.FullDesc = s.ShortDesc
	return s
}
