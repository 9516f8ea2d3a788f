package main

import "github.com/charmbracelet/lipgloss"

var (
	subtle     = theme.TextMuted
	highlight  = theme.Accent
	textStrong = theme.TextStrong
	danger     = theme.Danger
	surface    = theme.Surface

	statusBarStyle = lipgloss.NewStyle().
			Background(surface).
			Foreground(theme.Text)

	statusPathStyle = lipgloss.NewStyle().
			Background(surface).
			Foreground(textStrong).
			Bold(true).
			Padding(0, 1)

	statusPosStyle = lipgloss.NewStyle().
			Background(surface).
			Foreground(subtle).
			Padding(0, 1)

	statusErrStyle = lipgloss.NewStyle().
			Background(surface).
			Foreground(danger).
			Bold(true).
			Padding(0, 1)

	copyNoteStyle = lipgloss.NewStyle().
			Background(surface).
			Foreground(highlight).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(theme.TextDim)
)
