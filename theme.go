package main

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const envTheme = "ZVIEWER_THEME"

type ThemeMode string

const (
	ThemeAuto  ThemeMode = "auto"
	ThemeDark  ThemeMode = "dark"
	ThemeLight ThemeMode = "light"
)

type Theme struct {
	Mode ThemeMode

	Text       lipgloss.TerminalColor
	TextMuted  lipgloss.TerminalColor
	TextStrong lipgloss.TerminalColor
	TextDim    lipgloss.TerminalColor

	Accent  lipgloss.TerminalColor
	Surface lipgloss.TerminalColor
	Danger  lipgloss.TerminalColor
}

var theme = loadTheme()

func loadTheme() Theme {
	mode := parseThemeMode(os.Getenv(envTheme))

	if mode == ThemeDark {
		lipgloss.SetHasDarkBackground(true)
	} else if mode == ThemeLight {
		lipgloss.SetHasDarkBackground(false)
	}

	return newTheme(mode)
}

func parseThemeMode(value string) ThemeMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	default:
		return ThemeAuto
	}
}

func newTheme(mode ThemeMode) Theme {
	return Theme{
		Mode:       mode,
		Text:       lipgloss.NoColor{},
		TextMuted:  pickColor(mode, "#6B7394", "#B6B8C9"),
		TextStrong: pickColor(mode, "#0B0D19", "#F8F8F2"),
		TextDim:    pickColor(mode, "#8890A8", "#7D8297"),
		Accent:     pickColor(mode, "#6C63FF", "#A78BFA"),
		Surface:    pickColor(mode, "#E6E9F6", "#44475A"),
		Danger:     lipgloss.Color("#FF5555"),
	}
}

func pickColor(mode ThemeMode, light, dark string) lipgloss.TerminalColor {
	switch mode {
	case ThemeDark:
		return lipgloss.Color(dark)
	case ThemeLight:
		return lipgloss.Color(light)
	default:
		return lipgloss.AdaptiveColor{Light: light, Dark: dark}
	}
}
