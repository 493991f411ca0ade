// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the unihub TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Application container
	App lipgloss.Style

	// Header
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Message bubbles
	UserLabel       lipgloss.Style
	AssistantLabel  lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	Timestamp       lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	StatusBusy   lipgloss.Style
	StatusReady  lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// Feedback
	Spinner lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
}

// Palette groups the raw colors a theme is built from.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	text      lipgloss.Color
	muted     lipgloss.Color
	errorCol  lipgloss.Color
	surface   lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("#7AA2F7"),
	secondary: lipgloss.Color("#9ECE6A"),
	text:      lipgloss.Color("#C0CAF5"),
	muted:     lipgloss.Color("#565F89"),
	errorCol:  lipgloss.Color("#F7768E"),
	surface:   lipgloss.Color("#1A1B26"),
}

var lightPalette = palette{
	primary:   lipgloss.Color("#2E59A8"),
	secondary: lipgloss.Color("#33635C"),
	text:      lipgloss.Color("#343B58"),
	muted:     lipgloss.Color("#8990B3"),
	errorCol:  lipgloss.Color("#8C4351"),
	surface:   lipgloss.Color("#E6E7ED"),
}

// NewTheme builds the theme for the given name ("dark" or "light").
// Unknown names fall back to dark.
func NewTheme(name string) *Theme {
	p := darkPalette
	isDark := true
	if name == "light" {
		p = lightPalette
		isDark = false
	}

	return &Theme{
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),

		App: lipgloss.NewStyle(),

		Header: lipgloss.NewStyle().
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		HeaderSubtitle: lipgloss.NewStyle().
			Foreground(p.muted),

		UserLabel: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),
		AssistantLabel: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),
		UserBubble: lipgloss.NewStyle().
			Foreground(p.text).
			PaddingLeft(2),
		AssistantBubble: lipgloss.NewStyle().
			Foreground(p.text).
			PaddingLeft(2),
		Timestamp: lipgloss.NewStyle().
			Foreground(p.muted),

		InputContainer: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),
		InputPrompt: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.muted).
			Padding(0, 1),
		StatusBusy: lipgloss.NewStyle().
			Foreground(p.errorCol).
			Bold(true),
		StatusReady: lipgloss.NewStyle().
			Foreground(p.secondary),
		ShortcutKey: lipgloss.NewStyle().
			Foreground(p.primary),
		ShortcutDesc: lipgloss.NewStyle().
			Foreground(p.muted),

		Spinner: lipgloss.NewStyle().
			Foreground(p.primary),
		Error: lipgloss.NewStyle().
			Foreground(p.errorCol),
		Muted: lipgloss.NewStyle().
			Foreground(p.muted),
	}
}
