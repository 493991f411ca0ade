// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the complete chat view.
// Layout: header + messages viewport + input box + status line.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Загрузка..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("UniHub")
	subtitle := m.theme.HeaderSubtitle.Render("подбор университета")
	return m.theme.Header.Render(title + " " + subtitle)
}

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width - 2).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	var left string
	if m.state == StateWaiting {
		left = m.theme.StatusBusy.Render(m.spinner.View() + " ассистент печатает...")
	} else if m.statusMsg != "" {
		left = m.theme.Error.Render(m.statusMsg)
	} else {
		left = m.theme.StatusReady.Render("готов")
	}

	var right string
	if !m.followMode {
		right = m.theme.Muted.Render("прокрутка · End вниз")
	} else {
		right = m.theme.ShortcutKey.Render("Enter") + m.theme.ShortcutDesc.Render(" отправить  ") +
			m.theme.ShortcutKey.Render("C-c") + m.theme.ShortcutDesc.Render(" выход")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}
