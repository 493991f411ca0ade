// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unihub/unihub-tui/internal/model"
	"github.com/unihub/unihub-tui/internal/ui/styles"
)

// MessageRenderer turns ledger entries into viewport text.
type MessageRenderer struct {
	theme    *styles.Theme
	markdown *MarkdownRenderer
	useMD    bool
}

// NewMessageRenderer creates a renderer. When useMarkdown is false assistant
// replies are shown as plain wrapped text.
func NewMessageRenderer(theme *styles.Theme, useMarkdown bool) *MessageRenderer {
	return &MessageRenderer{
		theme:    theme,
		markdown: NewMarkdownRenderer(),
		useMD:    useMarkdown,
	}
}

// Render formats one message block: a role label with timestamp, then the
// content indented underneath.
func (r *MessageRenderer) Render(msg *model.Message, width int) string {
	var label lipgloss.Style
	switch msg.Role {
	case model.RoleUser:
		label = r.theme.UserLabel
	default:
		label = r.theme.AssistantLabel
	}

	header := label.Render(msg.Role.DisplayName()) + " " +
		r.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	body := msg.Content
	if r.useMD && msg.Role == model.RoleAssistant {
		body = strings.TrimRight(r.markdown.Render(body, width-2), "\n")
	} else {
		body = lipgloss.NewStyle().Width(width - 2).Render(body)
	}

	bubble := r.theme.AssistantBubble
	if msg.Role == model.RoleUser {
		bubble = r.theme.UserBubble
	}
	return header + "\n" + bubble.Render(body)
}

// RenderAll formats the whole ledger with blank lines between blocks.
func (r *MessageRenderer) RenderAll(msgs []*model.Message, width int) string {
	blocks := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		blocks = append(blocks, r.Render(msg, width))
	}
	return strings.Join(blocks, "\n\n")
}
