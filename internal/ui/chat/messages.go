// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
//
// This file defines the Bubble Tea message types used by the chat view.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/session"
)

// Sender is the gateway the chat view submits turns through.
type Sender interface {
	SendMessage(ctx context.Context, content string, history []assistant.HistoryMessage) (string, error)
}

// TurnResultMsg is the settlement of one submitted turn. Exactly one arrives
// per turn, success or failure; its TurnID ties it back to the submission.
type TurnResultMsg struct {
	TurnID string
	Reply  string
	Err    error
}

// sendTurnCmd performs the gateway call for one turn. The command always
// delivers a TurnResultMsg; errors travel inside it, never as a dropped
// message.
func sendTurnCmd(gateway Sender, turn *session.Turn) tea.Cmd {
	return func() tea.Msg {
		reply, err := gateway.SendMessage(context.Background(), turn.Content, turn.History)
		return TurnResultMsg{TurnID: turn.ID, Reply: reply, Err: err}
	}
}
