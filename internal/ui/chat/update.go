// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unihub/unihub-tui/internal/session"
)

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TurnResultMsg:
		return m.handleTurnResult(msg), nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleResize recalculates layout. Header, input box and status bar claim
// fixed rows; the viewport takes the rest.
func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	const chromeHeight = 6 // header 2 + input 3 + status 1
	vpHeight := msg.Height - chromeHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = msg.Width
	m.viewport.Height = vpHeight
	m.input.Width = msg.Width - 6

	m.refreshViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.Up):
		m.viewport.LineUp(1)
		m.recomputeFollow()
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		m.viewport.LineDown(1)
		m.recomputeFollow()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.ViewUp()
		m.recomputeFollow()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.ViewDown()
		m.recomputeFollow()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		m.recomputeFollow()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleSubmit admits the typed message as a new turn. Rejections leave the
// input untouched so nothing the user typed is lost.
func (m Model) handleSubmit() (Model, tea.Cmd) {
	turn, err := m.session.StartTurn(m.input.Value())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrEmptyMessage):
			// silently ignore blank submits
		case errors.Is(err, session.ErrBusy):
			m.statusMsg = "Дождитесь ответа ассистента"
		default:
			m.statusMsg = "Сообщение отклонено"
		}
		return m, nil
	}

	m.input.Reset()
	m.statusMsg = ""
	m.state = StateWaiting
	m.refreshViewport()

	return m, tea.Batch(sendTurnCmd(m.gateway, turn), m.spinner.Tick, textinput.Blink)
}

// handleTurnResult settles the in-flight turn. The session ignores stale
// settlements, so a result for a superseded turn changes nothing and the
// view stays consistent.
func (m Model) handleTurnResult(msg TurnResultMsg) Model {
	var settled bool
	if msg.Err != nil {
		settled = m.session.Fail(msg.TurnID, msg.Err) != nil
	} else {
		settled = m.session.Resolve(msg.TurnID, msg.Reply) != nil
	}
	if !settled {
		return m
	}

	m.state = StateReady
	m.refreshViewport()
	return m
}
