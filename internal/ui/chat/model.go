// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the conversation view for the TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unihub/unihub-tui/internal/session"
	"github.com/unihub/unihub-tui/internal/ui/components"
	"github.com/unihub/unihub-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateWaiting              // A turn is in flight
)

// followThreshold is how many lines above the bottom the reader can sit and
// still be snapped down when new messages arrive. Scrolling further up
// disengages following until the reader returns.
const followThreshold = 40

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme    *styles.Theme
	renderer *components.MessageRenderer

	// Dimensions
	width  int
	height int

	// Conversation engine
	session *session.Session
	gateway Sender

	// Scroll following: true while the reader is at (or near) the bottom.
	// New messages snap the viewport down only while following.
	followMode bool

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	keyMap KeyMap

	// Transient status line content
	statusMsg string
}

// New creates a chat model over an existing session and gateway.
func New(theme *styles.Theme, sess *session.Session, gateway Sender, markdown bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Напишите сообщение..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	return Model{
		state:      StateReady,
		theme:      theme,
		renderer:   components.NewMessageRenderer(theme, markdown),
		session:    sess,
		gateway:    gateway,
		followMode: true,
		viewport:   vp,
		input:      ti,
		spinner:    sp,
		keyMap:     DefaultKeyMap(),
	}
}

// Session exposes the underlying conversation.
func (m Model) Session() *session.Session {
	return m.session
}

// Following reports whether the view snaps to new messages.
func (m Model) Following() bool {
	return m.followMode
}

// Waiting reports whether a turn is in flight.
func (m Model) Waiting() bool {
	return m.state == StateWaiting
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// =============================================================================
// VIEWPORT HELPERS
// =============================================================================

// distanceFromBottom is how many lines of content sit below the visible
// window. Zero means the bottom is on screen.
func (m *Model) distanceFromBottom() int {
	d := m.viewport.TotalLineCount() - (m.viewport.YOffset + m.viewport.Height)
	if d < 0 {
		d = 0
	}
	return d
}

// recomputeFollow re-evaluates follow mode from the current scroll position.
// Called after every user-driven scroll.
func (m *Model) recomputeFollow() {
	m.followMode = m.distanceFromBottom() < followThreshold
}

// refreshViewport re-renders the ledger into the viewport. When following,
// the view snaps to the bottom; otherwise the reading position is kept.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderer.RenderAll(m.session.Messages(), m.viewport.Width))
	if m.followMode {
		m.viewport.GotoBottom()
	}
}
