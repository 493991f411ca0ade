// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/session"
	"github.com/unihub/unihub-tui/internal/ui/styles"
)

// stubSender records calls and returns a canned reply or error.
type stubSender struct {
	calls   int
	lastMsg string
	reply   string
	err     error
}

func (s *stubSender) SendMessage(_ context.Context, content string, _ []assistant.HistoryMessage) (string, error) {
	s.calls++
	s.lastMsg = content
	return s.reply, s.err
}

func newTestModel(sender *stubSender) Model {
	sess := session.New("welcome", 0)
	m := New(styles.NewTheme("dark"), sess, sender, false)
	m = m.handleResize(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func typeInput(m Model, text string) Model {
	for _, r := range text {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func pressEnter(m Model) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestSubmitStartsTurn(t *testing.T) {
	sender := &stubSender{reply: "ответ"}
	m := newTestModel(sender)

	m = typeInput(m, "вопрос")
	m, cmd := pressEnter(m)
	if cmd == nil {
		t.Fatal("submit produced no command")
	}
	if !m.Waiting() {
		t.Error("model not waiting after submit")
	}
	if m.input.Value() != "" {
		t.Errorf("input not cleared, still %q", m.input.Value())
	}
	if m.Session().Len() != 2 {
		t.Errorf("ledger length = %d, want 2", m.Session().Len())
	}
}

func TestAppendWhileNotFollowingKeepsPosition(t *testing.T) {
	sender := &stubSender{reply: strings.Repeat("строка\n", 80)}
	m := newTestModel(sender)
	m = typeInput(m, "первый")
	m, cmd := pressEnter(m)
	m = m.handleTurnResult(runForResult(t, cmd))

	// scroll to the top to disengage following
	for i := 0; i < m.viewport.TotalLineCount(); i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.Following() {
		t.Skip("content too short to disengage following")
	}
	offset := m.viewport.YOffset

	m = typeInput(m, "второй")
	m, cmd = pressEnter(m)
	m = m.handleTurnResult(runForResult(t, cmd))

	if m.viewport.YOffset != offset {
		t.Errorf("viewport yanked from %d to %d while not following", offset, m.viewport.YOffset)
	}
}

func TestSubmitWhileWaitingKeepsInput(t *testing.T) {
	sender := &stubSender{reply: "ответ"}
	m := newTestModel(sender)

	m = typeInput(m, "первый")
	m, _ = pressEnter(m)

	m = typeInput(m, "второй")
	m, cmd := pressEnter(m)
	if cmd != nil {
		t.Error("rejected submit still produced a command")
	}
	if m.input.Value() != "второй" {
		t.Errorf("rejected input lost: %q", m.input.Value())
	}
	if m.Session().Len() != 2 {
		t.Errorf("ledger grew to %d on rejected submit", m.Session().Len())
	}
	if m.statusMsg == "" {
		t.Error("busy rejection gave no feedback")
	}
}

func TestEmptySubmitIgnored(t *testing.T) {
	m := newTestModel(&stubSender{})
	m = typeInput(m, "   ")
	m, cmd := pressEnter(m)
	if cmd != nil {
		t.Error("blank submit produced a command")
	}
	if m.Waiting() {
		t.Error("blank submit made the model wait")
	}
	if m.Session().Len() != 1 {
		t.Errorf("ledger length = %d, want 1", m.Session().Len())
	}
}

func TestTurnSettlementSuccess(t *testing.T) {
	sender := &stubSender{reply: "Рекомендую МФТИ."}
	m := newTestModel(sender)
	m = typeInput(m, "куда поступать?")
	m, cmd := pressEnter(m)

	// run the batched commands to produce the settlement
	result := runForResult(t, cmd)
	if result.Err != nil {
		t.Fatalf("turn error = %v", result.Err)
	}
	m = m.handleTurnResult(result)

	if m.Waiting() {
		t.Error("model still waiting after settlement")
	}
	msgs := m.Session().Messages()
	if msgs[len(msgs)-1].Content != "Рекомендую МФТИ." {
		t.Errorf("last message = %q", msgs[len(msgs)-1].Content)
	}
	if sender.calls != 1 || sender.lastMsg != "куда поступать?" {
		t.Errorf("sender calls = %d, last = %q", sender.calls, sender.lastMsg)
	}
}

func TestTurnSettlementFailureShowsFallback(t *testing.T) {
	sender := &stubSender{err: errors.New("connection refused")}
	m := newTestModel(sender)
	m = typeInput(m, "вопрос")
	m, cmd := pressEnter(m)

	m = m.handleTurnResult(runForResult(t, cmd))

	if m.Waiting() {
		t.Error("model still waiting after failed settlement")
	}
	msgs := m.Session().Messages()
	last := msgs[len(msgs)-1]
	if last.Content != session.FallbackReply {
		t.Errorf("failed turn recorded %q, want the fixed fallback", last.Content)
	}
	if strings.Contains(last.Content, "connection refused") {
		t.Error("raw error text leaked into the conversation")
	}

	// the session is usable again
	m = typeInput(m, "ещё раз")
	if _, cmd := pressEnter(m); cmd == nil {
		t.Error("session not released after failure")
	}
}

func TestStaleSettlementIgnored(t *testing.T) {
	sender := &stubSender{reply: "ok"}
	m := newTestModel(sender)
	m = typeInput(m, "вопрос")
	m, cmd := pressEnter(m)

	result := runForResult(t, cmd)
	m = m.handleTurnResult(result)
	before := m.Session().Len()

	// the same settlement delivered twice
	m = m.handleTurnResult(result)
	if m.Session().Len() != before {
		t.Error("duplicate settlement grew the ledger")
	}
	if m.Waiting() {
		t.Error("duplicate settlement flipped state back to waiting")
	}
}

func TestFollowModeInitiallyEngaged(t *testing.T) {
	m := newTestModel(&stubSender{})
	if !m.Following() {
		t.Error("follow mode should start engaged")
	}
}

func TestScrollTogglesFollowMode(t *testing.T) {
	sender := &stubSender{reply: strings.Repeat("строка ответа\n", 60)}
	m := newTestModel(sender)
	m = typeInput(m, "длинный вопрос")
	m, cmd := pressEnter(m)
	m = m.handleTurnResult(runForResult(t, cmd))

	if m.viewport.TotalLineCount() <= m.viewport.Height+followThreshold {
		t.Skip("content too short to disengage following")
	}

	// scroll far above the threshold
	for i := 0; i < m.viewport.TotalLineCount(); i++ {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	}
	if m.Following() {
		t.Error("follow mode still engaged after scrolling to the top")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnd})
	if !m.Following() {
		t.Error("End did not re-engage follow mode")
	}
}

func TestNearBottomStillFollows(t *testing.T) {
	sender := &stubSender{reply: strings.Repeat("строка\n", 80)}
	m := newTestModel(sender)
	m = typeInput(m, "вопрос")
	m, cmd := pressEnter(m)
	m = m.handleTurnResult(runForResult(t, cmd))

	// a nudge smaller than the threshold keeps following engaged
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.distanceFromBottom() >= followThreshold {
		t.Skip("single line exceeded threshold")
	}
	if !m.Following() {
		t.Error("small scroll-up disengaged following")
	}
}

func TestViewRendersStates(t *testing.T) {
	sender := &stubSender{reply: "ответ"}
	m := newTestModel(sender)

	view := m.View()
	if !strings.Contains(view, "UniHub") {
		t.Error("header missing from view")
	}
	if !strings.Contains(view, "готов") {
		t.Error("ready status missing from view")
	}

	m = typeInput(m, "вопрос")
	m, _ = pressEnter(m)
	if !strings.Contains(m.View(), "печатает") {
		t.Error("typing indicator missing while waiting")
	}
}

// runForResult executes a (possibly batched) command tree until it yields a
// TurnResultMsg.
func runForResult(t *testing.T, cmd tea.Cmd) TurnResultMsg {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case TurnResultMsg:
			return msg
		case tea.BatchMsg:
			for _, c := range msg {
				queue = append(queue, c)
			}
		}
	}
	t.Fatal("no TurnResultMsg produced")
	return TurnResultMsg{}
}
