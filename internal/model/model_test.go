// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"testing"
)

func TestNewLedgerStartsWithWelcome(t *testing.T) {
	l := NewLedger("Здравствуйте! Чем могу помочь?")
	if l.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", l.Len())
	}
	first := l.Messages()[0]
	if !first.IsWelcome() {
		t.Error("first message is not the welcome sentinel")
	}
	if first.Role != RoleAssistant {
		t.Errorf("welcome role = %s, want assistant", first.Role)
	}
	if first.Content != "Здравствуйте! Чем могу помочь?" {
		t.Errorf("welcome content = %q", first.Content)
	}
}

func TestLedgerAppendPreservesOrder(t *testing.T) {
	l := NewLedger("welcome")
	contents := []string{"first", "second", "third", "fourth"}
	for i, c := range contents {
		if i%2 == 0 {
			l.AppendUser(c)
		} else {
			l.AppendAssistant(c)
		}
	}

	msgs := l.Messages()
	if len(msgs) != len(contents)+1 {
		t.Fatalf("Len() = %d, want %d", len(msgs), len(contents)+1)
	}
	for i, c := range contents {
		if msgs[i+1].Content != c {
			t.Errorf("messages[%d].Content = %q, want %q", i+1, msgs[i+1].Content, c)
		}
	}
	if l.Last().Content != "fourth" {
		t.Errorf("Last().Content = %q, want %q", l.Last().Content, "fourth")
	}
}

func TestLedgerMessagesIsSnapshot(t *testing.T) {
	l := NewLedger("welcome")
	snap := l.Messages()
	l.AppendUser("after snapshot")
	if len(snap) != 1 {
		t.Errorf("snapshot grew to %d entries", len(snap))
	}
}

func TestToHistoryExcludesWelcome(t *testing.T) {
	l := NewLedger("welcome text")
	l.AppendUser("question")
	l.AppendAssistant("answer")

	history := l.ToHistory(0)
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "question" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "answer" {
		t.Errorf("history[1] = %+v", history[1])
	}
	for _, h := range history {
		if h.Content == "welcome text" {
			t.Error("welcome sentinel leaked into history")
		}
	}
}

func TestToHistoryWindow(t *testing.T) {
	tests := []struct {
		name      string
		pairs     int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{"no limit", 5, 0, 10, "u0"},
		{"under limit", 3, 40, 6, "u0"},
		{"at limit", 4, 8, 8, "u0"},
		{"over limit", 10, 6, 6, "u7"},
		{"limit one", 4, 1, 1, "a3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger("welcome")
			for i := 0; i < tt.pairs; i++ {
				l.AppendUser(fmt.Sprintf("u%d", i))
				l.AppendAssistant(fmt.Sprintf("a%d", i))
			}
			history := l.ToHistory(tt.limit)
			if len(history) != tt.wantLen {
				t.Fatalf("history length = %d, want %d", len(history), tt.wantLen)
			}
			if history[0].Content != tt.wantFirst {
				t.Errorf("history[0].Content = %q, want %q", history[0].Content, tt.wantFirst)
			}
			last := history[len(history)-1]
			if last.Content != fmt.Sprintf("a%d", tt.pairs-1) {
				t.Errorf("history ends at %q, want newest entry", last.Content)
			}
		})
	}
}

func TestToHistoryEmptySession(t *testing.T) {
	l := NewLedger("welcome")
	if got := l.ToHistory(40); len(got) != 0 {
		t.Errorf("fresh session history length = %d, want 0", len(got))
	}
}

func TestMessageIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		m := NewUserMessage("x")
		if seen[m.ID] {
			t.Fatalf("duplicate ID %q after %d messages", m.ID, i)
		}
		seen[m.ID] = true
	}
}

func TestRoleDisplayName(t *testing.T) {
	if got := RoleUser.DisplayName(); got != "Вы" {
		t.Errorf("user display name = %q", got)
	}
	if got := RoleAssistant.DisplayName(); got != "Ассистент" {
		t.Errorf("assistant display name = %q", got)
	}
}

func TestMessagePreview(t *testing.T) {
	tests := []struct {
		content string
		maxLen  int
		want    string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this is a longer message", 10, "this is..."},
		{"привет мир как дела", 10, "привет ..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		m := NewUserMessage(tt.content)
		if got := m.Preview(tt.maxLen); got != tt.want {
			t.Errorf("Preview(%q, %d) = %q, want %q", tt.content, tt.maxLen, got, tt.want)
		}
	}
}
