// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"github.com/unihub/unihub-tui/internal/assistant"
)

// =============================================================================
// LEDGER TYPE
// =============================================================================

// Ledger holds the ordered, append-only sequence of messages for one session.
// Insertion order is the only ordering guarantee: entries are never edited,
// removed or re-sorted once appended.
type Ledger struct {
	messages []*Message
}

// NewLedger creates a ledger whose first entry is the sentinel welcome
// message with the given content.
func NewLedger(welcome string) *Ledger {
	return &Ledger{
		messages: []*Message{NewWelcomeMessage(welcome)},
	}
}

// Append adds a message to the end of the ledger.
func (l *Ledger) Append(msg *Message) {
	l.messages = append(l.messages, msg)
}

// AppendUser creates and appends a user message, returning it.
func (l *Ledger) AppendUser(content string) *Message {
	msg := NewUserMessage(content)
	l.Append(msg)
	return msg
}

// AppendAssistant creates and appends an assistant message, returning it.
func (l *Ledger) AppendAssistant(content string) *Message {
	msg := NewAssistantMessage(content)
	l.Append(msg)
	return msg
}

// Messages returns the ledger entries in order. The returned slice is a
// snapshot; callers must not mutate the messages.
func (l *Ledger) Messages() []*Message {
	out := make([]*Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of entries, including the welcome sentinel.
func (l *Ledger) Len() int {
	return len(l.messages)
}

// Last returns the most recent entry, or nil for an empty ledger.
func (l *Ledger) Last() *Message {
	if len(l.messages) == 0 {
		return nil
	}
	return l.messages[len(l.messages)-1]
}

// =============================================================================
// HISTORY PAYLOAD
// =============================================================================

// ToHistory converts the ledger into the ordered role/content pairs sent to
// the assistant backend. The welcome sentinel is always excluded. When limit
// is positive, only the most recent limit entries are kept: the sliding
// window is applied here, at the payload boundary, so ledger storage keeps
// the full session.
//
// Callers snapshot history before appending the message they are about to
// send; the new content travels as the separate primary argument of the
// gateway call and is never re-derived from the ledger.
func (l *Ledger) ToHistory(limit int) []assistant.HistoryMessage {
	history := make([]assistant.HistoryMessage, 0, len(l.messages))
	for _, msg := range l.messages {
		if msg.IsWelcome() {
			continue
		}
		history = append(history, assistant.HistoryMessage{
			Role:    msg.Role.String(),
			Content: msg.Content,
		})
	}

	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
