// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "Вы"
	case RoleAssistant:
		return "Ассистент"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// WelcomeID is the reserved identifier of the synthetic welcome message that
// opens every session. Entries with this ID are excluded from outbound
// history payloads.
const WelcomeID = "msg_welcome"

// Message represents a single entry in the session ledger.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a new message with a generated ID and the current time.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewWelcomeMessage creates the sentinel assistant message that opens a
// session. Its ID is the reserved WelcomeID.
func NewWelcomeMessage(content string) *Message {
	return &Message{
		ID:        WelcomeID,
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// IsWelcome reports whether this is the session's sentinel welcome message.
func (m *Message) IsWelcome() bool {
	return m.ID == WelcomeID
}

// Preview returns a truncated single-line preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a message ID derived from the submission instant plus a
// random suffix. IDs are monotonically increasing in practice and unique
// always.
func generateID() string {
	suffix := make([]byte, 4)
	rand.Read(suffix)
	return "msg_" + strconv.FormatInt(time.Now().UnixNano(), 36) + "_" + hex.EncodeToString(suffix)
}
