// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/unihub/unihub-tui/internal/assistant"
	"github.com/unihub/unihub-tui/internal/model"
)

// Configuration constants for sessions.
const (
	// DefaultWelcome is the assistant greeting that opens every session.
	DefaultWelcome = "Привет! Я ассистент платформы университетов. Помогу найти подходящий университет, расскажу о требованиях для поступления и помогу с выбором специальности. Что тебя интересует?"

	// FallbackReply is what the ledger records whenever a turn fails,
	// regardless of the failure kind. Real error detail goes to the log
	// only.
	FallbackReply = "Извините, произошла ошибка. Попробуйте ещё раз."

	// DefaultHistoryWindow bounds how many ledger entries travel with each
	// gateway call.
	DefaultHistoryWindow = 40
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrBusy is returned when a turn is started while another is in flight.
	// The submission is rejected, never queued.
	ErrBusy = errors.New("a message is already being processed")

	// ErrEmptyMessage is returned for whitespace-only submissions.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrClosed is returned for operations on a closed session.
	ErrClosed = errors.New("session is closed")
)

// =============================================================================
// TURN TYPE
// =============================================================================

// Turn is the unit of work handed to the caller by StartTurn. It carries
// everything the gateway call needs: the trimmed message content and the
// history snapshot taken before the message was appended to the ledger.
//
// The turn ID ties the eventual settlement back to this submission; a
// settlement carrying any other ID is ignored.
type Turn struct {
	ID      string
	Content string
	History []assistant.HistoryMessage
}

// =============================================================================
// SESSION TYPE
// =============================================================================

// Session is one conversation: an append-only message ledger plus the
// single-flight turn state machine around it. At most one turn is in flight
// at any moment; a second submission fails with ErrBusy until the first
// settles.
//
// All methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	ledger        *model.Ledger
	historyWindow int
	busy          bool
	activeTurnID  string
	closed        bool
	log           *logrus.Entry
}

// New creates a session with the given welcome message and history window.
// An empty welcome and a negative window fall back to the defaults; a zero
// window means the full history is sent on every turn.
func New(welcome string, historyWindow int) *Session {
	if welcome == "" {
		welcome = DefaultWelcome
	}
	if historyWindow < 0 {
		historyWindow = DefaultHistoryWindow
	}
	id := uuid.New().String()
	return &Session{
		ID:            id,
		CreatedAt:     time.Now(),
		ledger:        model.NewLedger(welcome),
		historyWindow: historyWindow,
		log:           logrus.WithField("session", id[:8]),
	}
}

// Messages returns a snapshot of the ledger in insertion order.
func (s *Session) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Messages()
}

// Len returns the ledger length, including the welcome sentinel.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// Busy reports whether a turn is currently in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Close marks the session closed. Further turns are rejected, and any
// settlement arriving after Close is ignored: the ledger never mutates
// once the session is gone.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// =============================================================================
// TURN LIFECYCLE
// =============================================================================

// StartTurn validates and admits one user submission. On success the message
// is appended to the ledger, the session becomes busy, and the returned Turn
// carries the history snapshot taken BEFORE the append: the new message
// travels only as the turn's primary content, never duplicated inside
// history.
//
// Returns ErrEmptyMessage for whitespace-only input, ErrBusy while another
// turn is in flight, ErrClosed after Close.
func (s *Session) StartTurn(content string) (*Turn, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.busy {
		return nil, ErrBusy
	}

	history := s.ledger.ToHistory(s.historyWindow)
	userMsg := s.ledger.AppendUser(content)

	s.busy = true
	s.activeTurnID = userMsg.ID
	s.log.WithFields(logrus.Fields{
		"turn":    userMsg.ID,
		"history": len(history),
	}).Debug("turn started")

	return &Turn{
		ID:      userMsg.ID,
		Content: content,
		History: history,
	}, nil
}

// Resolve settles a successful turn: the reply is appended as an assistant
// message and the session becomes available again. A settlement whose turn
// ID is not the active one is ignored; this makes late or duplicate
// settlements harmless.
//
// Returns the appended message, or nil when the settlement was ignored.
func (s *Session) Resolve(turnID, reply string) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settle(turnID) {
		return nil
	}
	s.log.WithField("turn", turnID).Debug("turn resolved")
	return s.ledger.AppendAssistant(reply)
}

// Fail settles a failed turn: a fixed apology is appended in place of a
// reply and the session becomes available again. The error is logged; its
// text never reaches the ledger. Same late-settlement rules as Resolve.
func (s *Session) Fail(turnID string, cause error) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.settle(turnID) {
		return nil
	}
	s.log.WithError(cause).WithField("turn", turnID).Warn("turn failed")
	return s.ledger.AppendAssistant(FallbackReply)
}

// settle releases the busy flag when turnID matches the active turn and
// the session is still open. Callers must hold mu.
func (s *Session) settle(turnID string) bool {
	if s.closed {
		s.log.WithField("turn", turnID).Debug("ignoring settlement on closed session")
		return false
	}
	if !s.busy || turnID != s.activeTurnID {
		s.log.WithField("turn", turnID).Debug("ignoring stale settlement")
		return false
	}
	s.busy = false
	s.activeTurnID = ""
	return true
}
