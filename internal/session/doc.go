// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session implements conversation sessions and their turn lifecycle.
//
// A session owns an append-only message ledger and admits user submissions
// one at a time: StartTurn rejects input while a turn is in flight, and the
// matching Resolve or Fail call releases the session again. Failed turns
// surface a fixed apology; the underlying error is logged, never displayed.
//
// The package is UI-agnostic. The terminal UI and the line-based REPL both
// drive the same state machine.
package session
