// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions and messages.
//
// # Key Types
//
//   - Ledger: append-only message sequence for one session, opened by the
//     welcome sentinel
//   - Message: single ledger entry with role, content and timestamp
//   - Role: message role enumeration (user, assistant)
//
// # Usage
//
// Create a ledger and record a turn:
//
//	ledger := model.NewLedger("Привет! Чем могу помочь?")
//	history := ledger.ToHistory(40) // snapshot before appending
//	ledger.AppendUser("Какие требования в Stanford?")
//
// The history payload never contains the welcome sentinel and applies the
// configured sliding window at the payload boundary.
package model
