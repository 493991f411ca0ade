// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line surface of unihub: argument
// parsing, the one-shot ask command, the line-based chat REPL, and catalog
// listing commands. The full-screen TUI lives in internal/ui and is launched
// from main when no command is given.
package cli
