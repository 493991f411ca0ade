// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared string utilities.
//
// The helpers here are deliberately tiny and dependency-light: rune-safe
// truncation and display-width padding for terminal output. Anything with
// domain knowledge belongs in the package that owns the domain.
package util
