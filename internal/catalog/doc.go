// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package catalog provides the client for the university catalog endpoints
// and local filtering over cached listings.
package catalog
