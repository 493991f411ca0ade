// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "testing"

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"cyrillic preserved", "Университет ИТМО", 14, "Университет..."},
		{"zero max", "hello", 0, ""},
		{"tiny max", "hello", 2, "he"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateRunes(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	// Double-width characters occupy two columns.
	got := TruncateWidth("東京大学", 5)
	if got != "東..." {
		t.Errorf("TruncateWidth(東京大学, 5) = %q, want %q", got, "東...")
	}

	if got := TruncateWidth("MIT", 10); got != "MIT" {
		t.Errorf("TruncateWidth(MIT, 10) = %q, want unchanged", got)
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("ab", 5); got != "ab   " {
		t.Errorf("PadWidth(ab, 5) = %q", got)
	}
	if got := PadWidth("abcdef", 4); len([]rune(got)) == 0 {
		t.Errorf("PadWidth should truncate, got %q", got)
	}
}

func TestCollapseSpace(t *testing.T) {
	if got := CollapseSpace("  a \n b\t c  "); got != "a b c" {
		t.Errorf("CollapseSpace() = %q, want %q", got, "a b c")
	}
}
