// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// fold normalizes a string for case-insensitive matching across scripts.
// The catalog mixes Latin and Cyrillic names, so plain ASCII lowering is
// not enough. A fresh Caser per call: Casers carry state and are not safe
// for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

// MatchUniversity reports whether a university matches a free-text query.
// Name, description, country and program names are searched, case folded.
// Used for client-side narrowing of cached listings when the backend is
// unreachable.
func MatchUniversity(u *University, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	needle := fold(query)

	if strings.Contains(fold(u.Name), needle) {
		return true
	}
	if strings.Contains(fold(u.Description), needle) {
		return true
	}
	if u.Country != nil && strings.Contains(fold(u.Country.Name), needle) {
		return true
	}
	for _, p := range u.Programs {
		if strings.Contains(fold(p.Name), needle) {
			return true
		}
	}
	return false
}

// FilterUniversities narrows a cached slice the way the backend would.
// Free-text search plus exact-match dimension filters; MinScore keeps
// universities having at least one requirement at or below the score.
func FilterUniversities(items []University, f Filters) []University {
	out := make([]University, 0, len(items))
	for i := range items {
		u := &items[i]
		if f.CountryID != "" && u.CountryID != f.CountryID {
			continue
		}
		if f.ProgramID != "" && !hasProgram(u, f.ProgramID) {
			continue
		}
		if f.ExamID != "" && !hasExam(u, f.ExamID) {
			continue
		}
		if f.MinScore > 0 && !meetsScore(u, f.MinScore) {
			continue
		}
		if !MatchUniversity(u, f.Search) {
			continue
		}
		out = append(out, *u)
	}
	return out
}

func hasProgram(u *University, programID string) bool {
	for _, p := range u.Programs {
		if p.ID == programID {
			return true
		}
	}
	return false
}

func hasExam(u *University, examID string) bool {
	for _, r := range u.Requirements {
		if r.ExamID == examID {
			return true
		}
	}
	return false
}

func meetsScore(u *University, score int) bool {
	for _, r := range u.Requirements {
		if r.MinScore <= score {
			return true
		}
	}
	return false
}
