// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package catalog

// Country is one country a university belongs to.
type Country struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// Program is one study program offered by a university.
type Program struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Exam is one admission exam recognized by the catalog.
type Exam struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Requirement ties an exam to the score band a university demands.
type Requirement struct {
	ID       string `json:"id"`
	ExamID   string `json:"exam_id"`
	Exam     *Exam  `json:"exam,omitempty"`
	MinScore int    `json:"min_score"`
	MaxScore int    `json:"max_score,omitempty"`
}

// University is one catalog entry. List responses may omit the nested
// programs and requirements; detail responses always carry them.
type University struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CountryID    string        `json:"country_id"`
	Country      *Country      `json:"country,omitempty"`
	Description  string        `json:"description,omitempty"`
	Programs     []Program     `json:"programs,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
}

// ListResponse is the paginated body of GET /universities.
type ListResponse struct {
	Items    []University `json:"items"`
	Total    int          `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// MetaResponse is the body of GET /meta: the filterable dimensions of the
// catalog.
type MetaResponse struct {
	Countries []Country `json:"countries"`
	Programs  []Program `json:"programs"`
	Exams     []Exam    `json:"exams"`
}

// Filters narrows a university listing. Zero values mean "no filter".
type Filters struct {
	CountryID string
	ProgramID string
	ExamID    string
	MinScore  int
	Search    string
	Page      int
	PageSize  int
}
