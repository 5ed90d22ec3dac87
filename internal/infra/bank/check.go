package bank

import (
	"sort"
	"strings"
)

// Occurrence locates an entry in the document.
type Occurrence struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

// Duplicate pairs the first occurrence of a key with a later repeat.
type Duplicate struct {
	Key       string     `json:"key"`
	First     Occurrence `json:"first"`
	Duplicate Occurrence `json:"duplicate"`
}

// Invalid is an entry that fails domain validation.
type Invalid struct {
	Occurrence
	Reason string `json:"reason"`
}

// CheckReport is the outcome of Check.
type CheckReport struct {
	Total          int            `json:"total"`
	ByLevel        map[string]int `json:"byLevel"`
	ByCategory     map[string]int `json:"byCategory"`
	DuplicateIDs   []Duplicate    `json:"duplicateIds"`
	DuplicateTexts []Duplicate    `json:"duplicateTexts"`
	Invalid        []Invalid      `json:"invalid"`
}

// OK reports whether the bank is free of duplicates and invalid entries.
func (r CheckReport) OK() bool {
	return len(r.DuplicateIDs) == 0 && len(r.DuplicateTexts) == 0 && len(r.Invalid) == 0
}

// Categories returns category names sorted by descending count, then name.
func (r CheckReport) Categories() []string {
	names := make([]string, 0, len(r.ByCategory))
	for name := range r.ByCategory {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if r.ByCategory[names[i]] != r.ByCategory[names[j]] {
			return r.ByCategory[names[i]] > r.ByCategory[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// Check scans doc for duplicate ids, duplicate question texts (ignoring
// surrounding whitespace) and entries that would be rejected on load.
func Check(doc Document) CheckReport {
	report := CheckReport{
		Total:      len(doc.Questions),
		ByLevel:    make(map[string]int),
		ByCategory: make(map[string]int),
	}
	ids := make(map[string]Occurrence)
	texts := make(map[string]Occurrence)

	for i, e := range doc.Questions {
		occ := Occurrence{Index: i, ID: e.ID, Level: e.Level, Category: e.Category}
		report.ByLevel[e.Level]++
		report.ByCategory[e.Category]++

		if first, ok := ids[e.ID]; ok {
			report.DuplicateIDs = append(report.DuplicateIDs, Duplicate{Key: e.ID, First: first, Duplicate: occ})
		} else {
			ids[e.ID] = occ
		}

		text := strings.TrimSpace(e.Question)
		if first, ok := texts[text]; ok {
			report.DuplicateTexts = append(report.DuplicateTexts, Duplicate{Key: text, First: first, Duplicate: occ})
		} else {
			texts[text] = occ
		}

		if _, err := e.ToQuestion(); err != nil {
			report.Invalid = append(report.Invalid, Invalid{Occurrence: occ, Reason: err.Error()})
		}
	}
	return report
}
