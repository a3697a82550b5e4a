// Package joblevel maps a free-text job level onto a canonical category.
package joblevel

import (
	"github.com/spigell/assessment-recommender/internal/heuristics"
	"github.com/spigell/assessment-recommender/internal/tokens"
)

// Category is a canonical job-level bucket.
type Category string

const (
	CategoryNone      Category = ""
	CategoryEntry     Category = "entry"
	CategoryMid       Category = "mid"
	CategorySenior    Category = "senior"
	CategoryExecutive Category = "executive"
)

// Resolution describes how a requested job level was interpreted.
type Resolution struct {
	// Requested is false when no job level was supplied; job-level scoring is
	// skipped entirely in that case.
	Requested bool
	Raw       string
	// Category is set when a synonym overlapped the raw string.
	Category Category
}

// Matched reports whether a category was resolved.
func (r Resolution) Matched() bool {
	return r.Requested && r.Category != CategoryNone
}

// Resolve walks the categories in table order and returns the first whose
// synonyms overlap raw. First match wins, not best match.
func Resolve(raw *string, maps *heuristics.Maps) Resolution {
	if raw == nil {
		return Resolution{}
	}

	res := Resolution{Requested: true, Raw: *raw}
	for _, level := range maps.JobLevels {
		for _, term := range level.Terms {
			if tokens.Overlap(*raw, term) {
				res.Category = Category(level.Category)
				return res
			}
		}
	}

	return res
}
