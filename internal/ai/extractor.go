// Package ai declares the language-model facing contracts of the recommender.
package ai

import (
	"context"

	"github.com/spigell/assessment-recommender/internal/query"
)

// Extraction is the structured reading of a natural-language hiring query.
type Extraction struct {
	Filters query.Filters `json:"filters"`
	// Issues lists values the model returned in an unusable shape.
	Issues []query.Issue `json:"issues,omitempty"`
	// Raw is the unparsed model output.
	Raw string `json:"raw"`
}

// Extractor turns a hiring query into filters. Only transport failures are
// errors; unparseable model output yields empty filters.
type Extractor interface {
	Extract(ctx context.Context, q string) (*Extraction, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, q string) (*Extraction, error)

func (f ExtractorFunc) Extract(ctx context.Context, q string) (*Extraction, error) {
	return f(ctx, q)
}
