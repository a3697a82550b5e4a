package catalog

import (
	"math"
	"strconv"
	"strings"
)

// Column names after header normalisation.
const (
	ColumnTitle            = "title"
	ColumnDescription      = "description"
	ColumnJobLevels        = "job_levels"
	ColumnLanguage         = "language"
	ColumnAssessmentLength = "assessment_length"
	ColumnTestType         = "test_type"
	ColumnRemoteTesting    = "remote_testing"
	ColumnAdaptiveSupport  = "adaptive_support"
)

// columnAliases maps legacy export headers onto canonical column names.
var columnAliases = map[string]string{
	"topic":        ColumnTitle,
	"adaptive/irt": ColumnAdaptiveSupport,
	"adaptive":     ColumnAdaptiveSupport,
}

// Record is one assessment product of the catalog.
type Record struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	JobLevels        string  `json:"job_levels"`
	Language         string  `json:"language"`
	AssessmentLength float64 `json:"assessment_length"`
	TestType         string  `json:"test_type"`
	RemoteTesting    string  `json:"remote_testing"`
	AdaptiveSupport  string  `json:"adaptive_support"`
}

// SupportsRemoteTesting reports whether remote testing is flagged "yes".
func (r Record) SupportsRemoteTesting() bool {
	return strings.EqualFold(strings.TrimSpace(r.RemoteTesting), "yes")
}

// SupportsAdaptive reports whether adaptive/IRT delivery is flagged "yes".
func (r Record) SupportsAdaptive() bool {
	return strings.EqualFold(strings.TrimSpace(r.AdaptiveSupport), "yes")
}

// NormalizeColumn trims and lowercases a header and replaces spaces with
// underscores, resolving known aliases.
func NormalizeColumn(name string) string {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	// byte order marks, raw or decoded as latin1
	name = strings.TrimPrefix(name, "\ufeff")
	name = strings.TrimPrefix(name, "\u00ef\u00bb\u00bf")
	if alias, ok := columnAliases[name]; ok {
		return alias
	}
	return name
}

// ParseLength coerces an assessment length to minutes. Anything that is not a
// finite non-negative number becomes 0.
func ParseLength(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return 0
	}
	return value
}

func recordFromFields(fields map[string]string) Record {
	return Record{
		Title:            strings.TrimSpace(fields[ColumnTitle]),
		Description:      strings.TrimSpace(fields[ColumnDescription]),
		JobLevels:        strings.TrimSpace(fields[ColumnJobLevels]),
		Language:         strings.TrimSpace(fields[ColumnLanguage]),
		AssessmentLength: ParseLength(fields[ColumnAssessmentLength]),
		TestType:         strings.TrimSpace(fields[ColumnTestType]),
		RemoteTesting:    strings.TrimSpace(fields[ColumnRemoteTesting]),
		AdaptiveSupport:  strings.TrimSpace(fields[ColumnAdaptiveSupport]),
	}
}
