package recommend

import (
	"sort"
	"strings"

	"github.com/spigell/assessment-recommender/internal/scoring"
)

// NotAvailable replaces empty text fields in the output.
const NotAvailable = "N/A"

// Recommendation is one ranked assessment as returned to callers.
type Recommendation struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	JobLevels        string  `json:"job_levels"`
	Language         string  `json:"language"`
	AssessmentLength float64 `json:"assessment_length"`
	TestType         string  `json:"test_type"`
	RemoteTesting    string  `json:"remote_testing"`
	AdaptiveSupport  string  `json:"adaptive_support"`
	Score            float64 `json:"score"`
}

func fromCandidate(c *scoring.Candidate) Recommendation {
	r := c.Record
	return Recommendation{
		Title:            orNotAvailable(r.Title),
		Description:      orNotAvailable(r.Description),
		JobLevels:        orNotAvailable(r.JobLevels),
		Language:         orNotAvailable(r.Language),
		AssessmentLength: r.AssessmentLength,
		TestType:         orNotAvailable(r.TestType),
		RemoteTesting:    orNotAvailable(r.RemoteTesting),
		AdaptiveSupport:  orNotAvailable(r.AdaptiveSupport),
		Score:            c.Score,
	}
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// Rank orders candidates by score, then by description match, both
// descending, and returns at most limit recommendations. Equal candidates
// keep catalog order. The result is never nil.
func Rank(candidates *scoring.Candidates, limit int) []Recommendation {
	if candidates.Len() == 0 || limit <= 0 {
		return []Recommendation{}
	}

	items := make([]*scoring.Candidate, len(candidates.Items))
	copy(items, candidates.Items)

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].DescriptionMatchScore > items[j].DescriptionMatchScore
	})

	if len(items) > limit {
		items = items[:limit]
	}

	out := make([]Recommendation, 0, len(items))
	for _, c := range items {
		out = append(out, fromCandidate(c))
	}
	return out
}
