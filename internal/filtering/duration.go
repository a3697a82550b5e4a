package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/scoring"
)

const (
	// MinStrictResults is the smallest strict subset that replaces the full
	// candidate set. Smaller subsets are discarded and every candidate stays.
	MinStrictResults = 3

	withinLimitPoints  = 3
	nearLimitPoints    = 1
	nearLimitTolerance = 1.5

	noLimitReason = "no duration limit requested"
)

type durationFilter struct {
	limit   *float64
	enabled bool
	reason  string
	logger  *zap.Logger
}

// NewDuration creates the duration step. It adds a bonus to candidates whose
// assessment length fits the limit and then keeps only the strict matches
// when there are at least MinStrictResults of them. A nil limit yields a
// disabled step.
func NewDuration(limit *float64, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &durationFilter{
		limit:   limit,
		enabled: limit != nil,
		logger:  logger,
	}
	if limit == nil {
		f.reason = noLimitReason
	}
	return f
}

func (f *durationFilter) Name() string { return "duration" }

func (f *durationFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *durationFilter) IsEnabled() bool { return f.enabled }

func (f *durationFilter) Validate() error { return nil }

func (f *durationFilter) Apply(_ context.Context, v *scoring.Candidates) (*scoring.Candidates, Step, error) {
	initial := v.Len()
	limit := *f.limit

	for _, c := range v.Items {
		c.AddDurationMatch(DurationPoints(c.Record.AssessmentLength, limit))
	}

	strict := StrictSubset(v.Items, limit)
	working := ChooseWorkingSet(v.Items, strict)
	if len(working) != len(strict) {
		f.logger.Debug("too few assessments within duration limit; keeping all",
			zap.Float64("limit", limit),
			zap.Int("within_limit", len(strict)),
		)
	}

	v.Items = working
	return v, Step{Initial: initial, Dropped: initial - v.Len(), Left: v.Len()}, nil
}

func (f *durationFilter) Status() Status {
	details := map[string]string{
		"min_strict_results": strconv.Itoa(MinStrictResults),
	}
	if f.limit != nil {
		details["limit"] = strconv.FormatFloat(*f.limit, 'f', -1, 64)
	}
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: details}
}

// DurationPoints is the bonus for an assessment of the given length: 3 when
// it fits the limit, 1 when it is at most 50% over, 0 otherwise.
func DurationPoints(length, limit float64) int {
	switch {
	case length <= limit:
		return withinLimitPoints
	case length <= limit*nearLimitTolerance:
		return nearLimitPoints
	default:
		return 0
	}
}

// StrictSubset returns the candidates whose length does not exceed limit,
// in input order.
func StrictSubset(items []*scoring.Candidate, limit float64) []*scoring.Candidate {
	out := make([]*scoring.Candidate, 0, len(items))
	for _, c := range items {
		if c.Record.AssessmentLength <= limit {
			out = append(out, c)
		}
	}
	return out
}

// ChooseWorkingSet returns strict when it holds at least MinStrictResults
// candidates and all otherwise.
func ChooseWorkingSet(all, strict []*scoring.Candidate) []*scoring.Candidate {
	if len(strict) >= MinStrictResults {
		return strict
	}
	return all
}
