// Package evaluation measures how well filter extraction reads benchmark
// queries and records the recommendations produced for each of them.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/assessment-recommender/internal/ai"
	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/recommend"
)

const (
	// DurationTolerance is the accepted distance in minutes between the
	// expected and extracted duration limit.
	DurationTolerance = 5

	topRecommendations = 3
	defaultConcurrency = 2
)

// Expected are the filters a case should extract. Nil fields are not checked.
type Expected struct {
	Skills        []string `json:"skills"`
	JobLevel      *string  `json:"job_level"`
	DurationLimit *float64 `json:"duration_limit"`
}

// Case is one benchmark query.
type Case struct {
	Query    string   `json:"query"`
	Expected Expected `json:"expected"`
}

// Checks holds the outcome of each individual comparison.
type Checks struct {
	Skills   bool `json:"skills_pass"`
	JobLevel bool `json:"job_level_pass"`
	Duration bool `json:"duration_pass"`
}

// Passed reports whether every check succeeded.
func (c Checks) Passed() bool {
	return c.Skills && c.JobLevel && c.Duration
}

// CaseResult is the evaluation of one case.
type CaseResult struct {
	Query              string        `json:"query"`
	Expected           Expected      `json:"expected"`
	Extracted          query.Filters `json:"extracted"`
	Issues             []query.Issue `json:"issues,omitempty"`
	Passed             bool          `json:"passed"`
	Checks             Checks        `json:"checks"`
	TopRecommendations []string      `json:"top_recommendations"`
	Error              string        `json:"error,omitempty"`
}

// Report summarises a run.
type Report struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Passed      int          `json:"passed"`
	Total       int          `json:"total"`
	Results     []CaseResult `json:"results"`
}

// Runner evaluates cases with a bounded number of concurrent extractions.
type Runner struct {
	extractor   ai.Extractor
	engine      *recommend.Engine
	concurrency int
	logger      *zap.Logger
	now         func() time.Time
}

func NewRunner(extractor ai.Extractor, engine *recommend.Engine, concurrency int, logger *zap.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		extractor:   extractor,
		engine:      engine,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Run evaluates cases and returns results in case order. An extraction
// failure fails only its own case; cancellation of ctx aborts the run.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	results := make([]CaseResult, len(cases))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, c := range cases {
		g.Go(func() error {
			result, err := r.evaluate(gCtx, c)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{GeneratedAt: r.now().UTC(), Total: len(cases), Results: results}
	for _, result := range results {
		if result.Passed {
			report.Passed++
		}
	}

	r.logger.Info("evaluation summary",
		zap.Int("passed", report.Passed),
		zap.Int("total", report.Total),
	)

	return report, nil
}

func (r *Runner) evaluate(ctx context.Context, c Case) (CaseResult, error) {
	result := CaseResult{Query: c.Query, Expected: c.Expected, TopRecommendations: []string{}}

	extraction, err := r.extractor.Extract(ctx, c.Query)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, ctxErr
		}
		r.logger.Warn("extraction failed", zap.String("query", c.Query), zap.Error(err))
		result.Error = err.Error()
		return result, nil
	}

	result.Extracted = extraction.Filters
	result.Issues = extraction.Issues
	result.Checks = Check(c.Expected, extraction.Filters)
	result.Passed = result.Checks.Passed()

	res, err := r.engine.Run(ctx, extraction.Filters, extraction.Issues)
	if err != nil {
		return result, fmt.Errorf("recommend for %q: %w", c.Query, err)
	}
	for i, rec := range res.Recommendations {
		if i == topRecommendations {
			break
		}
		result.TopRecommendations = append(result.TopRecommendations, rec.Title)
	}

	log := r.logger.With(zap.String("query", c.Query))
	if result.Passed {
		log.Info("case passed")
	} else {
		log.Info("case failed",
			zap.Bool("skills_pass", result.Checks.Skills),
			zap.Bool("job_level_pass", result.Checks.JobLevel),
			zap.Bool("duration_pass", result.Checks.Duration),
		)
	}

	return result, nil
}

// Check compares extracted filters with the expectation. Every expected skill
// must be contained in some extracted skill, the expected job level must be
// contained in the extracted one and the duration must be within
// DurationTolerance minutes.
func Check(expected Expected, got query.Filters) Checks {
	return Checks{
		Skills:   skillsMatch(expected.Skills, got.Skills),
		JobLevel: jobLevelMatches(expected.JobLevel, got.JobLevel),
		Duration: durationMatches(expected.DurationLimit, got.DurationLimit),
	}
}

func skillsMatch(expected, got []string) bool {
	for _, want := range expected {
		want = strings.ToLower(want)
		found := false
		for _, skill := range got {
			if strings.Contains(strings.ToLower(skill), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func jobLevelMatches(expected, got *string) bool {
	if expected == nil {
		return true
	}
	if got == nil || *got == "" {
		return false
	}
	return strings.Contains(strings.ToLower(*got), strings.ToLower(*expected))
}

func durationMatches(expected, got *float64) bool {
	if expected == nil {
		return true
	}
	if got == nil {
		return false
	}
	return math.Abs(*got-*expected) <= DurationTolerance
}

// WriteFile stores the report as indented JSON.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report %q: %w", path, err)
	}
	return nil
}
