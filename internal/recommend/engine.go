// Package recommend wires skill classification, job-level resolution,
// scoring and the filtering steps into the ranked recommendation pipeline.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/catalog"
	"github.com/spigell/assessment-recommender/internal/filtering"
	"github.com/spigell/assessment-recommender/internal/heuristics"
	"github.com/spigell/assessment-recommender/internal/joblevel"
	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/scoring"
	"github.com/spigell/assessment-recommender/internal/skills"
)

// MaxResults caps every recommendation list.
const MaxResults = 10

// Options configure an Engine. Zero values select defaults.
type Options struct {
	Maps           *heuristics.Maps
	Weights        scoring.Weights
	Limit          int
	ExcludedTitles []string
	Logger         *zap.Logger
}

// Engine ranks the catalog against filter objects. It holds only read-only
// state and is safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	maps     *heuristics.Maps
	weights  scoring.Weights
	limit    int
	excluded []string
	logger   *zap.Logger
}

// Result is a ranked list together with how the filters were interpreted.
type Result struct {
	Recommendations []Recommendation   `json:"recommendations"`
	Filters         query.Filters      `json:"filters"`
	Issues          []query.Issue      `json:"issues,omitempty"`
	Technical       []string           `json:"technical_skills"`
	Soft            []string           `json:"soft_skills"`
	JobLevel        string             `json:"job_level_category,omitempty"`
	Steps           []filtering.Status `json:"steps"`
}

// New builds an engine over cat.
func New(cat *catalog.Catalog, opts Options) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	maps := opts.Maps
	if maps == nil {
		var err error
		if maps, err = heuristics.Default(); err != nil {
			return nil, fmt.Errorf("load default heuristics: %w", err)
		}
	}

	weights := opts.Weights
	if weights.IsZero() {
		weights = scoring.DefaultWeights()
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Engine{
		catalog:  cat,
		maps:     maps,
		weights:  weights,
		limit:    limit,
		excluded: append([]string(nil), opts.ExcludedTitles...),
		logger:   logger,
	}, nil
}

// Recommend returns the ranked recommendations for f.
func (e *Engine) Recommend(ctx context.Context, f query.Filters) ([]Recommendation, error) {
	res, err := e.Run(ctx, f, nil)
	if err != nil {
		return nil, err
	}
	return res.Recommendations, nil
}

// Run executes the full pipeline. Issues reported while decoding f are
// carried into the result; a duration issue disables the duration step.
func (e *Engine) Run(ctx context.Context, f query.Filters, issues []query.Issue) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classified := skills.Classify(f.Skills, e.maps)
	level := joblevel.Resolve(f.JobLevel, e.maps)

	e.logger.Debug("filters interpreted",
		zap.Strings("technical_skills", classified.Technical.Sorted()),
		zap.Strings("soft_skills", classified.Soft),
		zap.Bool("job_level_requested", level.Requested),
		zap.String("job_level_category", string(level.Category)),
	)

	scorer := scoring.NewScorer(e.maps, e.weights, classified, level)
	candidates := scorer.ScoreAll(e.catalog.Records())

	steps := e.steps(f)
	for _, issue := range issues {
		e.logger.Warn("ignoring malformed filter value",
			zap.String("field", issue.Field),
			zap.String("reason", issue.Reason),
		)
		if issue.Field == query.FieldDurationLimit {
			filtering.DisableByName(steps, "duration", issue.String())
		}
	}

	candidates, err := filtering.Run(ctx, e.logger, steps, candidates)
	if err != nil {
		return nil, fmt.Errorf("filtering candidates: %w", err)
	}

	recs := Rank(candidates, e.limit)
	e.logger.Debug("recommendations ranked",
		zap.Int("candidates", candidates.Len()),
		zap.Int("returned", len(recs)),
	)

	return &Result{
		Recommendations: recs,
		Filters:         f,
		Issues:          issues,
		Technical:       classified.Technical.Sorted(),
		Soft:            classified.Soft,
		JobLevel:        string(level.Category),
		Steps:           filtering.Describe(steps),
	}, nil
}

func (e *Engine) steps(f query.Filters) []filtering.Filter {
	return []filtering.Filter{
		filtering.NewExcludedTitles(e.excluded, e.logger),
		filtering.NewDuration(f.DurationLimit, e.logger),
	}
}

// Limit is the maximum number of recommendations returned.
func (e *Engine) Limit() int { return e.limit }

// Catalog returns the catalog the engine ranks.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }
