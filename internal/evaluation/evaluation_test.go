package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spigell/assessment-recommender/internal/ai"
	"github.com/spigell/assessment-recommender/internal/catalog"
	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/recommend"
)

func testEngine(t *testing.T) *recommend.Engine {
	t.Helper()
	engine, err := recommend.New(catalog.New([]catalog.Record{
		{Title: "Python (New)", Description: "Python programming", AssessmentLength: 11},
		{Title: "Java 8 (New)", Description: "Java knowledge", AssessmentLength: 18},
		{Title: "Verify - Numerical Ability", AssessmentLength: 20},
		{Title: "Occupational Personality Questionnaire", AssessmentLength: 25},
	}), recommend.Options{})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		expected Expected
		got      query.Filters
		want     Checks
	}{
		{
			name:     "all match with containment and tolerance",
			expected: Expected{Skills: []string{"ai", "ml"}, JobLevel: strPtr("research engineer"), DurationLimit: floatPtr(30)},
			got:      query.Filters{Skills: []string{"generative ai", "ML"}, JobLevel: strPtr("Senior Research Engineer"), DurationLimit: floatPtr(35)},
			want:     Checks{Skills: true, JobLevel: true, Duration: true},
		},
		{
			name:     "missing skill",
			expected: Expected{Skills: []string{"java", "collaboration"}},
			got:      query.Filters{Skills: []string{"java"}},
			want:     Checks{Skills: false, JobLevel: true, Duration: true},
		},
		{
			name:     "missing job level and duration out of tolerance",
			expected: Expected{JobLevel: strPtr("analyst"), DurationLimit: floatPtr(45)},
			got:      query.Filters{DurationLimit: floatPtr(51)},
			want:     Checks{Skills: true, JobLevel: false, Duration: false},
		},
		{
			name:     "missing duration",
			expected: Expected{DurationLimit: floatPtr(45)},
			got:      query.Filters{},
			want:     Checks{Skills: true, JobLevel: true, Duration: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Check(tt.expected, tt.got); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestRunnerRun(t *testing.T) {
	t.Parallel()

	cases := []Case{
		{Query: "python please", Expected: Expected{Skills: []string{"python"}, DurationLimit: floatPtr(15)}},
		{Query: "java please", Expected: Expected{Skills: []string{"java"}, JobLevel: strPtr("developer")}},
		{Query: "broken", Expected: Expected{}},
	}

	var calls atomic.Int32
	extractor := ai.ExtractorFunc(func(_ context.Context, q string) (*ai.Extraction, error) {
		calls.Add(1)
		switch q {
		case "python please":
			return &ai.Extraction{Filters: query.Filters{Skills: []string{"python"}, DurationLimit: floatPtr(12)}}, nil
		case "java please":
			return &ai.Extraction{Filters: query.Filters{Skills: []string{"java"}}}, nil
		default:
			return nil, errors.New("model unavailable")
		}
	})

	runner := NewRunner(extractor, testEngine(t), 2, nil)
	runner.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	report, err := runner.Run(context.Background(), cases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls.Load() != 3 {
		t.Fatalf("expected 3 extractions, got %d", calls.Load())
	}
	if report.Total != 3 || report.Passed != 1 {
		t.Fatalf("expected 1/3 passed, got %d/%d", report.Passed, report.Total)
	}

	first := report.Results[0]
	if !first.Passed || first.Query != "python please" {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if len(first.TopRecommendations) != 3 || first.TopRecommendations[0] != "Python (New)" {
		t.Fatalf("unexpected top recommendations: %v", first.TopRecommendations)
	}

	second := report.Results[1]
	if second.Passed || second.Checks.JobLevel {
		t.Fatalf("expected job level check to fail: %+v", second)
	}

	third := report.Results[2]
	if third.Passed || third.Error != "model unavailable" {
		t.Fatalf("expected extraction failure to be recorded: %+v", third)
	}
}

func TestRunnerCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	extractor := ai.ExtractorFunc(func(ctx context.Context, _ string) (*ai.Extraction, error) {
		cancel()
		return nil, ctx.Err()
	})

	runner := NewRunner(extractor, testEngine(t), 1, nil)
	if _, err := runner.Run(ctx, DefaultCases()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestReportWriteFile(t *testing.T) {
	t.Parallel()

	report := &Report{Passed: 1, Total: 1, Results: []CaseResult{{Query: "q", Passed: true, TopRecommendations: []string{"a"}}}}
	path := filepath.Join(t.TempDir(), "eval_results.json")

	if err := report.WriteFile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	results := decoded["results"].([]any)
	checks := results[0].(map[string]any)["checks"].(map[string]any)
	if _, ok := checks["skills_pass"]; !ok {
		t.Fatalf("expected checks to be serialised, got %v", checks)
	}
}

func TestDefaultCases(t *testing.T) {
	t.Parallel()

	cases := DefaultCases()
	if len(cases) != 6 {
		t.Fatalf("expected 6 built-in cases, got %d", len(cases))
	}
	for _, c := range cases {
		if c.Query == "" || len(c.Expected.Skills) == 0 {
			t.Fatalf("incomplete case: %+v", c)
		}
	}
}
