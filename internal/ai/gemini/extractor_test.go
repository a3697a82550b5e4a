package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string {
	return "stub-model"
}

func TestExtractorExtract(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"skills\": [\"Python\", \"SQL\"], \"job_level\": \"Mid\", \"duration_limit\": 45}\n```"}
	extractor := NewExtractor(stub, zap.NewNop(), 0)

	got, err := extractor.Extract(context.Background(), "Python and SQL developer, mid level, under 45 minutes")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Join(got.Filters.Skills, ",") != "python,sql" {
		t.Fatalf("expected lowercased skills, got %v", got.Filters.Skills)
	}
	if got.Filters.JobLevelValue() != "mid" {
		t.Fatalf("expected lowercased job level, got %q", got.Filters.JobLevelValue())
	}
	if got.Filters.DurationLimit == nil || *got.Filters.DurationLimit != 45 {
		t.Fatalf("expected duration limit 45, got %v", got.Filters.DurationLimit)
	}
	if len(got.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", got.Issues)
	}
	if got.Raw != stub.response {
		t.Fatalf("expected raw response to be kept")
	}

	if !strings.Contains(stub.lastPrompt, `Query: "Python and SQL developer, mid level, under 45 minutes"`) {
		t.Fatalf("expected query in prompt, got %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, queryPlaceholder) {
		t.Fatalf("expected placeholder to be replaced")
	}
}

func TestExtractorFallsBackOnGarbage(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	stub := &stubGenerator{response: "Sorry, I cannot help with that."}
	extractor := NewExtractor(stub, zap.New(core), 0)

	got, err := extractor.Extract(context.Background(), "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got.Filters.Skills) != 0 || got.Filters.JobLevel != nil || got.Filters.DurationLimit != nil {
		t.Fatalf("expected empty filters, got %+v", got.Filters)
	}
	if len(got.Issues) != 1 || got.Issues[0].Field != "response" {
		t.Fatalf("expected response issue, got %v", got.Issues)
	}

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["ai_model"] != "stub-model" {
		t.Fatalf("expected common fields on logger, got %v", entries[0].ContextMap())
	}
}

func TestExtractorPropagatesTransportErrors(t *testing.T) {
	boom := errors.New("boom")
	extractor := NewExtractor(&stubGenerator{err: boom}, zap.NewNop(), 0)

	if _, err := extractor.Extract(context.Background(), "query"); !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}

	if _, err := extractor.Extract(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for empty query")
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		skills    string
		level     string
		duration  float64
		hasLimit  bool
		issues    int
		expectErr bool
	}{
		{
			name:     "plain json",
			raw:      `{"skills": ["Java"], "job_level": null, "duration_limit": "30"}`,
			skills:   "java",
			duration: 30,
			hasLimit: true,
		},
		{
			name:   "fenced without language",
			raw:    "Here you go:\n```\n{\"skills\": [], \"job_level\": \"Research Engineer\"}\n```",
			level:  "research engineer",
			skills: "",
		},
		{
			name:   "malformed duration is an issue",
			raw:    `{"skills": ["Go"], "duration_limit": "one hour"}`,
			skills: "go",
			issues: 1,
		},
		{
			name:      "not json",
			raw:       "no filters here",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			filters, issues, err := ParseResponse(tt.raw)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := strings.Join(filters.Skills, ","); got != tt.skills {
				t.Fatalf("expected skills %q, got %q", tt.skills, got)
			}
			if got := filters.JobLevelValue(); got != tt.level {
				t.Fatalf("expected job level %q, got %q", tt.level, got)
			}
			if tt.hasLimit != (filters.DurationLimit != nil) {
				t.Fatalf("unexpected duration limit presence: %v", filters.DurationLimit)
			}
			if tt.hasLimit && *filters.DurationLimit != tt.duration {
				t.Fatalf("expected duration %v, got %v", tt.duration, *filters.DurationLimit)
			}
			if len(issues) != tt.issues {
				t.Fatalf("expected %d issues, got %v", tt.issues, issues)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	prompt := BuildPrompt("  java developers  ")
	if !strings.Contains(prompt, `Query: "java developers"`) {
		t.Fatalf("unexpected prompt: %s", prompt)
	}
	if !strings.Contains(prompt, `"duration_limit"`) {
		t.Fatalf("expected field list in prompt")
	}
}
