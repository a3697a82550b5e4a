package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/spigell/assessment-recommender/internal/recommend"
)

func TestGetConfig(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:   "valid",
			values: map[string]any{"catalog.path": "catalog.csv", "catalog.encoding": "utf8", "recommend.limit": 5},
		},
		{
			name:    "missing catalog path",
			values:  map[string]any{"recommend.limit": 5},
			wantErr: "Path",
		},
		{
			name:    "unknown encoding",
			values:  map[string]any{"catalog.path": "catalog.csv", "catalog.encoding": "cp1252"},
			wantErr: "Encoding",
		},
		{
			name:    "limit above maximum",
			values:  map[string]any{"catalog.path": "catalog.csv", "recommend.limit": 11},
			wantErr: "Limit",
		},
		{
			name:    "negative weight",
			values:  map[string]any{"catalog.path": "catalog.csv", "scoring.weights.technical": -1},
			wantErr: "technical",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			for key, value := range tt.values {
				viper.Set(key, value)
			}

			config, err := getConfig()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if config.Catalog.Path != "catalog.csv" || config.Recommend.Limit != 5 {
				t.Fatalf("unexpected config: %+v", config)
			}
		})
	}
}

func TestRedactedHidesAPIKey(t *testing.T) {
	t.Parallel()

	config := &Config{AI: AIConfig{Gemini: GeminiConfig{APIKey: "secret", Model: "m"}}}

	got := redacted(config)
	if got.AI.Gemini.APIKey != "***" {
		t.Fatalf("expected redacted key, got %q", got.AI.Gemini.APIKey)
	}
	if config.AI.Gemini.APIKey != "secret" {
		t.Fatal("original config must not be modified")
	}
}

func TestPrintResultText(t *testing.T) {
	t.Parallel()

	result := &recommend.Result{Recommendations: []recommend.Recommendation{
		{Title: "Python (New)", Score: 21, AssessmentLength: 11, TestType: "K"},
		{Title: "Java 8", Score: 8, AssessmentLength: 30, TestType: "K"},
	}}

	var buf bytes.Buffer
	if err := printResult(&buf, result, outputText); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := " 1. Python (New) (score 21, 11 min, K)\n 2. Java 8 (score 8, 30 min, K)\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
