package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/ai"
	"github.com/spigell/assessment-recommender/internal/logger"
	"github.com/spigell/assessment-recommender/internal/query"
	"github.com/spigell/assessment-recommender/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
	queryPlaceholder    = "{{QUERY}}"
)

//go:embed prompt.md
var promptTemplate string

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Extractor reads hiring filters out of a natural-language query with Gemini.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Extractor = (*Extractor)(nil)

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger.WithCommonFields(log, providerName, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

// BuildPrompt renders the extraction prompt for q.
func BuildPrompt(q string) string {
	return strings.ReplaceAll(promptTemplate, queryPlaceholder, strings.TrimSpace(q))
}

func (e *Extractor) Extract(ctx context.Context, q string) (*ai.Extraction, error) {
	if strings.TrimSpace(q) == "" {
		return nil, errors.New("query must not be empty")
	}

	prompt := BuildPrompt(q)
	e.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	filters, issues, err := ParseResponse(raw)
	if err != nil {
		e.logger.Warn("unparseable gemini response; using empty filters",
			zap.Error(err),
			zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
		)
		return &ai.Extraction{
			Issues: []query.Issue{{Field: "response", Reason: err.Error()}},
			Raw:    raw,
		}, nil
	}

	return &ai.Extraction{Filters: filters, Issues: issues, Raw: raw}, nil
}

// ParseResponse decodes the model output into filters. Skills and job level
// are lowercased. Only output that is not a JSON object is an error.
func ParseResponse(raw string) (query.Filters, []query.Issue, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(extractJSON(raw))))
	decoder.UseNumber()

	var data map[string]any
	if err := decoder.Decode(&data); err != nil {
		return query.Filters{}, nil, err
	}

	if skills, ok := data[query.FieldSkills].([]any); ok {
		for i, skill := range skills {
			if s, ok := skill.(string); ok {
				skills[i] = strings.ToLower(s)
			}
		}
	}
	if level, ok := data[query.FieldJobLevel].(string); ok {
		data[query.FieldJobLevel] = strings.ToLower(level)
	}

	filters, issues := query.Decode(data)
	return filters, issues, nil
}

// extractJSON returns the content of the first fenced code block, or the
// whole trimmed text when there is none.
func extractJSON(raw string) string {
	if match := fencedJSON.FindStringSubmatch(raw); match != nil {
		return strings.TrimSpace(match[1])
	}
	return strings.Trim(strings.TrimSpace(raw), "`")
}
