// Package query defines the structured filter object produced by the
// extraction step and decodes it from loosely typed input.
package query

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	FieldSkills        = "skills"
	FieldJobLevel      = "job_level"
	FieldDurationLimit = "duration_limit"
)

// Filters is the sole input of the recommendation pipeline.
type Filters struct {
	Skills        []string `json:"skills"`
	JobLevel      *string  `json:"job_level"`
	DurationLimit *float64 `json:"duration_limit"`
}

// Issue records a filter value that was present but unusable and therefore
// ignored.
type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Reason)
}

// raw mirrors the wire shape before coercion.
type raw struct {
	Skills        any `mapstructure:"skills"`
	JobLevel      any `mapstructure:"job_level"`
	DurationLimit any `mapstructure:"duration_limit"`
}

// Decode converts a loosely typed filter object into Filters. It never fails:
// values of the wrong shape are dropped and reported as issues.
func Decode(input map[string]any) (Filters, []Issue) {
	var (
		r      raw
		issues []Issue
	)

	if err := mapstructure.Decode(input, &r); err != nil {
		// cannot happen for map input into interface fields
		return Filters{}, []Issue{{Field: "filters", Reason: err.Error()}}
	}

	skills, err := decodeSkills(r.Skills)
	if err != nil {
		issues = append(issues, Issue{Field: FieldSkills, Reason: err.Error()})
	}

	jobLevel, err := decodeJobLevel(r.JobLevel)
	if err != nil {
		issues = append(issues, Issue{Field: FieldJobLevel, Reason: err.Error()})
	}

	limit, err := decodeDuration(r.DurationLimit)
	if err != nil {
		issues = append(issues, Issue{Field: FieldDurationLimit, Reason: err.Error()})
	}

	return Filters{Skills: skills, JobLevel: jobLevel, DurationLimit: limit}, issues
}

// DecodeJSON decodes a JSON filter object. Only invalid JSON is an error.
func DecodeJSON(data []byte) (Filters, []Issue, error) {
	var input map[string]any
	if err := json.Unmarshal(data, &input); err != nil {
		return Filters{}, nil, fmt.Errorf("decoding filters: %w", err)
	}
	f, issues := Decode(input)
	return f, issues, nil
}

// FromValues builds Filters from command line style values. Empty strings
// mean "not set".
func FromValues(skills []string, jobLevel, durationLimit string) (Filters, []Issue) {
	input := map[string]any{FieldSkills: skills}
	if strings.TrimSpace(jobLevel) != "" {
		input[FieldJobLevel] = jobLevel
	}
	if strings.TrimSpace(durationLimit) != "" {
		input[FieldDurationLimit] = durationLimit
	}
	return Decode(input)
}

// HasSkills reports whether any skill was requested.
func (f Filters) HasSkills() bool { return len(f.Skills) > 0 }

// JobLevelValue returns the requested job level or "".
func (f Filters) JobLevelValue() string {
	if f.JobLevel == nil {
		return ""
	}
	return *f.JobLevel
}

func decodeSkills(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}

	var skills []string
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &skills,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("expected a list of strings: %w", err)
	}

	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		out = append(out, skill)
	}
	return out, nil
}

func decodeJobLevel(v any) (*string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return nil, nil
		}
		return &val, nil
	default:
		return nil, fmt.Errorf("expected a string, got %T", v)
	}
}

func decodeDuration(v any) (*float64, error) {
	var limit float64
	switch val := v.(type) {
	case nil:
		return nil, nil
	case float64:
		limit = val
	case float32:
		limit = float64(val)
	case int:
		limit = float64(val)
	case int64:
		limit = float64(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", val.String())
		}
		limit = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", val)
		}
		limit = f
	default:
		return nil, fmt.Errorf("expected a number, got %T", v)
	}

	if math.IsNaN(limit) || math.IsInf(limit, 0) {
		return nil, fmt.Errorf("not a finite number: %v", limit)
	}

	return &limit, nil
}
