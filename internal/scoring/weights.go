package scoring

import "fmt"

// Weights are the multipliers of the skill-derived partial scores. Job-level
// and duration points are added unweighted.
type Weights struct {
	Technical      float64 `mapstructure:"technical" json:"technical"`
	TitleRelevance float64 `mapstructure:"title-relevance" json:"title_relevance"`
	Inferred       float64 `mapstructure:"inferred" json:"inferred"`
	SoftSkill      float64 `mapstructure:"soft-skill" json:"soft_skill"`
}

// DefaultWeights encode technical match > title relevance > inferred and
// soft skills.
func DefaultWeights() Weights {
	return Weights{
		Technical:      10,
		TitleRelevance: 4,
		Inferred:       2,
		SoftSkill:      2,
	}
}

// Validate rejects negative weights.
func (w Weights) Validate() error {
	for name, value := range map[string]float64{
		"technical":       w.Technical,
		"title-relevance": w.TitleRelevance,
		"inferred":        w.Inferred,
		"soft-skill":      w.SoftSkill,
	} {
		if value < 0 {
			return fmt.Errorf("weight %s must not be negative, got %v", name, value)
		}
	}
	return nil
}

// IsZero reports whether no weight is set, which callers treat as "use
// defaults".
func (w Weights) IsZero() bool {
	return w == Weights{}
}

func (w Weights) composite(c *Candidate) float64 {
	return float64(c.TechnicalScore)*w.Technical +
		float64(c.TitleRelevance)*w.TitleRelevance +
		float64(c.InferredScore)*w.Inferred +
		float64(c.SoftSkillScore)*w.SoftSkill
}
