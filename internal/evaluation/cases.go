package evaluation

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

// DefaultCases are the built-in extraction benchmarks.
func DefaultCases() []Case {
	return []Case{
		{
			Query: "Looking for assessments on Python and ML, 45 mins max",
			Expected: Expected{
				Skills:        []string{"python", "machine learning"},
				DurationLimit: floatPtr(45),
			},
		},
		{
			Query: "Need something for a research engineer on generative AI and NLP",
			Expected: Expected{
				Skills:   []string{"ai", "nlp"},
				JobLevel: strPtr("research engineer"),
			},
		},
		{
			Query: "I am hiring for Java developers who can also collaborate effectively with my business teams. " +
				"Looking for an assessment(s) that can be completed in 40 minutes.",
			Expected: Expected{
				Skills:        []string{"java", "collaboration"},
				JobLevel:      strPtr("developer"),
				DurationLimit: floatPtr(40),
			},
		},
		{
			Query: "Looking to hire mid-level professionals who are proficient in Python, SQL and Java Script. " +
				"Need an assessment package that can test all skills with max duration of 60 minutes.",
			Expected: Expected{
				Skills:        []string{"python", "sql", "javascript"},
				JobLevel:      strPtr("mid"),
				DurationLimit: floatPtr(60),
			},
		},
		{
			Query: "Are you an AI enthusiast with visionary thinking to conceptualize AI-based products? " +
				"Are you looking to apply these skills in an environment where teamwork and collaboration are key " +
				"to developing our digital product experiences? We are seeking a Research Engineer to join our team " +
				"to deliver robust AI/ML models. You will closely work with the product team to spot opportunities " +
				"to use AI in the current product stack and influence the product roadmap by incorporating AI-led " +
				"features/products. Can you recommend some assessment that can help me screen applications? " +
				"Time limit is less than 30 minutes.",
			Expected: Expected{
				Skills:        []string{"ai", "ml", "collaboration"},
				JobLevel:      strPtr("research engineer"),
				DurationLimit: floatPtr(30),
			},
		},
		{
			Query: "I am hiring for an analyst and want applications to screen using Cognitive and personality tests, " +
				"what options are available within 45 mins",
			Expected: Expected{
				Skills:        []string{"cognitive", "personality"},
				JobLevel:      strPtr("analyst"),
				DurationLimit: floatPtr(45),
			},
		},
	}
}
