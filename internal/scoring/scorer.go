// Package scoring computes the partial and composite relevance scores of
// catalog records for one request.
package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spigell/assessment-recommender/internal/catalog"
	"github.com/spigell/assessment-recommender/internal/heuristics"
	"github.com/spigell/assessment-recommender/internal/joblevel"
	"github.com/spigell/assessment-recommender/internal/skills"
	"github.com/spigell/assessment-recommender/internal/tokens"
)

const (
	titleOccurrencePoints   = 2
	jobLevelTermPoints      = 2
	jobLevelRolePoints      = 3
	jobLevelTokenPoints     = 2
	minJobLevelTokenLength  = 3
	descriptionDensityScale = 100
)

// Scorer holds everything derived from one request that is shared across
// records. It is built per request and never shared between requests.
type Scorer struct {
	maps    *heuristics.Maps
	weights Weights

	technical []string
	patterns  []*regexp.Regexp
	soft      []string
	all       []string

	level         joblevel.Resolution
	levelTerms    []string
	levelRoles    []string
	levelTokens   []string
	scoreJobLevel bool
}

// NewScorer prepares a scorer for the classified skills and resolved level.
func NewScorer(maps *heuristics.Maps, weights Weights, classified skills.Classified, level joblevel.Resolution) *Scorer {
	s := &Scorer{
		maps:    maps,
		weights: weights,
		level:   level,
	}

	for _, skill := range classified.Technical.Sorted() {
		lower := strings.ToLower(skill)
		s.technical = append(s.technical, lower)
		s.patterns = append(s.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(lower)+`\b`))
	}
	for _, skill := range classified.Soft {
		s.soft = append(s.soft, strings.ToLower(skill))
	}
	s.all = append(append(s.all, s.technical...), s.soft...)

	switch {
	case level.Matched():
		s.scoreJobLevel = true
		s.levelTerms = maps.Terms(string(level.Category))
		s.levelRoles = maps.RolesForCategory(string(level.Category))
	case level.Requested:
		s.scoreJobLevel = true
		for token := range tokens.Tokenize(level.Raw) {
			if utf8.RuneCountInString(token) >= minJobLevelTokenLength {
				s.levelTokens = append(s.levelTokens, token)
			}
		}
	}

	return s
}

// Score computes every partial score of record except the duration bonus.
func (s *Scorer) Score(record catalog.Record) *Candidate {
	c := &Candidate{Record: record}

	title := strings.ToLower(record.Title)
	description := strings.ToLower(record.Description)
	text := title + " " + description

	if len(s.technical) > 0 {
		c.TechnicalScore = s.technicalScore(text)
		c.TitleRelevance = s.titleRelevance(title)
		c.InferredScore = s.inferredScore(record.Title)
	}
	if len(s.soft) > 0 {
		c.SoftSkillScore = s.softSkillScore(text)
	}
	if s.scoreJobLevel {
		c.JobLevelScore = s.jobLevelScore(title, strings.ToLower(record.JobLevels))
	}

	c.Score = s.weights.composite(c) + float64(c.JobLevelScore)
	c.DescriptionMatchScore = s.descriptionDensity(record.Description, description)

	return c
}

// ScoreAll scores records in order.
func (s *Scorer) ScoreAll(records []catalog.Record) *Candidates {
	out := &Candidates{Items: make([]*Candidate, 0, len(records))}
	for _, record := range records {
		out.Items = append(out.Items, s.Score(record))
	}
	return out
}

// technicalScore counts skills occurring as whole words, once per skill.
func (s *Scorer) technicalScore(text string) int {
	score := 0
	for _, pattern := range s.patterns {
		if pattern.MatchString(text) {
			score++
		}
	}
	return score
}

// titleRelevance counts every occurrence of every skill in the title.
func (s *Scorer) titleRelevance(title string) int {
	score := 0
	for _, skill := range s.technical {
		score += strings.Count(title, skill) * titleOccurrencePoints
	}
	return score
}

func (s *Scorer) inferredScore(title string) int {
	score := 0
	for _, inferred := range skills.InferFromRole(title, s.maps) {
		if !s.overlapsTechnical(inferred) {
			score++
		}
	}
	return score
}

func (s *Scorer) overlapsTechnical(skill string) bool {
	for _, tech := range s.technical {
		if strings.Contains(skill, tech) || strings.Contains(tech, skill) {
			return true
		}
	}
	return false
}

func (s *Scorer) softSkillScore(text string) int {
	score := 0
	for _, soft := range s.soft {
		if strings.Contains(text, soft) {
			score++
		}
	}
	return score
}

func (s *Scorer) jobLevelScore(title, levels string) int {
	score := 0

	if s.level.Matched() {
		for _, term := range s.levelTerms {
			if strings.Contains(levels, term) {
				score += jobLevelTermPoints
				break
			}
		}
		for _, role := range s.levelRoles {
			if strings.Contains(title, role) {
				score += jobLevelRolePoints
			}
		}
		return score
	}

	for _, token := range s.levelTokens {
		if strings.Contains(title, token) || strings.Contains(levels, token) {
			score += jobLevelTokenPoints
		}
	}
	return score
}

// descriptionDensity is the number of skill occurrences in the description
// per character, scaled by 100.
func (s *Scorer) descriptionDensity(original, lower string) float64 {
	if len(s.all) == 0 {
		return 0
	}

	occurrences := 0
	for _, skill := range s.all {
		occurrences += strings.Count(lower, skill)
	}

	return float64(occurrences) / float64(utf8.RuneCountInString(original)+1) * descriptionDensityScale
}
