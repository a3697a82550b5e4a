// Package skills splits requested skills into technical and soft skills,
// expands technical skills with broader related terms and infers implicit
// skills from assessment titles.
package skills

import (
	"sort"
	"strings"

	"github.com/spigell/assessment-recommender/internal/heuristics"
)

// Set is an unordered collection of technical skills.
type Set map[string]struct{}

// Add inserts skill into the set.
func (s Set) Add(skill string) { s[skill] = struct{}{} }

// Has reports whether skill is in the set.
func (s Set) Has(skill string) bool {
	_, ok := s[skill]
	return ok
}

// Sorted returns the skills in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for skill := range s {
		out = append(out, skill)
	}
	sort.Strings(out)
	return out
}

// Classified is the result of Classify.
type Classified struct {
	// Technical holds the requested technical skills plus their supersets.
	Technical Set
	// Soft holds the requested soft skills in input order, duplicates kept.
	Soft []string
}

// All returns technical skills (sorted) followed by soft skills.
func (c Classified) All() []string {
	return append(c.Technical.Sorted(), c.Soft...)
}

// Empty reports whether no skill of either kind was requested.
func (c Classified) Empty() bool {
	return len(c.Technical) == 0 && len(c.Soft) == 0
}

// Classify routes each requested skill to soft or technical and expands the
// technical ones via the superset table. A skill is soft when any soft phrase
// is contained in it. A technical skill is expanded by every superset key it
// contains or is contained in.
func Classify(requested []string, maps *heuristics.Maps) Classified {
	result := Classified{Technical: make(Set)}

	for _, skill := range requested {
		if strings.TrimSpace(skill) == "" {
			continue
		}
		lower := strings.ToLower(skill)

		if isSoft(lower, maps.SoftSkills) {
			result.Soft = append(result.Soft, skill)
			continue
		}

		result.Technical.Add(skill)
		for _, key := range maps.SupersetKeys() {
			if strings.Contains(key, lower) || strings.Contains(lower, key) {
				for _, superset := range maps.Supersets[key] {
					result.Technical.Add(superset)
				}
			}
		}
	}

	return result
}

func isSoft(lower string, softSkills []string) bool {
	for _, soft := range softSkills {
		if strings.Contains(lower, soft) {
			return true
		}
	}
	return false
}

// InferFromRole returns the skills implied by role names found in title.
// Overlapping roles such as "research" and "research engineer" both
// contribute, so repeats are expected.
func InferFromRole(title string, maps *heuristics.Maps) []string {
	lower := strings.ToLower(title)

	var inferred []string
	for _, role := range maps.RoleSkillKeys() {
		if strings.Contains(lower, role) {
			inferred = append(inferred, maps.RoleSkills[role]...)
		}
	}
	return inferred
}
