package scoring

import "github.com/spigell/assessment-recommender/internal/catalog"

// Candidate is a catalog record together with its per-request scores.
type Candidate struct {
	Record catalog.Record

	TechnicalScore int
	TitleRelevance int
	InferredScore  int
	SoftSkillScore int
	JobLevelScore  int
	DurationMatch  int

	// Score is the weighted composite used as the primary sort key.
	Score float64
	// DescriptionMatchScore is the skill density of the description, used to
	// break ties.
	DescriptionMatchScore float64
}

// AddDurationMatch records the duration bonus and folds it into Score.
func (c *Candidate) AddDurationMatch(points int) {
	c.DurationMatch = points
	c.Score += float64(points)
}

// Candidates is the working set of one request.
type Candidates struct {
	Items []*Candidate
}

func (c *Candidates) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Items)
}

// Titles returns the record titles in current order.
func (c *Candidates) Titles() []string {
	titles := make([]string, 0, c.Len())
	for _, item := range c.Items {
		titles = append(titles, item.Record.Title)
	}
	return titles
}

// Keep retains the candidates for which keep returns true, preserving order,
// and returns the titles of the removed ones.
func (c *Candidates) Keep(keep func(*Candidate) bool) []string {
	var removed []string
	kept := c.Items[:0:0]
	for _, item := range c.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		removed = append(removed, item.Record.Title)
	}
	c.Items = kept
	return removed
}
