package filtering

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/scoring"
)

type excludedTitlesFilter struct {
	titles map[string]struct{}
	logger *zap.Logger
}

// NewExcludedTitles creates a filter that removes assessments whose title is
// in the configured list. Titles are compared case-insensitively after
// trimming.
func NewExcludedTitles(titles []string, logger *zap.Logger) Filter {
	if logger == nil {
		logger = zap.NewNop()
	}

	set := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		key := titleKey(title)
		if key == "" {
			continue
		}
		set[key] = struct{}{}
	}

	return &excludedTitlesFilter{titles: set, logger: logger}
}

func (f *excludedTitlesFilter) Name() string { return "excluded_titles" }

func (f *excludedTitlesFilter) Disable(string) {}

func (f *excludedTitlesFilter) IsEnabled() bool { return true }

func (f *excludedTitlesFilter) Validate() error { return nil }

func (f *excludedTitlesFilter) Apply(_ context.Context, v *scoring.Candidates) (*scoring.Candidates, Step, error) {
	initial := v.Len()
	if len(f.titles) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded := v.Keep(func(c *scoring.Candidate) bool {
		_, found := f.titles[titleKey(c.Record.Title)]
		return !found
	})
	if len(excluded) > 0 {
		f.logger.Info("excluding assessments by title",
			zap.Strings("excluded_assessments", excluded),
			zap.Int("assessments_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *excludedTitlesFilter) Status() Status {
	details := map[string]string{}
	if len(f.titles) > 0 {
		titles := make([]string, 0, len(f.titles))
		for title := range f.titles {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		details["titles"] = strings.Join(titles, ",")
	}
	return Status{Name: f.Name(), Enabled: true, Details: details}
}

// LoadExcludedTitles reads one title per line from path. Blank lines and
// lines starting with '#' are skipped. An empty path yields no titles.
func LoadExcludedTitles(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclude file: %w", err)
	}
	defer file.Close()

	var titles []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclude file %q: %w", path, err)
	}

	return titles, nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
