package filtering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/assessment-recommender/internal/scoring"
)

type failingFilter struct {
	validateErr error
	applyErr    error
}

func (f *failingFilter) Name() string { return "failing" }
func (f *failingFilter) Disable(string) {}
func (f *failingFilter) IsEnabled() bool { return true }
func (f *failingFilter) Validate() error { return f.validateErr }
func (f *failingFilter) Apply(_ context.Context, v *scoring.Candidates) (*scoring.Candidates, Step, error) {
	return v, Step{}, f.applyErr
}

func TestRun(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.DebugLevel)
	steps := []Filter{
		NewExcludedTitles([]string{" B "}, nil),
		NewDuration(nil, nil),
		NewDuration(floatPtr(100), nil),
	}

	v, err := Run(context.Background(), zap.New(core), steps, candidates(10, 20, 30, 40))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := []string{"a", "c", "d"}; !reflect.DeepEqual(v.Titles(), want) {
		t.Fatalf("expected %v, got %v", want, v.Titles())
	}

	if n := observed.FilterMessage("filter step").Len(); n != 2 {
		t.Fatalf("expected 2 executed steps to be logged, got %d", n)
	}
	if n := observed.FilterMessage("filter disabled").Len(); n != 1 {
		t.Fatalf("expected 1 disabled step to be logged, got %d", n)
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")

	_, err := Run(context.Background(), nil, []Filter{&failingFilter{validateErr: boom}}, candidates(1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected validation error, got %v", err)
	}

	_, err = Run(context.Background(), nil, []Filter{&failingFilter{applyErr: boom}}, candidates(1))
	if !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewExcludedTitles([]string{"Zeta", "alpha"}, nil), &failingFilter{}}
	DisableByName(steps, "duration", "not present")

	statuses := Describe(steps)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0].Details["titles"] != "alpha,zeta" {
		t.Fatalf("unexpected titles detail: %q", statuses[0].Details["titles"])
	}
	if statuses[1].Name != "failing" || !statuses[1].Enabled {
		t.Fatalf("unexpected fallback status: %+v", statuses[1])
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	steps := []Filter{NewDuration(floatPtr(30), nil)}
	DisableByName(steps, "duration", "malformed")
	if steps[0].IsEnabled() {
		t.Fatalf("expected duration step to be disabled")
	}
}

func TestExcludedTitles(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	f := NewExcludedTitles([]string{"A", "", "c"}, zap.New(core))

	v, step, err := f.Apply(context.Background(), candidates(1, 2, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"b"}; !reflect.DeepEqual(v.Titles(), want) {
		t.Fatalf("expected %v, got %v", want, v.Titles())
	}
	if step != (Step{Initial: 3, Dropped: 2, Left: 1}) {
		t.Fatalf("unexpected step: %+v", step)
	}

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["assessments_left"] != int64(1) {
		t.Fatalf("unexpected log context: %v", entries[0].ContextMap())
	}
}

func TestLoadExcludedTitles(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "exclude.txt")
	content := "# retired\nVerify - Numerical Ability\n\n  Java 2 Platform  \n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	titles, err := LoadExcludedTitles(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := []string{"Verify - Numerical Ability", "Java 2 Platform"}; !reflect.DeepEqual(titles, want) {
		t.Fatalf("expected %v, got %v", want, titles)
	}

	titles, err = LoadExcludedTitles("")
	if err != nil || titles != nil {
		t.Fatalf("expected no titles for empty path, got %v (%v)", titles, err)
	}

	if _, err := LoadExcludedTitles(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
