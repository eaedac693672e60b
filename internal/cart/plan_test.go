package cart

import (
	"os"
	"path/filepath"
	"testing"
)

const pushDay = `
name: push day
entries:
  - exercise: Flat Bench Press
    sets: 4
    reps: 8
  - exercise: 側平舉
  - exercise: treadmill
    duration_minutes: 15
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoadPlanFillsCart verifies plan targets override defaults in order.
func TestLoadPlanFillsCart(t *testing.T) {
	p, err := LoadPlan(writePlan(t, pushDay))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := New()
	if err := p.Fill(c); err != nil {
		t.Fatalf("fill: %v", err)
	}

	items := c.Items()
	if len(items) != 3 {
		t.Fatalf("items = %d, want 3", len(items))
	}
	if items[0].Sets != 4 || items[0].Reps != 8 {
		t.Errorf("bench = %d x %d, want 4 x 8", items[0].Sets, items[0].Reps)
	}
	if items[1].Exercise.Name != "Lateral Raise" || items[1].Sets != 3 {
		t.Errorf("lateral raise = %+v", items[1])
	}
	if items[2].DurationMinutes != 15 {
		t.Errorf("treadmill duration = %d, want 15", items[2].DurationMinutes)
	}
}

// TestLoadPlanUnknownExercise verifies unknown names fail the fill.
func TestLoadPlanUnknownExercise(t *testing.T) {
	p, err := LoadPlan(writePlan(t, "entries:\n  - exercise: Deadlift\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Fill(New()); err == nil {
		t.Fatal("expected error for unknown exercise")
	}
}

// TestLoadPlanEmpty verifies a plan without entries is rejected.
func TestLoadPlanEmpty(t *testing.T) {
	if _, err := LoadPlan(writePlan(t, "name: rest day\n")); err == nil {
		t.Fatal("expected error for empty plan")
	}
}
