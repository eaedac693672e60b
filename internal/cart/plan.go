package cart

import (
	"fmt"
	"os"

	"github.com/meltforce/fitcart/internal/catalog"
	"gopkg.in/yaml.v3"
)

// Plan is a saved workout: an ordered list of catalog exercises with targets.
type Plan struct {
	Name    string      `yaml:"name"`
	Entries []PlanEntry `yaml:"entries"`
}

// PlanEntry names a catalog exercise. Zero targets keep the defaults.
type PlanEntry struct {
	Exercise        string `yaml:"exercise"`
	Sets            int    `yaml:"sets"`
	Reps            int    `yaml:"reps"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

// LoadPlan reads a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	if len(p.Entries) == 0 {
		return nil, fmt.Errorf("plan %q has no entries", p.Name)
	}
	return &p, nil
}

// Fill adds every plan entry to c in order. Exercises already in the cart
// keep their current targets.
func (p *Plan) Fill(c *Cart) error {
	for i, e := range p.Entries {
		ex, ok := catalog.FindByName(e.Exercise)
		if !ok {
			return fmt.Errorf("entry %d: unknown exercise %q", i+1, e.Exercise)
		}
		item, added := c.Add(ex)
		if !added {
			continue
		}
		if ex.BodyPart.IsCardio() {
			if e.DurationMinutes > 0 {
				if _, err := c.UpdateDuration(item.ID, e.DurationMinutes); err != nil {
					return fmt.Errorf("entry %d: %w", i+1, err)
				}
			}
			continue
		}
		if e.Sets > 0 {
			if _, err := c.UpdateSets(item.ID, e.Sets); err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
		}
		if e.Reps > 0 {
			if _, err := c.UpdateReps(item.ID, e.Reps); err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
		}
	}
	return nil
}
