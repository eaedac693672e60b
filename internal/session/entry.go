package session

import (
	"encoding/json"
	"fmt"

	"github.com/meltforce/fitcart/internal/models"
)

// Target is the completion target of an entry: either SetTarget or CardioTarget.
type Target interface {
	isTarget()
}

// SetTarget is the target of a non-cardio entry. Reps is informational only.
type SetTarget struct {
	Sets int
	Reps int
}

// CardioTarget is the target of a cardio entry. It is satisfied by a single
// explicit completion, not by elapsed time.
type CardioTarget struct {
	DurationMinutes int
}

func (SetTarget) isTarget()    {}
func (CardioTarget) isTarget() {}

// Entry is one exercise in a session snapshot.
type Entry struct {
	ID       string
	Name     string
	Category models.BodyPart
	Target   Target
}

// NewEntry builds an entry whose target kind follows the category. Negative
// values are clamped to zero.
func NewEntry(id, name string, category models.BodyPart, sets, reps, minutes int) Entry {
	e := Entry{ID: id, Name: name, Category: category}
	if category.IsCardio() {
		e.Target = CardioTarget{DurationMinutes: max(0, minutes)}
	} else {
		e.Target = SetTarget{Sets: max(0, sets), Reps: max(0, reps)}
	}
	return e
}

// IsCardio reports whether the entry is completed by a one-shot mark.
func (e Entry) IsCardio() bool {
	_, ok := e.Target.(CardioTarget)
	return ok
}

// TargetSets returns the set target, or 0 for cardio entries.
func (e Entry) TargetSets() int {
	if t, ok := e.Target.(SetTarget); ok {
		return t.Sets
	}
	return 0
}

type entryJSON struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Category        models.BodyPart `json:"category"`
	Sets            *int            `json:"sets,omitempty"`
	Reps            *int            `json:"reps,omitempty"`
	DurationMinutes *int            `json:"duration_minutes,omitempty"`
}

// MarshalJSON flattens the target into sets/reps or duration_minutes.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := entryJSON{ID: e.ID, Name: e.Name, Category: e.Category}
	switch t := e.Target.(type) {
	case SetTarget:
		out.Sets, out.Reps = &t.Sets, &t.Reps
	case CardioTarget:
		out.DurationMinutes = &t.DurationMinutes
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the target from the category.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if !in.Category.Valid() {
		return fmt.Errorf("entry %s: unknown category %q", in.ID, in.Category)
	}
	*e = NewEntry(in.ID, in.Name, in.Category, deref(in.Sets), deref(in.Reps), deref(in.DurationMinutes))
	return nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
