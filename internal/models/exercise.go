package models

import "github.com/google/uuid"

// Default targets for a freshly added cart item.
const (
	DefaultSets            = 3
	DefaultReps            = 10
	DefaultDurationMinutes = 20
)

// Exercise is a catalog entry. IDs are stable across restarts.
type Exercise struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	LocalName string    `json:"local_name"`
	BodyPart  BodyPart  `json:"body_part"`
	ImageName string    `json:"image_name,omitempty"`
}

// CartItem is one planned exercise in the live workout cart.
// Sets/Reps apply to non-cardio items, DurationMinutes to cardio items.
type CartItem struct {
	ID              uuid.UUID `json:"id"`
	Exercise        Exercise  `json:"exercise"`
	Sets            int       `json:"sets"`
	Reps            int       `json:"reps"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
}

// NewCartItem returns an item with default targets for the exercise.
func NewCartItem(ex Exercise) CartItem {
	item := CartItem{
		ID:       uuid.New(),
		Exercise: ex,
	}
	if ex.BodyPart.IsCardio() {
		item.DurationMinutes = DefaultDurationMinutes
	} else {
		item.Sets = DefaultSets
		item.Reps = DefaultReps
	}
	return item
}
