// Package cart is the live, editable list of planned exercises.
package cart

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/session"
)

var (
	ErrNotFound  = errors.New("cart item not found")
	ErrWrongKind = errors.New("field does not apply to this exercise")
)

// Editing limits, matching the app's steppers.
const (
	MaxSets            = 20
	MaxReps            = 100
	MaxDurationMinutes = 180
)

// Cart is safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add appends the exercise with default targets. If the exercise is already
// in the cart the existing item is returned with false.
func (c *Cart) Add(ex models.Exercise) (models.CartItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, it := range c.items {
		if it.Exercise.ID == ex.ID {
			return it, false
		}
	}
	item := models.NewCartItem(ex)
	c.items = append(c.items, item)
	return item, true
}

// Items returns a copy of the cart contents in order.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CartItem{}, c.items...)
}

// Len returns the number of items.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Get returns one item by ID.
func (c *Cart) Get(id uuid.UUID) (models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return models.CartItem{}, ErrNotFound
	}
	return c.items[i], nil
}

// Remove deletes an item.
func (c *Cart) Remove(id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return ErrNotFound
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// ToggleCompleted flips the completed flag shown in the cart list.
func (c *Cart) ToggleCompleted(id uuid.UUID) (models.CartItem, error) {
	return c.update(id, func(it *models.CartItem) error {
		it.Completed = !it.Completed
		return nil
	})
}

// UpdateSets sets the set target, clamped to [0, MaxSets].
func (c *Cart) UpdateSets(id uuid.UUID, sets int) (models.CartItem, error) {
	return c.update(id, func(it *models.CartItem) error {
		if it.Exercise.BodyPart.IsCardio() {
			return ErrWrongKind
		}
		it.Sets = clamp(sets, MaxSets)
		return nil
	})
}

// UpdateReps sets the repetition target, clamped to [0, MaxReps].
func (c *Cart) UpdateReps(id uuid.UUID, reps int) (models.CartItem, error) {
	return c.update(id, func(it *models.CartItem) error {
		if it.Exercise.BodyPart.IsCardio() {
			return ErrWrongKind
		}
		it.Reps = clamp(reps, MaxReps)
		return nil
	})
}

// UpdateDuration sets the cardio duration, clamped to [0, MaxDurationMinutes].
func (c *Cart) UpdateDuration(id uuid.UUID, minutes int) (models.CartItem, error) {
	return c.update(id, func(it *models.CartItem) error {
		if !it.Exercise.BodyPart.IsCardio() {
			return ErrWrongKind
		}
		it.DurationMinutes = clamp(minutes, MaxDurationMinutes)
		return nil
	})
}

// Update is a partial edit of an item's targets. Nil fields are left alone.
type Update struct {
	Sets            *int `json:"sets,omitempty"`
	Reps            *int `json:"reps,omitempty"`
	DurationMinutes *int `json:"duration_minutes,omitempty"`
}

// Apply edits several targets at once. Either every field applies or none
// does.
func (c *Cart) Apply(id uuid.UUID, u Update) (models.CartItem, error) {
	return c.update(id, func(it *models.CartItem) error {
		cardio := it.Exercise.BodyPart.IsCardio()
		if cardio && (u.Sets != nil || u.Reps != nil) || !cardio && u.DurationMinutes != nil {
			return ErrWrongKind
		}
		if u.Sets != nil {
			it.Sets = clamp(*u.Sets, MaxSets)
		}
		if u.Reps != nil {
			it.Reps = clamp(*u.Reps, MaxReps)
		}
		if u.DurationMinutes != nil {
			it.DurationMinutes = clamp(*u.DurationMinutes, MaxDurationMinutes)
		}
		return nil
	})
}

// Move relocates an item to index, clamped to the cart bounds.
func (c *Cart) Move(id uuid.UUID, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.index(id)
	if from < 0 {
		return ErrNotFound
	}
	index = max(0, min(index, len(c.items)-1))
	item := c.items[from]
	c.items = append(c.items[:from], c.items[from+1:]...)
	c.items = append(c.items[:index], append([]models.CartItem{item}, c.items[index:]...)...)
	return nil
}

// Snapshot copies the cart into session entries, in cart order.
func (c *Cart) Snapshot() []session.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := make([]session.Entry, 0, len(c.items))
	for _, it := range c.items {
		entries = append(entries, session.NewEntry(
			it.ID.String(), it.Exercise.Name, it.Exercise.BodyPart,
			it.Sets, it.Reps, it.DurationMinutes,
		))
	}
	return entries
}

func (c *Cart) update(id uuid.UUID, fn func(*models.CartItem) error) (models.CartItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(id)
	if i < 0 {
		return models.CartItem{}, ErrNotFound
	}
	if err := fn(&c.items[i]); err != nil {
		return models.CartItem{}, err
	}
	return c.items[i], nil
}

func (c *Cart) index(id uuid.UUID) int {
	for i, it := range c.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, hi int) int {
	return max(0, min(v, hi))
}
