// Package session drives a guided workout through a fixed snapshot of entries.
package session

import (
	"errors"
)

var (
	ErrNoCurrentEntry = errors.New("no current entry")
	ErrWrongKind      = errors.New("action does not match current entry kind")
	ErrSessionEnded   = errors.New("session has ended")
	ErrUnknownEntry   = errors.New("unknown entry")
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Event is emitted to observers after every state change.
type Event int

const (
	EventProgress Event = iota
	EventCompleted
	EventCancelled
)

func (e Event) String() string {
	switch e {
	case EventCompleted:
		return "completed"
	case EventCancelled:
		return "cancelled"
	default:
		return "progress"
	}
}

// Observer is notified synchronously, after the state change is applied.
type Observer func(Event, State)

// Controller owns the progression state of one session. It is not safe for
// concurrent use.
type Controller struct {
	snapshot   []Entry
	cursor     int
	completed  map[string]int
	cardioDone map[string]bool
	status     Status
	observers  []Observer
}

// Start creates a controller over a copy of snapshot. An empty snapshot is
// allowed: it has no current entry and can never finish.
func Start(snapshot []Entry) *Controller {
	c := &Controller{
		snapshot:   append([]Entry(nil), snapshot...),
		completed:  make(map[string]int),
		cardioDone: make(map[string]bool),
		status:     StatusActive,
	}
	for _, e := range c.snapshot {
		if !e.IsCardio() {
			c.completed[e.ID] = 0
		}
	}
	return c
}

// Subscribe registers an observer for subsequent events.
func (c *Controller) Subscribe(o Observer) {
	c.observers = append(c.observers, o)
}

// Current returns the entry under the cursor.
func (c *Controller) Current() (Entry, bool) {
	if c.status == StatusCancelled || c.cursor >= len(c.snapshot) {
		return Entry{}, false
	}
	return c.snapshot[c.cursor], true
}

// PeekNext returns the first unsatisfied entry strictly after the cursor.
func (c *Controller) PeekNext() (Entry, bool) {
	if c.status == StatusCancelled {
		return Entry{}, false
	}
	for i := c.cursor + 1; i < len(c.snapshot); i++ {
		if !c.satisfied(c.snapshot[i]) {
			return c.snapshot[i], true
		}
	}
	return Entry{}, false
}

// CompleteSet records one finished set for the current non-cardio entry and
// advances once its set target is reached.
func (c *Controller) CompleteSet() error {
	cur, err := c.current()
	if err != nil {
		return err
	}
	if cur.IsCardio() {
		return ErrWrongKind
	}
	c.completed[cur.ID] = min(c.completed[cur.ID]+1, cur.TargetSets())
	if c.satisfied(cur) {
		c.advance()
		return nil
	}
	c.notify(EventProgress)
	return nil
}

// CompleteCardio marks the current cardio entry done and advances.
func (c *Controller) CompleteCardio() error {
	cur, err := c.current()
	if err != nil {
		return err
	}
	if !cur.IsCardio() {
		return ErrWrongKind
	}
	c.cardioDone[cur.ID] = true
	c.advance()
	return nil
}

// MarkSatisfied completes any entry by id, including ones ahead of the cursor.
// Entries ahead are skipped when the cursor reaches them.
func (c *Controller) MarkSatisfied(id string) error {
	if c.status != StatusActive {
		return ErrSessionEnded
	}
	idx := c.indexOf(id)
	if idx < 0 {
		return ErrUnknownEntry
	}
	e := c.snapshot[idx]
	if e.IsCardio() {
		c.cardioDone[id] = true
	} else {
		c.completed[id] = e.TargetSets()
	}
	if idx == c.cursor {
		c.advance()
		return nil
	}
	c.notify(EventProgress)
	return nil
}

// Cancel ends the session without completion. It is a no-op once the session
// has completed or was already cancelled.
func (c *Controller) Cancel() {
	if c.status != StatusActive {
		return
	}
	c.status = StatusCancelled
	state := c.State()
	c.snapshot = nil
	c.completed = nil
	c.cardioDone = nil
	c.cursor = 0
	for _, o := range c.observers {
		o(EventCancelled, state)
	}
	c.observers = nil
}

// Finished reports whether every entry was satisfied. Once true it stays true.
func (c *Controller) Finished() bool {
	return c.status == StatusCompleted
}

// Status returns the lifecycle state.
func (c *Controller) Status() Status {
	return c.status
}

// Cursor returns the index of the current entry; len(snapshot) means past the end.
func (c *Controller) Cursor() int {
	return c.cursor
}

// CompletedSets returns the completed set count for a non-cardio entry.
func (c *Controller) CompletedSets(id string) int {
	return c.completed[id]
}

func (c *Controller) current() (Entry, error) {
	if c.status != StatusActive {
		return Entry{}, ErrSessionEnded
	}
	cur, ok := c.Current()
	if !ok {
		return Entry{}, ErrNoCurrentEntry
	}
	return cur, nil
}

// advance moves the cursor past satisfied entries and latches completion when
// none remain.
func (c *Controller) advance() {
	for c.cursor < len(c.snapshot) && c.satisfied(c.snapshot[c.cursor]) {
		c.cursor++
	}
	if c.cursor < len(c.snapshot) {
		c.notify(EventProgress)
		return
	}
	if len(c.snapshot) == 0 || !c.allSatisfied() {
		c.notify(EventProgress)
		return
	}
	c.status = StatusCompleted
	c.notify(EventCompleted)
}

func (c *Controller) satisfied(e Entry) bool {
	if e.IsCardio() {
		return c.cardioDone[e.ID]
	}
	return c.completed[e.ID] >= e.TargetSets()
}

func (c *Controller) allSatisfied() bool {
	for _, e := range c.snapshot {
		if !c.satisfied(e) {
			return false
		}
	}
	return true
}

func (c *Controller) indexOf(id string) int {
	for i, e := range c.snapshot {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) notify(ev Event) {
	if len(c.observers) == 0 {
		return
	}
	state := c.State()
	for _, o := range c.observers {
		o(ev, state)
	}
}
