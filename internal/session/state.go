package session

// State is a point-in-time copy of a session, safe to hand to renderers.
type State struct {
	Status        Status         `json:"status"`
	Cursor        int            `json:"cursor"`
	Total         int            `json:"total"`
	Current       *Entry         `json:"current,omitempty"`
	Next          *Entry         `json:"next,omitempty"`
	Entries       []Entry        `json:"entries"`
	CompletedSets map[string]int `json:"completed_sets"`
	CardioDone    []string       `json:"cardio_done"`
	Finished      bool           `json:"finished"`
}

// State returns a copy of the current session state.
func (c *Controller) State() State {
	s := State{
		Status:        c.status,
		Cursor:        c.cursor,
		Total:         len(c.snapshot),
		Entries:       append([]Entry(nil), c.snapshot...),
		CompletedSets: make(map[string]int, len(c.completed)),
		CardioDone:    []string{},
		Finished:      c.Finished(),
	}
	if cur, ok := c.Current(); ok {
		s.Current = &cur
	}
	if next, ok := c.PeekNext(); ok {
		s.Next = &next
	}
	for id, n := range c.completed {
		s.CompletedSets[id] = n
	}
	for _, e := range c.snapshot {
		if c.cardioDone[e.ID] {
			s.CardioDone = append(s.CardioDone, e.ID)
		}
	}
	return s
}

// SetsDone sums completed sets across all entries.
func (s State) SetsDone() int {
	total := 0
	for _, n := range s.CompletedSets {
		total += n
	}
	return total
}

// CardioMinutes sums the target durations of cardio entries marked done.
func (s State) CardioMinutes() int {
	done := make(map[string]bool, len(s.CardioDone))
	for _, id := range s.CardioDone {
		done[id] = true
	}
	total := 0
	for _, e := range s.Entries {
		if t, ok := e.Target.(CardioTarget); ok && done[e.ID] {
			total += t.DurationMinutes
		}
	}
	return total
}
