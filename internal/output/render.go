package output

import (
	"fmt"
	"strconv"
	"time"

	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/storage"
)

// Cart prints the cart as a table, one row per item in order.
func (u *UI) Cart(items []models.CartItem) {
	if len(items) == 0 {
		u.Info("cart is empty")
		return
	}
	table := u.Table([]string{"#", "Exercise", "Body Part", "Target"})
	for i, it := range items {
		_ = table.Append([]string{
			strconv.Itoa(i + 1),
			it.Exercise.Name + " " + it.Exercise.LocalName,
			it.Exercise.BodyPart.Label(),
			itemTarget(it),
		})
	}
	_ = table.Render()
}

func itemTarget(it models.CartItem) string {
	if it.Exercise.BodyPart.IsCardio() {
		return fmt.Sprintf("%d min", it.DurationMinutes)
	}
	return fmt.Sprintf("%d x %d", it.Sets, it.Reps)
}

// Session prints the current entry, what comes next, and per-entry progress.
func (u *UI) Session(st session.State) {
	fmt.Fprintf(u.Out, "%s  %s  %d/%d\n", bold("Session"), StatusColor(st.Status), min(st.Cursor+1, st.Total), st.Total)

	if st.Current != nil {
		fmt.Fprintf(u.Out, "  now:  %s\n", cyan(entryLine(*st.Current, st)))
	}
	if st.Next != nil {
		fmt.Fprintf(u.Out, "  next: %s\n", st.Next.Name)
	}

	if len(st.Entries) == 0 {
		return
	}
	table := u.Table([]string{"", "Exercise", "Progress"})
	for i, e := range st.Entries {
		marker := " "
		if i == st.Cursor && st.Current != nil {
			marker = "▶"
		}
		_ = table.Append([]string{marker, e.Name, progress(e, st)})
	}
	_ = table.Render()
}

func entryLine(e session.Entry, st session.State) string {
	switch t := e.Target.(type) {
	case session.CardioTarget:
		return fmt.Sprintf("%s  %d min", e.Name, t.DurationMinutes)
	case session.SetTarget:
		return fmt.Sprintf("%s  set %d of %d, %d reps", e.Name, min(st.CompletedSets[e.ID]+1, t.Sets), t.Sets, t.Reps)
	}
	return e.Name
}

func progress(e session.Entry, st session.State) string {
	switch t := e.Target.(type) {
	case session.CardioTarget:
		for _, id := range st.CardioDone {
			if id == e.ID {
				return green("done")
			}
		}
		return fmt.Sprintf("%d min", t.DurationMinutes)
	case session.SetTarget:
		done := st.CompletedSets[e.ID]
		s := fmt.Sprintf("%d/%d", done, t.Sets)
		if done >= t.Sets {
			return green(s)
		}
		return s
	}
	return ""
}

// Energy prints a BMR/TDEE report and any input problems.
func (u *UI) Energy(r nutrition.Report) {
	fmt.Fprintf(u.Out, "BMR   %s\n", bold(r.BMRText))
	fmt.Fprintf(u.Out, "TDEE  %s  (activity %.1f)\n", bold(r.TDEEText), r.Activity)
	for _, p := range r.Problems {
		u.Warning("%s", p)
	}
}

// History prints past sessions, newest first as returned by storage.
func (u *UI) History(logs []storage.SessionLog) {
	if len(logs) == 0 {
		u.Info("no sessions recorded")
		return
	}
	table := u.Table([]string{"Started", "Status", "Entries", "Sets", "Cardio", "Duration"})
	for _, l := range logs {
		_ = table.Append([]string{
			l.StartedAt.Local().Format("2006-01-02 15:04"),
			StatusColor(l.Status),
			strconv.Itoa(l.EntryCount),
			strconv.Itoa(l.SetsCompleted),
			fmt.Sprintf("%d min", l.CardioMinutes),
			l.Duration().Round(time.Second).String(),
		})
	}
	_ = table.Render()
}
