// Package workout ties the live cart to at most one guided session and
// records each session's outcome.
package workout

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/storage"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrSessionActive = errors.New("a session is already in progress")
	ErrNoSession     = errors.New("no session in progress")
)

// Recorder stores session outcomes. *storage.DB satisfies it.
type Recorder interface {
	InsertSessionLog(ctx context.Context, l storage.SessionLog) error
}

var _ Recorder = (*storage.DB)(nil)

// Manager is safe for concurrent use.
type Manager struct {
	mu        sync.Mutex
	cart      *cart.Cart
	active    *session.Controller
	startedAt time.Time
	ended     *session.State

	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
}

// NewManager creates a manager over c. recorder may be nil.
func NewManager(c *cart.Cart, recorder Recorder, log *slog.Logger) *Manager {
	return &Manager{
		cart:     c,
		recorder: recorder,
		log:      log,
		now:      time.Now,
	}
}

// Cart returns the live cart.
func (m *Manager) Cart() *cart.Cart {
	return m.cart
}

// StartSession snapshots the cart and begins a session.
func (m *Manager) StartSession() (session.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return session.State{}, ErrSessionActive
	}
	snapshot := m.cart.Snapshot()
	if len(snapshot) == 0 {
		return session.State{}, ErrEmptyCart
	}

	c := session.Start(snapshot)
	c.Subscribe(m.observe)
	m.active = c
	m.startedAt = m.now()
	m.log.Info("session started", "entries", len(snapshot))
	return c.State(), nil
}

// State returns the active session state.
func (m *Manager) State() (session.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active == nil {
		return session.State{}, ErrNoSession
	}
	return m.active.State(), nil
}

// CompleteSet records one set on the current entry.
func (m *Manager) CompleteSet(ctx context.Context) (session.State, error) {
	return m.apply(ctx, (*session.Controller).CompleteSet)
}

// CompleteCardio marks the current cardio entry done.
func (m *Manager) CompleteCardio(ctx context.Context) (session.State, error) {
	return m.apply(ctx, (*session.Controller).CompleteCardio)
}

// Complete picks CompleteSet or CompleteCardio from the current entry, the
// way the single primary action button does.
func (m *Manager) Complete(ctx context.Context) (session.State, error) {
	return m.apply(ctx, func(c *session.Controller) error {
		cur, ok := c.Current()
		if !ok {
			return session.ErrNoCurrentEntry
		}
		if cur.IsCardio() {
			return c.CompleteCardio()
		}
		return c.CompleteSet()
	})
}

// MarkDone satisfies any entry of the active session by id.
func (m *Manager) MarkDone(ctx context.Context, entryID string) (session.State, error) {
	return m.apply(ctx, func(c *session.Controller) error {
		return c.MarkSatisfied(entryID)
	})
}

// CancelSession ends the active session without completion.
func (m *Manager) CancelSession(ctx context.Context) (session.State, error) {
	return m.apply(ctx, func(c *session.Controller) error {
		c.Cancel()
		return nil
	})
}

func (m *Manager) apply(ctx context.Context, op func(*session.Controller) error) (session.State, error) {
	m.mu.Lock()
	if m.active == nil {
		m.mu.Unlock()
		return session.State{}, ErrNoSession
	}
	c := m.active
	startedAt := m.startedAt
	if err := op(c); err != nil {
		m.mu.Unlock()
		return session.State{}, err
	}

	ended := m.ended
	m.ended = nil
	if ended == nil {
		state := c.State()
		m.mu.Unlock()
		return state, nil
	}
	m.active = nil
	m.mu.Unlock()

	m.record(ctx, *ended, startedAt)
	return *ended, nil
}

// observe runs inside apply while m.mu is held.
func (m *Manager) observe(ev session.Event, state session.State) {
	switch ev {
	case session.EventCompleted, session.EventCancelled:
		m.ended = &state
		m.log.Info("session "+ev.String(),
			"entries", state.Total,
			"sets", state.SetsDone(),
			"cardio_minutes", state.CardioMinutes(),
		)
	}
}

func (m *Manager) record(ctx context.Context, state session.State, startedAt time.Time) {
	if m.recorder == nil {
		return
	}
	l, err := storage.NewSessionLog(state, startedAt, m.now())
	if err != nil {
		m.log.Error("failed to build session log", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := m.recorder.InsertSessionLog(ctx, l); err != nil {
		m.log.Error("failed to record session", "id", l.ID, "error", err)
	}
}
