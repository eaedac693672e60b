package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/catalog"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
)

// Backend abstracts where the cart and session live. Local (in-process) and
// HTTPClient (remote via REST API) satisfy this interface.
type Backend interface {
	Cart(ctx context.Context) ([]models.CartItem, error)
	AddToCart(ctx context.Context, exerciseID uuid.UUID) (models.CartItem, bool, error)
	UpdateCartItem(ctx context.Context, id uuid.UUID, u cart.Update) (models.CartItem, error)
	RemoveFromCart(ctx context.Context, id uuid.UUID) error
	ClearCart(ctx context.Context) error

	StartSession(ctx context.Context) (session.State, error)
	Session(ctx context.Context) (session.State, error)
	CompleteCurrent(ctx context.Context) (session.State, error)
	CompleteSet(ctx context.Context) (session.State, error)
	CompleteCardio(ctx context.Context) (session.State, error)
	MarkDone(ctx context.Context, entryID string) (session.State, error)
	CancelSession(ctx context.Context) (session.State, error)

	Energy(ctx context.Context, birthday time.Time, activity float64) (nutrition.Report, error)
	History(ctx context.Context, start, end time.Time, limit int) ([]storage.SessionLog, error)
}

// ErrNoHistory is returned by History when no database is configured.
var ErrNoHistory = errors.New("session history requires a database")

// ProfileLoader reads the stored energy profile. *profile.Store satisfies it.
type ProfileLoader interface {
	Load(ctx context.Context) (nutrition.Profile, error)
}

// HistoryQuerier lists past sessions. *storage.DB satisfies it.
type HistoryQuerier interface {
	QuerySessionLogs(ctx context.Context, start, end time.Time, limit int) ([]storage.SessionLog, error)
}

// Local runs tools against an in-process workout manager.
type Local struct {
	workouts *workout.Manager
	profiles ProfileLoader
	history  HistoryQuerier
	now      func() time.Time
}

var _ Backend = (*Local)(nil)

// NewLocal creates a Local backend. history may be nil.
func NewLocal(workouts *workout.Manager, profiles ProfileLoader, history HistoryQuerier) *Local {
	return &Local{workouts: workouts, profiles: profiles, history: history, now: time.Now}
}

func (l *Local) Cart(context.Context) ([]models.CartItem, error) {
	return l.workouts.Cart().Items(), nil
}

func (l *Local) AddToCart(_ context.Context, exerciseID uuid.UUID) (models.CartItem, bool, error) {
	ex, ok := catalog.Lookup(exerciseID)
	if !ok {
		return models.CartItem{}, false, fmt.Errorf("exercise %s not found", exerciseID)
	}
	item, added := l.workouts.Cart().Add(ex)
	return item, added, nil
}

func (l *Local) UpdateCartItem(_ context.Context, id uuid.UUID, u cart.Update) (models.CartItem, error) {
	return l.workouts.Cart().Apply(id, u)
}

func (l *Local) RemoveFromCart(_ context.Context, id uuid.UUID) error {
	return l.workouts.Cart().Remove(id)
}

func (l *Local) ClearCart(context.Context) error {
	l.workouts.Cart().Clear()
	return nil
}

func (l *Local) StartSession(context.Context) (session.State, error) {
	return l.workouts.StartSession()
}

func (l *Local) Session(context.Context) (session.State, error) {
	return l.workouts.State()
}

func (l *Local) CompleteCurrent(ctx context.Context) (session.State, error) {
	return l.workouts.Complete(ctx)
}

func (l *Local) CompleteSet(ctx context.Context) (session.State, error) {
	return l.workouts.CompleteSet(ctx)
}

func (l *Local) CompleteCardio(ctx context.Context) (session.State, error) {
	return l.workouts.CompleteCardio(ctx)
}

func (l *Local) MarkDone(ctx context.Context, entryID string) (session.State, error) {
	return l.workouts.MarkDone(ctx, entryID)
}

func (l *Local) CancelSession(ctx context.Context) (session.State, error) {
	return l.workouts.CancelSession(ctx)
}

func (l *Local) Energy(ctx context.Context, birthday time.Time, activity float64) (nutrition.Report, error) {
	p, err := l.profiles.Load(ctx)
	if err != nil {
		return nutrition.Report{}, fmt.Errorf("loading profile: %w", err)
	}
	now := l.now()
	if birthday.IsZero() {
		birthday = nutrition.DefaultBirthday(now)
	}
	return nutrition.NewReport(p, birthday, activity, now), nil
}

func (l *Local) History(ctx context.Context, start, end time.Time, limit int) ([]storage.SessionLog, error) {
	if l.history == nil {
		return nil, ErrNoHistory
	}
	return l.history.QuerySessionLogs(ctx, start, end, limit)
}
