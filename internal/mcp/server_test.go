package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/workout"
)

type memProfiles struct {
	p nutrition.Profile
}

func (m *memProfiles) Load(context.Context) (nutrition.Profile, error) { return m.p, nil }
func (m *memProfiles) Save(_ context.Context, p nutrition.Profile) error {
	m.p = p
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newHandlers(t *testing.T, p nutrition.Profile) *handlers {
	t.Helper()
	log := discardLogger()
	local := NewLocal(workout.NewManager(cart.New(), nil, log), &memProfiles{p: p}, nil)
	local.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return &handlers{backend: local, log: log}
}

func callToolReq(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func resultJSON(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	if result.IsError {
		t.Fatalf("tool error: %s", resultText(t, result))
	}
	text := resultText(t, result)
	if err := json.Unmarshal([]byte(text), target); err != nil {
		t.Fatalf("failed to parse result JSON %q: %v", text, err)
	}
}

type addResult struct {
	Item  models.CartItem `json:"item"`
	Added bool            `json:"added"`
}

// TestListExercisesFilter verifies the body part filter, including the
// local label form.
func TestListExercisesFilter(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	ctx := context.Background()

	res, err := h.listExercises(ctx, callToolReq("list_exercises", map[string]any{"body_part": "有氧"}))
	if err != nil {
		t.Fatal(err)
	}
	var exs []models.Exercise
	resultJSON(t, res, &exs)
	if len(exs) != 3 {
		t.Errorf("cardio exercises = %d, want 3", len(exs))
	}

	res, _ = h.listExercises(ctx, callToolReq("list_exercises", map[string]any{"body_part": "neck"}))
	if !res.IsError {
		t.Error("expected error for unknown body part")
	}
}

// TestAddToCartWithTargets verifies lookup by local name and that passed
// targets are applied.
func TestAddToCartWithTargets(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	ctx := context.Background()

	res, err := h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "深蹲", "sets": 4}))
	if err != nil {
		t.Fatal(err)
	}
	var got addResult
	resultJSON(t, res, &got)
	if !got.Added || got.Item.Exercise.Name != "Squat" {
		t.Errorf("result = %+v", got)
	}
	if got.Item.Sets != 4 || got.Item.Reps != models.DefaultReps {
		t.Errorf("targets = %d x %d, want 4 x %d", got.Item.Sets, got.Item.Reps, models.DefaultReps)
	}

	res, _ = h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Treadmill", "sets": 2}))
	if !res.IsError {
		t.Error("expected error for sets on a cardio exercise")
	}

	res, _ = h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Moonwalk"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "Moonwalk") {
		t.Errorf("unknown exercise result = %q", resultText(t, res))
	}
}

// TestSessionTools drives a session to completion through the tools.
func TestSessionTools(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	ctx := context.Background()

	res, _ := h.startSession(ctx, callToolReq("start_session", nil))
	if !res.IsError {
		t.Error("expected error starting with an empty cart")
	}

	h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Squat", "sets": 1}))
	h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Treadmill"}))

	var st session.State
	res, _ = h.startSession(ctx, callToolReq("start_session", nil))
	resultJSON(t, res, &st)
	if st.Current == nil || st.Current.Name != "Squat" {
		t.Fatalf("current = %+v", st.Current)
	}

	res, _ = h.completeCardio(ctx, callToolReq("complete_cardio", nil))
	if !res.IsError {
		t.Error("expected error completing cardio on a strength entry")
	}

	res, _ = h.completeCurrent(ctx, callToolReq("complete_current", nil))
	resultJSON(t, res, &st)
	if st.Current == nil || st.Current.Name != "Treadmill" {
		t.Fatalf("current after set = %+v", st.Current)
	}

	res, _ = h.completeCurrent(ctx, callToolReq("complete_current", nil))
	resultJSON(t, res, &st)
	if st.Status != session.StatusCompleted {
		t.Errorf("status = %s, want completed", st.Status)
	}

	res, _ = h.getSession(ctx, callToolReq("get_session", nil))
	if !res.IsError {
		t.Error("expected no session after completion")
	}
}

// TestMarkDoneOutOfOrder verifies an entry ahead of the cursor is skipped.
func TestMarkDoneOutOfOrder(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	ctx := context.Background()

	h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Squat", "sets": 1}))
	res, _ := h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Plank"}))
	var plank addResult
	resultJSON(t, res, &plank)
	h.addToCart(ctx, callToolReq("add_to_cart", map[string]any{"exercise": "Spin Bike"}))
	h.startSession(ctx, callToolReq("start_session", nil))

	var st session.State
	res, _ = h.markDone(ctx, callToolReq("mark_done", map[string]any{"entry_id": plank.Item.ID.String()}))
	resultJSON(t, res, &st)
	if st.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", st.Cursor)
	}

	res, _ = h.completeSet(ctx, callToolReq("complete_set", nil))
	resultJSON(t, res, &st)
	if st.Current == nil || st.Current.Name != "Spin Bike" {
		t.Errorf("current = %+v, want Spin Bike", st.Current)
	}
}

// TestEstimateEnergy verifies the estimate and the activity range check.
func TestEstimateEnergy(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{HeightCM: "180", WeightKG: "80", Gender: nutrition.Male})
	ctx := context.Background()

	res, _ := h.estimateEnergy(ctx, callToolReq("estimate_energy", map[string]any{"birthday": "1996-06-15", "activity": 1.5}))
	var r nutrition.Report
	resultJSON(t, res, &r)
	want := 10*80 + 6.25*180 - 5*30 + 5.0
	if r.BMR == nil || *r.BMR != want {
		t.Errorf("bmr = %v, want %v", r.BMR, want)
	}
	if r.TDEE == nil || *r.TDEE != want*1.5 {
		t.Errorf("tdee = %v, want %v", r.TDEE, want*1.5)
	}

	res, _ = h.estimateEnergy(ctx, callToolReq("estimate_energy", map[string]any{"activity": 2.5}))
	if !res.IsError {
		t.Error("expected error for activity out of range")
	}
	res, _ = h.estimateEnergy(ctx, callToolReq("estimate_energy", map[string]any{"activity": math.NaN()}))
	if !res.IsError {
		t.Error("expected error for NaN activity")
	}
	res, _ = h.estimateEnergy(ctx, callToolReq("estimate_energy", map[string]any{"birthday": "15/06/1996"}))
	if !res.IsError {
		t.Error("expected error for malformed birthday")
	}
}

// TestGetHistoryWithoutDatabase verifies the local backend reports the
// missing database.
func TestGetHistoryWithoutDatabase(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	res, _ := h.getHistory(context.Background(), callToolReq("get_history", nil))
	if !res.IsError || !strings.Contains(resultText(t, res), "database") {
		t.Errorf("result = %q", resultText(t, res))
	}
	if _, err := h.backend.History(context.Background(), time.Time{}, time.Time{}, 1); !errors.Is(err, ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

// TestCurrentSessionResource verifies the resource is null when idle.
func TestCurrentSessionResource(t *testing.T) {
	h := newHandlers(t, nutrition.Profile{})
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "fitcart://session"

	contents, err := h.currentSession(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if text := contents[0].(mcp.TextResourceContents).Text; text != "null" {
		t.Errorf("idle session resource = %q, want null", text)
	}

	contents, err = h.catalog(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	var groups []catalogGroup
	if err := json.Unmarshal([]byte(contents[0].(mcp.TextResourceContents).Text), &groups); err != nil {
		t.Fatal(err)
	}
	if len(groups) != len(models.BodyParts) {
		t.Errorf("groups = %d, want %d", len(groups), len(models.BodyParts))
	}
}

// TestDefaultTimeRange verifies time range defaults and parsing.
func TestDefaultTimeRange(t *testing.T) {
	start, end, err := defaultTimeRange("", "", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if days := end.Sub(start).Hours() / 24; days < 29.9 || days > 30.1 {
		t.Errorf("default range = %.1f days, want ~30", days)
	}

	start, _, err = defaultTimeRange("2024-06-15T10:30:00Z", "", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start.Hour() != 10 || start.Minute() != 30 {
		t.Errorf("start = %v, want 10:30", start)
	}

	if _, _, err := defaultTimeRange("not-a-date", "", 7); err == nil {
		t.Error("expected error for invalid date")
	}
}
