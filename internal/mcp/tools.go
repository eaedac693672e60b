package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/catalog"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/session"
)

// defaultTimeRange returns start/end defaulting to the last days days.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var bodyPartKeys = func() []string {
	keys := make([]string, 0, len(models.BodyParts))
	for _, bp := range models.BodyParts {
		keys = append(keys, string(bp))
	}
	return keys
}()

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List exercises from the catalog, optionally for one body part."),
	mcp.WithString("body_part", mcp.Description("Body part filter"), mcp.Enum(bodyPartKeys...)),
)

var toolGetCart = mcp.NewTool("get_cart",
	mcp.WithDescription("Show the workout cart in order, with each item's targets."),
)

var toolAddToCart = mcp.NewTool("add_to_cart",
	mcp.WithDescription("Add a catalog exercise to the cart. Adding an exercise that is already there returns the existing item. Optional targets are applied after adding."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exercise name (English or local) or catalog ID")),
	mcp.WithNumber("sets", mcp.Description("Set target, strength exercises only (0-20)")),
	mcp.WithNumber("reps", mcp.Description("Repetitions per set, strength exercises only (0-100)")),
	mcp.WithNumber("duration_minutes", mcp.Description("Duration, cardio exercises only (0-180)")),
)

var toolUpdateCartItem = mcp.NewTool("update_cart_item",
	mcp.WithDescription("Change the targets of a cart item. Values are clamped to the editing limits."),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Cart item ID")),
	mcp.WithNumber("sets", mcp.Description("Set target, strength exercises only")),
	mcp.WithNumber("reps", mcp.Description("Repetitions per set, strength exercises only")),
	mcp.WithNumber("duration_minutes", mcp.Description("Duration, cardio exercises only")),
)

var toolRemoveFromCart = mcp.NewTool("remove_from_cart",
	mcp.WithDescription("Remove one item from the cart."),
	mcp.WithString("item_id", mcp.Required(), mcp.Description("Cart item ID")),
)

var toolClearCart = mcp.NewTool("clear_cart",
	mcp.WithDescription("Remove every item from the cart."),
)

var toolStartSession = mcp.NewTool("start_session",
	mcp.WithDescription("Start a guided session from a snapshot of the cart. Later cart edits do not affect it."),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Show the running session: current entry, next entry, and progress per entry."),
)

var toolCompleteCurrent = mcp.NewTool("complete_current",
	mcp.WithDescription("Press the primary button: record one set for a strength entry or finish a cardio entry."),
)

var toolCompleteSet = mcp.NewTool("complete_set",
	mcp.WithDescription("Record one completed set on the current strength entry."),
)

var toolCompleteCardio = mcp.NewTool("complete_cardio",
	mcp.WithDescription("Mark the current cardio entry done."),
)

var toolMarkDone = mcp.NewTool("mark_done",
	mcp.WithDescription("Mark any entry of the running session as done, out of order."),
	mcp.WithString("entry_id", mcp.Required(), mcp.Description("Session entry ID (the cart item ID)")),
)

var toolCancelSession = mcp.NewTool("cancel_session",
	mcp.WithDescription("End the running session early. Progress is discarded."),
)

var toolEstimateEnergy = mcp.NewTool("estimate_energy",
	mcp.WithDescription("Estimate BMR and TDEE (kcal/day) from the stored height, weight and gender using Mifflin-St Jeor."),
	mcp.WithString("birthday", mcp.Description("Birthday (YYYY-MM-DD). Defaults to 20 years ago.")),
	mcp.WithNumber("activity", mcp.Description("Activity factor between 1.2 and 2.0. Defaults to 1.2."), mcp.Min(nutrition.MinActivity), mcp.Max(nutrition.MaxActivity)),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("List finished sessions (completed or cancelled) with set and cardio totals."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := req.GetString("body_part", "")
	if filter == "" {
		return jsonResult(catalog.All())
	}
	bp, err := models.ParseBodyPart(filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(catalog.ByBodyPart(bp))
}

func (h *handlers) getCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := h.backend.Cart(ctx)
	if err != nil {
		return h.fail("get_cart", err), nil
	}
	return jsonResult(items)
}

func (h *handlers) addToCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}
	ex, ok := resolveExercise(ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no exercise named %q; use list_exercises", ref)), nil
	}

	item, added, err := h.backend.AddToCart(ctx, ex.ID)
	if err != nil {
		return h.fail("add_to_cart", err), nil
	}
	if u := targetUpdate(req); u != (cart.Update{}) {
		item, err = h.backend.UpdateCartItem(ctx, item.ID, u)
		if err != nil {
			return h.fail("add_to_cart", err), nil
		}
	}
	return jsonResult(map[string]any{"item": item, "added": added})
}

func (h *handlers) updateCartItem(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req, "item_id")
	if errResult != nil {
		return errResult, nil
	}
	u := targetUpdate(req)
	if u == (cart.Update{}) {
		return mcp.NewToolResultError("nothing to update: pass sets, reps or duration_minutes"), nil
	}
	item, err := h.backend.UpdateCartItem(ctx, id, u)
	if err != nil {
		return h.fail("update_cart_item", err), nil
	}
	return jsonResult(item)
}

func (h *handlers) removeFromCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req, "item_id")
	if errResult != nil {
		return errResult, nil
	}
	if err := h.backend.RemoveFromCart(ctx, id); err != nil {
		return h.fail("remove_from_cart", err), nil
	}
	return mcp.NewToolResultText("removed"), nil
}

func (h *handlers) clearCart(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := h.backend.ClearCart(ctx); err != nil {
		return h.fail("clear_cart", err), nil
	}
	return mcp.NewToolResultText("cart cleared"), nil
}

func (h *handlers) startSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("start_session", func() (session.State, error) { return h.backend.StartSession(ctx) })
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("get_session", func() (session.State, error) { return h.backend.Session(ctx) })
}

func (h *handlers) completeCurrent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("complete_current", func() (session.State, error) { return h.backend.CompleteCurrent(ctx) })
}

func (h *handlers) completeSet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("complete_set", func() (session.State, error) { return h.backend.CompleteSet(ctx) })
}

func (h *handlers) completeCardio(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("complete_cardio", func() (session.State, error) { return h.backend.CompleteCardio(ctx) })
}

func (h *handlers) markDone(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entryID, err := req.RequireString("entry_id")
	if err != nil {
		return mcp.NewToolResultError("entry_id parameter is required"), nil
	}
	return h.sessionResult("mark_done", func() (session.State, error) { return h.backend.MarkDone(ctx, entryID) })
}

func (h *handlers) cancelSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.sessionResult("cancel_session", func() (session.State, error) { return h.backend.CancelSession(ctx) })
}

func (h *handlers) estimateEnergy(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var birthday time.Time
	if b := req.GetString("birthday", ""); b != "" {
		parsed, err := time.Parse("2006-01-02", b)
		if err != nil {
			return mcp.NewToolResultError("birthday must be YYYY-MM-DD"), nil
		}
		birthday = parsed
	}

	activity := req.GetFloat("activity", nutrition.DefaultActivity)
	if !nutrition.ValidActivity(activity) {
		return mcp.NewToolResultError(fmt.Sprintf("activity must be between %.1f and %.1f", nutrition.MinActivity, nutrition.MaxActivity)), nil
	}

	r, err := h.backend.Energy(ctx, birthday, activity)
	if err != nil {
		return h.fail("estimate_energy", err), nil
	}
	return jsonResult(r)
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 50)
	if limit <= 0 {
		limit = 50
	}

	logs, err := h.backend.History(ctx, start, end, limit)
	if err != nil {
		return h.fail("get_history", err), nil
	}
	return jsonResult(logs)
}

// --- helpers ---

func (h *handlers) sessionResult(tool string, fn func() (session.State, error)) (*mcp.CallToolResult, error) {
	st, err := fn()
	if err != nil {
		return h.fail(tool, err), nil
	}
	return jsonResult(st)
}

func (h *handlers) fail(tool string, err error) *mcp.CallToolResult {
	h.log.Warn("mcp "+tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func resolveExercise(ref string) (models.Exercise, bool) {
	if id, err := uuid.Parse(ref); err == nil {
		return catalog.Lookup(id)
	}
	return catalog.FindByName(ref)
}

func requireID(req mcp.CallToolRequest, key string) (uuid.UUID, *mcp.CallToolResult) {
	s, err := req.RequireString(key)
	if err != nil {
		return uuid.UUID{}, mcp.NewToolResultError(key + " parameter is required")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, mcp.NewToolResultError(key + " must be a UUID")
	}
	return id, nil
}

// targetUpdate collects the target arguments that were actually passed.
func targetUpdate(req mcp.CallToolRequest) cart.Update {
	var u cart.Update
	u.Sets = optionalInt(req, "sets")
	u.Reps = optionalInt(req, "reps")
	u.DurationMinutes = optionalInt(req, "duration_minutes")
	return u
}

func optionalInt(req mcp.CallToolRequest, key string) *int {
	if _, ok := req.GetArguments()[key]; !ok {
		return nil
	}
	v := req.GetInt(key, 0)
	return &v
}
