package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/catalog"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/server"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/workout"
)

// newAPIServer runs the real REST API in-process.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	log := discardLogger()
	srv := server.New(workout.NewManager(cart.New(), nil, log), &memProfiles{}, nil, "k", log)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestHTTPClientSessionRoundTrip drives the cart and a session through the
// REST API and checks that states decode with their target variants.
func TestHTTPClientSessionRoundTrip(t *testing.T) {
	client := NewHTTPClient(newAPIServer(t).URL+"/", "k")
	ctx := context.Background()

	squat, _ := catalog.FindByName("Squat")
	run, _ := catalog.FindByName("Treadmill")

	item, added, err := client.AddToCart(ctx, squat.ID)
	if err != nil || !added {
		t.Fatalf("add: added=%v err=%v", added, err)
	}
	if _, again, err := client.AddToCart(ctx, squat.ID); err != nil || again {
		t.Errorf("duplicate add: added=%v err=%v", again, err)
	}
	sets := 1
	if _, err := client.UpdateCartItem(ctx, item.ID, cart.Update{Sets: &sets}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := client.AddToCart(ctx, run.ID); err != nil {
		t.Fatal(err)
	}

	items, err := client.Cart(ctx)
	if err != nil || len(items) != 2 {
		t.Fatalf("cart = %v, err = %v", items, err)
	}

	if _, err := client.Session(ctx); !errors.Is(err, workout.ErrNoSession) {
		t.Errorf("idle session err = %v, want ErrNoSession", err)
	}

	st, err := client.StartSession(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Entries[1].Target.(session.CardioTarget); !ok {
		t.Errorf("second entry target = %#v, want cardio", st.Entries[1].Target)
	}

	if _, err := client.CompleteCardio(ctx); err == nil {
		t.Error("expected error completing cardio on a strength entry")
	}
	var se *StatusError
	if _, err := client.CompleteCardio(ctx); !errors.As(err, &se) || se.Code != http.StatusConflict {
		t.Errorf("err = %v, want 409 StatusError", err)
	}

	if st, err = client.CompleteSet(ctx); err != nil {
		t.Fatal(err)
	}
	if st, err = client.CompleteCurrent(ctx); err != nil {
		t.Fatal(err)
	}
	if st.Status != session.StatusCompleted {
		t.Errorf("status = %s, want completed", st.Status)
	}
}

// TestHTTPClientRejectsWrongKey verifies mutations carry the configured key.
func TestHTTPClientRejectsWrongKey(t *testing.T) {
	client := NewHTTPClient(newAPIServer(t).URL, "wrong")

	err := client.ClearCart(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Errorf("err = %v, want 403", err)
	}
	if _, err := client.Cart(context.Background()); err != nil {
		t.Errorf("reads should not need the key: %v", err)
	}
}

// TestHTTPClientHistoryUnavailable verifies the error message from the API is
// surfaced.
func TestHTTPClientHistoryUnavailable(t *testing.T) {
	client := NewHTTPClient(newAPIServer(t).URL, "k")

	_, err := client.History(context.Background(), time.Now().AddDate(0, 0, -1), time.Now(), 10)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want 503", err)
	}
	if se.Message != "history is not configured" {
		t.Errorf("message = %q", se.Message)
	}
}

// TestHTTPClientEnergyParams verifies the query params sent for an estimate.
func TestHTTPClientEnergyParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/energy" {
			t.Errorf("unexpected request path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("birthday"); got != "1990-02-03" {
			t.Errorf("birthday=%q, want 1990-02-03", got)
		}
		if got := r.URL.Query().Get("activity"); got != "1.4" {
			t.Errorf("activity=%q, want 1.4", got)
		}
		if got := r.Header.Get("X-API-Key"); got != "" {
			t.Errorf("read sent api key %q", got)
		}
		bmr := 1500.0
		writeTestJSON(t, w, nutrition.Report{Estimate: nutrition.Estimate{Age: 36, BMR: &bmr}, BMRText: "1500 kcal"})
	}))
	defer ts.Close()

	client := NewHTTPClient(ts.URL, "k")
	r, err := client.Energy(context.Background(), time.Date(1990, 2, 3, 0, 0, 0, 0, time.UTC), 1.4)
	if err != nil {
		t.Fatal(err)
	}
	if r.Age != 36 || r.BMR == nil || *r.BMR != 1500 || r.BMRText != "1500 kcal" {
		t.Errorf("report = %+v", r)
	}
}
