package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/cart"
	"github.com/meltforce/fitcart/internal/models"
	"github.com/meltforce/fitcart/internal/nutrition"
	"github.com/meltforce/fitcart/internal/session"
	"github.com/meltforce/fitcart/internal/storage"
	"github.com/meltforce/fitcart/internal/workout"
)

// HTTPClient implements Backend by calling the FitCart REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// the cart and session live on the server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies Backend.
var _ Backend = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey is
// sent on mutating requests.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// StatusError is a non-2xx response from the REST API.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpclient: %s %s returned %d: %s", e.Method, e.Path, e.Code, e.Message)
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, in, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: string(data)}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			se.Message = apiErr.Error
		}
		return se
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Cart(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) AddToCart(ctx context.Context, exerciseID uuid.UUID) (models.CartItem, bool, error) {
	var resp struct {
		Item  models.CartItem `json:"item"`
		Added bool            `json:"added"`
	}
	in := map[string]uuid.UUID{"exercise_id": exerciseID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart", nil, in, &resp); err != nil {
		return models.CartItem{}, false, err
	}
	return resp.Item, resp.Added, nil
}

func (c *HTTPClient) UpdateCartItem(ctx context.Context, id uuid.UUID, u cart.Update) (models.CartItem, error) {
	var item models.CartItem
	if err := c.do(ctx, http.MethodPatch, "/api/v1/cart/"+id.String(), nil, u, &item); err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

func (c *HTTPClient) RemoveFromCart(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart/"+id.String(), nil, nil, nil)
}

func (c *HTTPClient) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/cart", nil, nil, nil)
}

func (c *HTTPClient) sessionCall(ctx context.Context, method, path string) (session.State, error) {
	var st session.State
	if err := c.do(ctx, method, path, nil, nil, &st); err != nil {
		return session.State{}, err
	}
	return st, nil
}

func (c *HTTPClient) StartSession(ctx context.Context) (session.State, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/session")
}

// Session maps the API's 404 to workout.ErrNoSession so callers can tell an
// idle server from a failing one.
func (c *HTTPClient) Session(ctx context.Context) (session.State, error) {
	st, err := c.sessionCall(ctx, http.MethodGet, "/api/v1/session")
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return session.State{}, workout.ErrNoSession
	}
	return st, err
}

func (c *HTTPClient) CompleteCurrent(ctx context.Context) (session.State, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/session/complete")
}

func (c *HTTPClient) CompleteSet(ctx context.Context) (session.State, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/session/sets")
}

func (c *HTTPClient) CompleteCardio(ctx context.Context) (session.State, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/session/cardio")
}

func (c *HTTPClient) MarkDone(ctx context.Context, entryID string) (session.State, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/session/entries/"+url.PathEscape(entryID)+"/done")
}

func (c *HTTPClient) CancelSession(ctx context.Context) (session.State, error) {
	return c.sessionCall(ctx, http.MethodDelete, "/api/v1/session")
}

func (c *HTTPClient) Energy(ctx context.Context, birthday time.Time, activity float64) (nutrition.Report, error) {
	params := url.Values{}
	if !birthday.IsZero() {
		params.Set("birthday", birthday.Format("2006-01-02"))
	}
	params.Set("activity", strconv.FormatFloat(activity, 'f', -1, 64))

	var r nutrition.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/energy", params, nil, &r); err != nil {
		return nutrition.Report{}, err
	}
	return r, nil
}

func (c *HTTPClient) History(ctx context.Context, start, end time.Time, limit int) ([]storage.SessionLog, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	params.Set("limit", strconv.Itoa(limit))

	var logs []storage.SessionLog
	if err := c.do(ctx, http.MethodGet, "/api/v1/history", params, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
