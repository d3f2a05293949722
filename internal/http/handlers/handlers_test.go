package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-restock-backend/internal/domain"
	"github.com/tbourn/go-restock-backend/internal/store"
)

func init() { gin.SetMode(gin.TestMode) }

// ---------- flexible stubs ----------

type stubStore struct {
	create  func(context.Context, store.CreateInput) (*domain.StockRequest, error)
	listAll func(context.Context) ([]domain.StockRequest, error)
	stats   func(context.Context) (store.Stats, error)
}

func (s stubStore) Create(ctx context.Context, in store.CreateInput) (*domain.StockRequest, error) {
	if s.create != nil {
		return s.create(ctx, in)
	}
	return &domain.StockRequest{ID: 1, VariantID: in.VariantID, Email: in.Email}, nil
}

func (s stubStore) ListAll(ctx context.Context) ([]domain.StockRequest, error) {
	if s.listAll != nil {
		return s.listAll(ctx)
	}
	return nil, nil
}

func (s stubStore) Stats(ctx context.Context) (store.Stats, error) {
	if s.stats != nil {
		return s.stats(ctx)
	}
	return store.Stats{}, nil
}

type stubMatcher struct {
	match func(context.Context, domain.InventoryEvent) ([]domain.StockRequest, error)
}

func (s stubMatcher) Match(ctx context.Context, ev domain.InventoryEvent) ([]domain.StockRequest, error) {
	if s.match != nil {
		return s.match(ctx, ev)
	}
	return nil, nil
}

type stubDispatcher struct {
	mu       sync.Mutex
	batches  [][]domain.StockRequest
	events   []domain.InventoryEvent
	outcomes []domain.DeliveryOutcome
}

func (s *stubDispatcher) Dispatch(reqs []domain.StockRequest, ev domain.InventoryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, reqs)
	s.events = append(s.events, ev)
}

func (s *stubDispatcher) Outcomes() []domain.DeliveryOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcomes
}

func newTestRouter(st RequestStore, m Matcher, d Dispatcher) *gin.Engine {
	r := gin.New()
	h := New(st, m, d)
	r.POST("/stock-requests", h.CreateRequest)
	r.GET("/stock-requests", h.ListRequests)
	r.POST("/webhooks/inventory", h.HandleInventory)
	r.GET("/health", h.Health)
	r.GET("/deliveries", h.ListDeliveries)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---------- CreateRequest ----------

func TestCreateRequest_Success(t *testing.T) {
	var got store.CreateInput
	st := stubStore{create: func(_ context.Context, in store.CreateInput) (*domain.StockRequest, error) {
		got = in
		return &domain.StockRequest{ID: 42, VariantID: in.VariantID, Email: in.Email}, nil
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodPost, "/stock-requests",
		`{"email":"jane@example.com","variant_id":44723818070234,"product_id":"wool-sweater","product_title":"Wool Sweater","option_label":"Size M"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body: %s)", w.Code, w.Body.String())
	}
	var resp CreateStockRequestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != 42 {
		t.Fatalf("id = %d, want 42", resp.ID)
	}
	if got.VariantID != "44723818070234" {
		t.Fatalf("variant id = %q, want numeric id normalized to string", got.VariantID)
	}
	if got.OptionLabel != "Size M" {
		t.Fatalf("option label = %q", got.OptionLabel)
	}
}

func TestCreateRequest_MissingFields(t *testing.T) {
	r := newTestRouter(stubStore{}, stubMatcher{}, &stubDispatcher{})

	cases := []struct {
		name string
		body string
	}{
		{"no email", `{"variant_id":"1","product_id":"p","product_title":"P"}`},
		{"bad email", `{"email":"nope","variant_id":"1","product_id":"p","product_title":"P"}`},
		{"no variant", `{"email":"a@b.co","product_id":"p","product_title":"P"}`},
		{"no product", `{"email":"a@b.co","variant_id":"1","product_title":"P"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/stock-requests", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if er.Code != ErrCodeBadRequest {
				t.Fatalf("code = %q, want %q", er.Code, ErrCodeBadRequest)
			}
		})
	}
}

func TestCreateRequest_StoreValidationMapsTo400(t *testing.T) {
	st := stubStore{create: func(context.Context, store.CreateInput) (*domain.StockRequest, error) {
		return nil, store.ErrEmailRequired
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodPost, "/stock-requests",
		`{"email":"a@b.co","variant_id":"1","product_id":"p","product_title":"P"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateRequest_StoreErrorMapsTo500(t *testing.T) {
	st := stubStore{create: func(context.Context, store.CreateInput) (*domain.StockRequest, error) {
		return nil, errors.New("disk full")
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodPost, "/stock-requests",
		`{"email":"a@b.co","variant_id":"1","product_id":"p","product_title":"P"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if er.Code != ErrCodeCreateFailed {
		t.Fatalf("code = %q, want %q", er.Code, ErrCodeCreateFailed)
	}
}

// ---------- ListRequests ----------

func TestListRequests_EmptyIsJSONArray(t *testing.T) {
	r := newTestRouter(stubStore{}, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/stock-requests", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Fatalf("body = %s, want []", got)
	}
}

func TestListRequests_ReturnsSnapshot(t *testing.T) {
	st := stubStore{listAll: func(context.Context) ([]domain.StockRequest, error) {
		return []domain.StockRequest{
			{ID: 1, VariantID: "v1", Email: "a@b.co"},
			{ID: 2, VariantID: "v2", Email: "c@d.co"},
		}, nil
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/stock-requests", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var all []domain.StockRequest
	if err := json.Unmarshal(w.Body.Bytes(), &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(all) != 2 || all[0].ID != 1 || all[1].VariantID != "v2" {
		t.Fatalf("unexpected snapshot: %+v", all)
	}
}

func TestListRequests_StoreError(t *testing.T) {
	st := stubStore{listAll: func(context.Context) ([]domain.StockRequest, error) {
		return nil, errors.New("boom")
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/stock-requests", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

// ---------- HandleInventory ----------

func TestHandleInventory_MatchesAndDispatches(t *testing.T) {
	matched := []domain.StockRequest{{ID: 7, VariantID: "123", Email: "a@b.co"}}
	m := stubMatcher{match: func(_ context.Context, ev domain.InventoryEvent) ([]domain.StockRequest, error) {
		if ev.VariantID != "123" || ev.Quantity != 5 {
			t.Fatalf("event = %+v", ev)
		}
		return matched, nil
	}}
	d := &stubDispatcher{}
	r := newTestRouter(stubStore{}, m, d)

	w := doJSON(t, r, http.MethodPost, "/webhooks/inventory",
		`{"variant_id":123,"inventory_quantity":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(d.batches) != 1 || len(d.batches[0]) != 1 || d.batches[0][0].ID != 7 {
		t.Fatalf("dispatched batches = %+v", d.batches)
	}
}

func TestHandleInventory_ShopifyFieldSpellings(t *testing.T) {
	var seen domain.InventoryEvent
	m := stubMatcher{match: func(_ context.Context, ev domain.InventoryEvent) ([]domain.StockRequest, error) {
		seen = ev
		return nil, nil
	}}
	r := newTestRouter(stubStore{}, m, &stubDispatcher{})

	// "id" + "inventory_quantity" used when variant_id/quantity are absent
	w := doJSON(t, r, http.MethodPost, "/webhooks/inventory",
		`{"id":44723818070234,"inventory_quantity":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if seen.VariantID != "44723818070234" || seen.Quantity != 3 {
		t.Fatalf("event = %+v", seen)
	}

	// inventory_quantity wins over quantity when both present
	w = doJSON(t, r, http.MethodPost, "/webhooks/inventory",
		`{"variant_id":"9","quantity":1,"inventory_quantity":8}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if seen.Quantity != 8 {
		t.Fatalf("quantity = %d, want inventory_quantity to win", seen.Quantity)
	}
}

func TestHandleInventory_NoMatchesNoDispatch(t *testing.T) {
	d := &stubDispatcher{}
	r := newTestRouter(stubStore{}, stubMatcher{}, d)

	w := doJSON(t, r, http.MethodPost, "/webhooks/inventory",
		`{"variant_id":"123","inventory_quantity":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if len(d.batches) != 0 {
		t.Fatalf("dispatched with no matches: %+v", d.batches)
	}
}

func TestHandleInventory_MatchErrorStillAcks200(t *testing.T) {
	m := stubMatcher{match: func(context.Context, domain.InventoryEvent) ([]domain.StockRequest, error) {
		return nil, errors.New("store down")
	}}
	d := &stubDispatcher{}
	r := newTestRouter(stubStore{}, m, d)

	w := doJSON(t, r, http.MethodPost, "/webhooks/inventory",
		`{"variant_id":"123","inventory_quantity":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 even on match failure", w.Code)
	}
	if len(d.batches) != 0 {
		t.Fatalf("dispatched despite match failure")
	}
}

func TestHandleInventory_MalformedJSON(t *testing.T) {
	r := newTestRouter(stubStore{}, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodPost, "/webhooks/inventory", `{"variant_id":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

// ---------- Health / Deliveries ----------

func TestHealth_ReportsCountsAndUptime(t *testing.T) {
	st := stubStore{stats: func(context.Context) (store.Stats, error) {
		return store.Stats{Total: 12, Pending: 4, Notified: 8}, nil
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" || resp.Total != 12 || resp.Pending != 4 || resp.Notified != 8 {
		t.Fatalf("health = %+v", resp)
	}
	if resp.UptimeSeconds < 0 {
		t.Fatalf("uptime = %v", resp.UptimeSeconds)
	}
}

func TestHealth_StoreError(t *testing.T) {
	st := stubStore{stats: func(context.Context) (store.Stats, error) {
		return store.Stats{}, errors.New("boom")
	}}
	r := newTestRouter(st, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/health", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestListDeliveries_EmptyIsJSONArray(t *testing.T) {
	r := newTestRouter(stubStore{}, stubMatcher{}, &stubDispatcher{})

	w := doJSON(t, r, http.MethodGet, "/deliveries", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "[]" {
		t.Fatalf("body = %s, want []", got)
	}
}

func TestListDeliveries_ReturnsJournal(t *testing.T) {
	d := &stubDispatcher{outcomes: []domain.DeliveryOutcome{
		{RequestID: 1, VariantID: "v", Email: "a@b.co", Sent: true, At: time.Now()},
		{RequestID: 2, VariantID: "v", Email: "c@d.co", Sent: false, Error: "smtp: timeout", At: time.Now()},
	}}
	r := newTestRouter(stubStore{}, stubMatcher{}, d)

	w := doJSON(t, r, http.MethodGet, "/deliveries", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var out []domain.DeliveryOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || !out[0].Sent || out[1].Error == "" {
		t.Fatalf("outcomes = %+v", out)
	}
}
