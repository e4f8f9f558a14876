package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	prod "github.com/MikeMC777/tienda-ecom/internal/product"
)

//
// ===== IN-MEMORY STUB REPO (implements product.Repository) =====
//

type stubRepo struct {
	items     map[string]*prod.Product
	lastQuery prod.Query
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: make(map[string]*prod.Product)}
}

func (s *stubRepo) List(ctx context.Context, q prod.Query) ([]prod.Product, error) {
	s.lastQuery = q
	out := make([]prod.Product, 0, len(s.items))
	for _, v := range s.items {
		if q.Q != "" {
			if !containsFold(v.Name, q.Q) && !containsFold(v.Description, q.Q) {
				continue
			}
		}
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	start := q.Offset
	if start > len(out) {
		return []prod.Product{}, nil
	}
	end := start + q.Limit
	if end > len(out) || q.Limit <= 0 {
		end = len(out)
	}
	return out[start:end], nil
}

func (s *stubRepo) GetByID(ctx context.Context, id string) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubRepo) Create(ctx context.Context, p *prod.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[p.ID] = &cp
	return nil
}

func (s *stubRepo) Update(ctx context.Context, p *prod.Product) error {
	if _, ok := s.items[p.ID]; !ok {
		return prod.ErrNotFound
	}
	cp := *p
	cp.UpdatedAt = time.Now().UTC()
	s.items[p.ID] = &cp
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

type stubOffers struct {
	items []prod.Offer
}

func newStubOffers() *stubOffers { return &stubOffers{} }

func (s *stubOffers) CreateOffer(ctx context.Context, o *prod.Offer) error {
	o.CreatedAt = time.Now().UTC()
	s.items = append([]prod.Offer{*o}, s.items...)
	return nil
}

func (s *stubOffers) ListLive(ctx context.Context, now time.Time) ([]prod.Offer, error) {
	var out []prod.Offer
	for i := range s.items {
		if s.items[i].LiveAt(now) {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *stubOffers) DeleteOffer(ctx context.Context, id string) (bool, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

//
// ===== TESTS =====
//

// /products → pagination ONLY (must not send Q to the repo)
func TestListProducts_PaginationOnly_NoSearch(t *testing.T) {
	repo := newStubRepo()
	for _, id := range []string{"1", "2", "3"} {
		_ = repo.Create(context.Background(), &prod.Product{ID: id, Name: "Prod " + id, Description: "desc", Price: price("10.00")})
	}
	r := newRouter(repo, newStubOffers())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products?limit=2&offset=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		Items  []prod.Product `json:"items"`
		Limit  int            `json:"limit"`
		Offset int            `json:"offset"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].ID != "2" {
		t.Fatalf("unexpected page: %+v", got.Items)
	}
	if repo.lastQuery.Q != "" {
		t.Fatalf("listOnlyHandler must not search; Q=%q", repo.lastQuery.Q)
	}
}

// /products/search → requires q (≥2); returns filtered + paginated
func TestSearchProducts_RequiresQAndFilters(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "a", Name: "Mouse Pro", Description: "inalámbrico", Price: price("99.90")})
	_ = repo.Create(context.Background(), &prod.Product{ID: "b", Name: "Teclado", Description: "mecánico", Price: price("149.90")})
	r := newRouter(repo, newStubOffers())

	for _, path := range []string{"/products/search?limit=10", "/products/search?q=m"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/search?q=mo&limit=10&offset=0", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got prod.ListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Q != "mo" || len(got.Items) != 1 || got.Items[0].ID != "a" {
		t.Fatalf("unexpected result: q=%q items=%+v", got.Q, got.Items)
	}
}

// /products/:id
func TestGetProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubRepo()
	offer := price("120.00")
	_ = repo.Create(context.Background(), &prod.Product{ID: "x", Name: "Headset", Price: price("150.00"), OfferPrice: &offer, OnOffer: true})
	r := newRouter(repo, newStubOffers())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got productView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if got.EffectivePrice != "120.00" || got.DiscountPercent == nil || *got.DiscountPercent != 20 {
		t.Fatalf("offer fields: %+v", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}

// POST /products
func TestCreateProduct_Valid_And_Invalid(t *testing.T) {
	repo := newStubRepo()
	r := newRouter(repo, newStubOffers())

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := post(`{"name":"Starter Kit","description":"Básico","category":"shirt","price":"49.90"}`); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(repo.items) != 1 {
		t.Fatalf("product not stored")
	}

	for _, bad := range []string{
		`{"description":"x"}`,
		`{"name":"Bad","price":"-1.00"}`,
		`{"name":"Bad","price":"10.00","offer_price":"12.00"}`,
		`{not json`,
	} {
		if w := post(bad); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d body=%s", bad, w.Code, w.Body.String())
		}
	}
}

// PUT /products/:id (partial). Without price, the price stays.
func TestUpdateProduct_Partial_WithAndWithoutPrice(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "p", Name: "Mouse", Price: price("10.00"), Available: true})
	r := newRouter(repo, newStubOffers())

	put := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/products/p", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	if w := put(`{"name":"Mouse 2","available":false}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := repo.GetByID(context.Background(), "p")
	if got.Name != "Mouse 2" || !got.Price.Equal(price("10.00")) || got.Available {
		t.Fatalf("update without price not honoured: %+v", got)
	}

	if w := put(`{"price":"12.50"}`); w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = repo.GetByID(context.Background(), "p")
	if !got.Price.Equal(price("12.50")) {
		t.Fatalf("price not applied: %+v", got)
	}

	if w := put(`{"price":"-3"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d body=%s", w.Code, w.Body.String())
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/products/nope", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

// DELETE /products/:id
func TestDeleteProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubRepo()
	_ = repo.Create(context.Background(), &prod.Product{ID: "del", Name: "X", Price: price("1.00")})
	r := newRouter(repo, newStubOffers())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/del", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/del", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", w.Code, w.Body.String())
	}
}

// /offers
func TestOffers_CreateListDelete(t *testing.T) {
	offers := newStubOffers()
	r := newRouter(newStubRepo(), offers)
	now := time.Now().UTC()

	post := func(body map[string]any) *httptest.ResponseRecorder {
		b, _ := json.Marshal(body)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/offers", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(map[string]any{
		"title": "Summer sale", "position": "top",
		"start_date": now.Add(-time.Hour), "end_date": now.Add(time.Hour),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var live prod.Offer
	_ = json.Unmarshal(w.Body.Bytes(), &live)
	if !live.Active {
		t.Fatalf("is_active should default to true")
	}

	// scheduled for later, and one switched off
	if w := post(map[string]any{
		"title": "Next week", "position": "card",
		"start_date": now.Add(48 * time.Hour), "end_date": now.Add(96 * time.Hour),
	}); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if w := post(map[string]any{
		"title": "Paused", "position": "popup", "is_active": false,
		"start_date": now.Add(-time.Hour), "end_date": now.Add(time.Hour),
	}); w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	for _, bad := range []map[string]any{
		{"title": "", "position": "top", "start_date": now, "end_date": now},
		{"title": "x", "position": "sidebar", "start_date": now, "end_date": now},
		{"title": "x", "position": "top", "start_date": now, "end_date": now.Add(-time.Hour)},
	} {
		if w := post(bad); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %v, got %d", bad, w.Code)
		}
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offers", nil))
	var got []prod.Offer
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if w.Code != http.StatusOK || len(got) != 1 || got[0].ID != live.ID {
		t.Fatalf("status=%d live=%+v", w.Code, got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/offers/"+live.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d", w.Code)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/offers/"+live.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/offers", nil))
	if w.Body.String() != "[]" {
		t.Fatalf("expected empty list, got %s", w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
