package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/cart"
	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/order"
	"github.com/Jatin-1111/darziewebsite-sub000/internal/domain/product"
)

// fakeProducts is an in-memory product.Repository. Search returns canned
// results and records the query it was called with.
type fakeProducts struct {
	byID      map[string]product.Product
	page      *product.Page
	searchErr error
	lastQuery *product.Query
}

func newFakeProducts(prods ...product.Product) *fakeProducts {
	f := &fakeProducts{byID: make(map[string]product.Product)}
	for _, p := range prods {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakeProducts) Search(_ context.Context, q product.Query) (*product.Page, error) {
	f.lastQuery = &q
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &product.Page{Items: []product.Product{}, Pagination: product.Pagination{CurrentPage: 1, TotalPages: 1}}, nil
}

func (f *fakeProducts) GetByID(_ context.Context, id string) (*product.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProducts) GetByIDs(_ context.Context, ids []string) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeProducts) Upsert(_ context.Context, p *product.Product) error {
	f.byID[p.ID] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return product.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// memCarts is an in-memory cart.Repository.
type memCarts struct {
	lines map[string]map[string]int
}

func newMemCarts() *memCarts {
	return &memCarts{lines: make(map[string]map[string]int)}
}

func (m *memCarts) Get(_ context.Context, userID string) (*cart.Cart, error) {
	c := &cart.Cart{UserID: userID}
	for id, qty := range m.lines[userID] {
		c.Items = append(c.Items, cart.Line{ProductID: id, Quantity: qty})
	}
	return c, nil
}

func (m *memCarts) AddDelta(_ context.Context, userID, productID string, delta int) error {
	if m.lines[userID] == nil {
		m.lines[userID] = make(map[string]int)
	}
	m.lines[userID][productID] += delta
	return nil
}

func (m *memCarts) SetQuantity(_ context.Context, userID, productID string, quantity int) error {
	if m.lines[userID] == nil || m.lines[userID][productID] == 0 {
		return cart.ErrLineNotFound
	}
	m.lines[userID][productID] = quantity
	return nil
}

func (m *memCarts) Remove(_ context.Context, userID, productID string) error {
	if m.lines[userID] == nil || m.lines[userID][productID] == 0 {
		return cart.ErrLineNotFound
	}
	delete(m.lines[userID], productID)
	return nil
}

func (m *memCarts) Clear(_ context.Context, userID string) error {
	delete(m.lines, userID)
	return nil
}

// memOrders is an in-memory order.Repository.
type memOrders struct {
	created []order.Order
}

func (m *memOrders) Create(_ context.Context, o *order.Order) error {
	m.created = append(m.created, *o)
	return nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string) ([]order.Order, error) {
	var out []order.Order
	for i := len(m.created) - 1; i >= 0; i-- {
		if m.created[i].UserID == userID {
			out = append(out, m.created[i])
		}
	}
	return out, nil
}

func testProduct(id string, stock int) product.Product {
	return product.Product{
		ID:         id,
		Title:      "Test " + id,
		Category:   product.CategorySaree,
		Price:      decimal.NewFromInt(2499),
		SalePrice:  decimal.NewFromInt(1999),
		TotalStock: stock,
		Images:     []string{"/p/" + id + ".jpg"},
	}
}

// newTestRouter wires a Handler over in-memory state with a pass-through
// auth middleware, so handler behavior is tested in isolation from security.
func newTestRouter(t *testing.T, products *fakeProducts) http.Handler {
	t.Helper()
	carts := cart.NewService(newMemCarts(), products)
	orders := order.NewService(&memOrders{}, carts)
	h := New(Config{}, products, carts, orders)
	return h.Routes(func(next http.Handler) http.Handler { return next })
}

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
	Message    string          `json:"message"`
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}
