package order

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/product"
)

// memRepo is an in-memory Repository with the same compare-and-set and
// source-consuming semantics as the PostgreSQL one.
type memRepo struct {
	mu        sync.Mutex
	orders    map[string]Order
	items     map[string][]Item
	carts     *memCart
	buyNow    *memBuyNow
	createErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		orders: map[string]Order{},
		items:  map[string][]Item{},
		carts:  &memCart{lines: map[string][]cart.Line{}},
		buyNow: &memBuyNow{refs: map[string]string{}},
	}
}

func (m *memRepo) put(o Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

func (m *memRepo) get(id string) Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memRepo) Create(_ context.Context, o *Order, items []Item, claim Claim) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	var ok bool
	if claim.BuyNowProductID != "" {
		ok = m.buyNow.take(claim.SessionKey, claim.BuyNowProductID)
	} else {
		ok = m.carts.take(claim.SessionKey, claim.LineIDs)
	}
	if !ok {
		return ErrNothingToCheckout
	}
	m.orders[o.ID] = *o
	m.items[o.ID] = append([]Item(nil), items...)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Order, []Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, nil, ErrNotFound
	}
	return &o, append([]Item(nil), m.items[id]...), nil
}

func (m *memRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, o := range m.orders {
		if o.OwnedBy(userID) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memRepo) ListByIDs(_ context.Context, ids []string) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Order
	for _, id := range ids {
		if o, ok := m.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) GetItems(_ context.Context, orderID string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Item(nil), m.items[orderID]...), nil
}

func (m *memRepo) Save(_ context.Context, t Transition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(t), nil
}

func (m *memRepo) SaveAll(_ context.Context, ts []Transition) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range ts {
		if m.saveLocked(t) {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) saveLocked(t Transition) bool {
	cur, ok := m.orders[t.Order.ID]
	if !ok || cur.Status != t.From {
		return false
	}
	m.orders[t.Order.ID] = t.Order
	return true
}

type memCart struct {
	mu      sync.Mutex
	lines   map[string][]cart.Line
	cleared []string
}

func (c *memCart) List(_ context.Context, sessionKey string) ([]cart.Line, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]cart.Line(nil), c.lines[sessionKey]...), nil
}

// take removes exactly ids, or nothing when any of them is gone.
func (c *memCart) take(sessionKey string, ids []string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	var keep []cart.Line
	for _, l := range c.lines[sessionKey] {
		if drop[l.ID] {
			delete(drop, l.ID)
			continue
		}
		keep = append(keep, l)
	}
	if len(ids) == 0 || len(drop) > 0 {
		return false
	}
	c.lines[sessionKey] = keep
	c.cleared = append(c.cleared, ids...)
	return true
}

type memBuyNow struct {
	mu   sync.Mutex
	refs map[string]string
}

func (b *memBuyNow) set(sessionKey, productID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refs[sessionKey] = productID
}

func (b *memBuyNow) Get(_ context.Context, sessionKey string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.refs[sessionKey]
	return id, ok, nil
}

func (b *memBuyNow) take(sessionKey, productID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.refs[sessionKey] != productID {
		return false
	}
	delete(b.refs, sessionKey)
	return true
}

type stubCatalog map[string]*product.Product

func (c stubCatalog) Lookup(_ context.Context, id string) (*product.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, errors.Wrap(product.ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
