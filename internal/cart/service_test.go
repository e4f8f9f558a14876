package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/tienda-ecom/internal/product"
)

//
// ===== in-memory stubs =====
//

type memRepo struct {
	mu    sync.Mutex
	lines []Line
}

func (m *memRepo) Upsert(ctx context.Context, l *Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		cur := &m.lines[i]
		if cur.SessionKey == l.SessionKey && cur.ProductID == l.ProductID && sizeArg(cur.Size) == sizeArg(l.Size) {
			cur.Quantity += l.Quantity
			l.ID, l.Quantity = cur.ID, cur.Quantity
			return nil
		}
	}
	m.lines = append(m.lines, *l)
	return nil
}

func (m *memRepo) SetQuantity(ctx context.Context, sessionKey, lineID string, qty int) (bool, error) {
	if qty <= 0 {
		return m.Remove(ctx, sessionKey, lineID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ID == lineID && m.lines[i].SessionKey == sessionKey {
			m.lines[i].Quantity = qty
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Remove(ctx context.Context, sessionKey, lineID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.lines {
		if m.lines[i].ID == lineID && m.lines[i].SessionKey == sessionKey {
			m.lines = append(m.lines[:i], m.lines[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) List(ctx context.Context, sessionKey string) ([]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Line
	for _, l := range m.lines {
		if l.SessionKey == sessionKey {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) Clear(ctx context.Context, sessionKey string, ids []string) error {
	for _, id := range ids {
		if _, err := m.Remove(ctx, sessionKey, id); err != nil {
			return err
		}
	}
	return nil
}

type memBuyNow struct{ refs map[string]string }

func (b *memBuyNow) Set(ctx context.Context, s, p string) error { b.refs[s] = p; return nil }
func (b *memBuyNow) Get(ctx context.Context, s string) (string, bool, error) {
	p, ok := b.refs[s]
	return p, ok, nil
}
func (b *memBuyNow) Clear(ctx context.Context, s string) error { delete(b.refs, s); return nil }

type stubCatalog map[string]*product.Product

func (c stubCatalog) Lookup(ctx context.Context, id string) (*product.Product, error) {
	p, ok := c[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func setup(t *testing.T) (*Service, *memRepo, stubCatalog) {
	t.Helper()
	catalog := stubCatalog{
		"shoe":  {ID: "shoe", Category: "Footwear", Price: decimal.RequireFromString("19.99"), Available: true},
		"mug":   {ID: "mug", Category: "Kitchen", Price: decimal.RequireFromString("5.00"), Available: true},
		"retro": {ID: "retro", Category: "Kitchen", Price: decimal.RequireFromString("1.00"), Available: false},
	}
	repo := &memRepo{}
	return NewService(repo, &memBuyNow{refs: map[string]string{}}, catalog), repo, catalog
}

//
// ===== tests =====
//

func TestAdd_ConcurrentUpsertsMergeIntoOneLine(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := svc.Add(ctx, "s1", "shoe", "9", q)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	lines, err := repo.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 55, lines[0].Quantity)
}

func TestAdd_DifferentSizeIsDistinctLine(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "shoe", "9", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", "shoe", "10", 1)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", "shoe", "", 1)
	require.NoError(t, err)

	lines, _ := repo.List(ctx, "s1")
	assert.Len(t, lines, 3)
}

func TestAdd_Rejections(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", "mug", "", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(ctx, "s1", "mug", "", -2)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.Add(ctx, "s1", "retro", "", 1)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = svc.Add(ctx, "s1", "shoe", "XXL", 1)
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = svc.Add(ctx, "s1", "ghost", "", 1)
	assert.ErrorIs(t, err, product.ErrNotFound)

	lines, _ := repo.List(ctx, "s1")
	assert.Empty(t, lines)
}

func TestAdd_UnsizedCategoryDropsSize(t *testing.T) {
	svc, _, _ := setup(t)

	l, err := svc.Add(context.Background(), "s1", "mug", "M", 2)
	require.NoError(t, err)
	assert.Nil(t, l.Size)
}

func TestSetQuantity(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	l, err := svc.Add(ctx, "s1", "mug", "", 2)
	require.NoError(t, err)

	// another session cannot touch it
	require.NoError(t, svc.SetQuantity(ctx, "intruder", l.ID, 7))
	require.NoError(t, svc.Remove(ctx, "intruder", l.ID))
	lines, _ := repo.List(ctx, "s1")
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)

	require.NoError(t, svc.SetQuantity(ctx, "s1", l.ID, 4))
	lines, _ = repo.List(ctx, "s1")
	assert.Equal(t, 4, lines[0].Quantity)

	// malformed ids are ignored
	require.NoError(t, svc.SetQuantity(ctx, "s1", "not-a-uuid", 4))

	require.NoError(t, svc.SetQuantity(ctx, "s1", l.ID, 0))
	lines, _ = repo.List(ctx, "s1")
	assert.Empty(t, lines)
}

func TestUpdateQuantities(t *testing.T) {
	svc, repo, _ := setup(t)
	ctx := context.Background()
	a, _ := svc.Add(ctx, "s1", "mug", "", 1)
	b, _ := svc.Add(ctx, "s1", "shoe", "8", 1)

	err := svc.UpdateQuantities(ctx, "s1", map[string]int{a.ID: 5, b.ID: -1, uuid.NewString(): 3})
	require.NoError(t, err)

	lines, _ := repo.List(ctx, "s1")
	require.Len(t, lines, 1)
	assert.Equal(t, a.ID, lines[0].ID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestView_TotalsAndCount(t *testing.T) {
	svc, repo, catalog := setup(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, "s1", "shoe", "9", 2)
	_, _ = svc.Add(ctx, "s1", "mug", "", 3)

	// availability is enforced at add time only
	catalog["mug"].Available = false

	v, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "54.98", v.Total.StringFixed(2))
	assert.Equal(t, 5, v.Count)
	require.Len(t, v.Lines, 2)
	assert.Equal(t, "shoe", v.Lines[0].ProductID)

	// removed products drop out of the cart
	delete(catalog, "shoe")
	v, err = svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "15.00", v.Total.StringFixed(2))
	lines, _ := repo.List(ctx, "s1")
	assert.Len(t, lines, 1)
}

func TestView_UsesOfferPrice(t *testing.T) {
	svc, _, catalog := setup(t)
	ctx := context.Background()
	offer := decimal.RequireFromString("15.00")
	catalog["shoe"].OfferPrice = &offer
	catalog["shoe"].OnOffer = true

	_, _ = svc.Add(ctx, "s1", "shoe", "", 2)
	v, err := svc.View(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "30.00", v.Total.StringFixed(2))
}

func TestBuyNow(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.SetBuyNow(ctx, "s1", "ghost"), product.ErrNotFound)

	require.NoError(t, svc.SetBuyNow(ctx, "s1", "mug"))
	id, ok, err := svc.BuyNow(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "mug", id)

	require.NoError(t, svc.ClearBuyNow(ctx, "s1"))
	_, ok, err = svc.BuyNow(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSizeChart(t *testing.T) {
	assert.Equal(t, shoeSizes, SizeChart("Running Shoes"))
	assert.Equal(t, clothingSizes, SizeChart("T-Shirt & Dress"))
	assert.Equal(t, pantSizes, SizeChart("Jeans"))
	assert.Nil(t, SizeChart("Kitchen"))

	sz, err := NormalizeSize("dress", "xl")
	require.NoError(t, err)
	assert.Equal(t, "XL", *sz)
}
