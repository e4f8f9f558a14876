package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/tienda-ecom/internal/pricing"
	"github.com/MikeMC777/tienda-ecom/internal/product"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrUnavailable     = errors.New("product is not available")
	ErrInvalidSize     = errors.New("size is not offered for this product")
)

type Service struct {
	repo    Repository
	buyNow  BuyNowStore
	catalog product.Catalog
}

func NewService(repo Repository, buyNow BuyNowStore, catalog product.Catalog) *Service {
	return &Service{repo: repo, buyNow: buyNow, catalog: catalog}
}

// Add puts qty units of a product into the session cart, merging with an
// existing line of the same size.
func (s *Service) Add(ctx context.Context, sessionKey, productID, size string, qty int) (*Line, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Available {
		return nil, ErrUnavailable
	}
	sz, err := NormalizeSize(p.Category, size)
	if err != nil {
		return nil, err
	}

	l := &Line{
		ID:         uuid.NewString(),
		SessionKey: sessionKey,
		ProductID:  p.ID,
		Size:       sz,
		Quantity:   qty,
	}
	if err := s.repo.Upsert(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// SetQuantity edits one line. Lines of other sessions are ignored.
func (s *Service) SetQuantity(ctx context.Context, sessionKey, lineID string, qty int) error {
	if _, err := uuid.Parse(lineID); err != nil {
		return nil
	}
	_, err := s.repo.SetQuantity(ctx, sessionKey, lineID, qty)
	return err
}

func (s *Service) UpdateQuantities(ctx context.Context, sessionKey string, quantities map[string]int) error {
	for id, qty := range quantities {
		if err := s.SetQuantity(ctx, sessionKey, id, qty); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, sessionKey, lineID string) error {
	if _, err := uuid.Parse(lineID); err != nil {
		return nil
	}
	_, err := s.repo.Remove(ctx, sessionKey, lineID)
	return err
}

func (s *Service) List(ctx context.Context, sessionKey string) ([]Line, error) {
	return s.repo.List(ctx, sessionKey)
}

// View prices the session cart. Lines whose product left the catalog are
// dropped from the store; unavailable products are still priced.
func (s *Service) View(ctx context.Context, sessionKey string) (*View, error) {
	lines, err := s.repo.List(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	priced, stale, err := Price(ctx, s.catalog, lines)
	if err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		log.WithFields(log.Fields{"session": sessionKey, "lines": len(stale)}).Info("dropping cart lines of removed products")
		if err := s.repo.Clear(ctx, sessionKey, stale); err != nil {
			return nil, err
		}
	}

	v := &View{Lines: priced, Total: pricing.Total(priced)}
	for _, l := range priced {
		v.Count += l.Quantity
	}
	return v, nil
}

// SetBuyNow records productID as the session's buy-now reference.
func (s *Service) SetBuyNow(ctx context.Context, sessionKey, productID string) error {
	p, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return err
	}
	return s.buyNow.Set(ctx, sessionKey, p.ID)
}

// ClearBuyNow drops the buy-now reference so the next checkout uses the cart.
func (s *Service) ClearBuyNow(ctx context.Context, sessionKey string) error {
	return s.buyNow.Clear(ctx, sessionKey)
}

func (s *Service) BuyNow(ctx context.Context, sessionKey string) (string, bool, error) {
	return s.buyNow.Get(ctx, sessionKey)
}

// Price joins lines with the catalog. Ids of lines whose product no longer
// exists are returned separately.
func Price(ctx context.Context, catalog product.Catalog, lines []Line) ([]PricedLine, []string, error) {
	cache := make(map[string]*product.Product, len(lines))
	out := make([]PricedLine, 0, len(lines))
	var stale []string
	for _, l := range lines {
		p, ok := cache[l.ProductID]
		if !ok {
			var err error
			p, err = catalog.Lookup(ctx, l.ProductID)
			if errors.Is(err, product.ErrNotFound) {
				stale = append(stale, l.ID)
				continue
			}
			if err != nil {
				return nil, nil, err
			}
			cache[l.ProductID] = p
		}
		unit := p.EffectivePrice()
		out = append(out, PricedLine{
			Line:    l,
			Product: p,
			Price:   unit,
			Total:   pricing.LineTotal(unit, l.Quantity),
		})
	}
	return out, stale, nil
}

