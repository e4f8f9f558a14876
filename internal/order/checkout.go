package order

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/tienda-ecom/internal/cart"
	"github.com/MikeMC777/tienda-ecom/internal/pricing"
	"github.com/MikeMC777/tienda-ecom/internal/product"
)

// CartSource is the part of the cart store checkout reads. The lines it
// returns are consumed by Repository.Create, not by checkout itself.
type CartSource interface {
	List(ctx context.Context, sessionKey string) ([]cart.Line, error)
}

// BuyNowSource holds the transient single-product reference of a session.
type BuyNowSource interface {
	Get(ctx context.Context, sessionKey string) (string, bool, error)
}

// Result is what the confirmation page needs.
type Result struct {
	OrderID string `json:"order_id"`
	Paid    bool   `json:"paid"`
}

var formValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type Checkout struct {
	carts   CartSource
	buyNow  BuyNowSource
	catalog product.Catalog
	repo    Repository
	now     func() time.Time
}

func NewCheckout(carts CartSource, buyNow BuyNowSource, catalog product.Catalog, repo Repository) *Checkout {
	return &Checkout{
		carts:   carts,
		buyNow:  buyNow,
		catalog: catalog,
		repo:    repo,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// source is the resolved set of lines plus the claim that consumes them.
type source struct {
	items []Item
	claim Claim
}

// Place turns the session's buy-now reference, or else its cart, into an
// order. The source is consumed in the order's own transaction, so of two
// concurrent submits of the same cart only one commits; the other gets
// ErrNothingToCheckout.
func (c *Checkout) Place(ctx context.Context, sessionKey, userID string, req CheckoutRequest) (*Result, error) {
	if userID == "" {
		return nil, ErrForbidden
	}
	req.normalize()
	if err := req.validate(); err != nil {
		return nil, err
	}

	src, err := c.resolve(ctx, sessionKey)
	if err != nil {
		return nil, err
	}

	now := c.now()
	uid := userID
	o := &Order{
		ID:           uuid.NewString(),
		UserID:       &uid,
		Name:         req.Name,
		Email:        req.Email,
		Address:      req.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       StatusPending,
		Total:        pricing.Total(src.items),
		RefundStatus: NotRefunded,
	}
	Settle(req.PaymentInput).applyTo(o)
	for i := range src.items {
		src.items[i].OrderID = o.ID
	}

	if err := c.repo.Create(ctx, o, src.items, src.claim); err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"order_id": o.ID,
		"user_id":  userID,
		"total":    pricing.Money(o.Total),
		"method":   o.PaymentMethod,
		"paid":     o.Paid,
		"buy_now":  src.claim.BuyNowProductID != "",
	}).Info("order created")
	return &Result{OrderID: o.ID, Paid: o.Paid}, nil
}

func (c *Checkout) resolve(ctx context.Context, sessionKey string) (*source, error) {
	productID, ok, err := c.buyNow.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if ok {
		p, err := c.catalog.Lookup(ctx, productID)
		if err != nil {
			return nil, err
		}
		return &source{
			items: []Item{{
				ID:        uuid.NewString(),
				ProductID: p.ID,
				Quantity:  1,
				Price:     p.EffectivePrice(),
			}},
			claim: Claim{SessionKey: sessionKey, BuyNowProductID: productID},
		}, nil
	}

	lines, err := c.carts.List(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrNothingToCheckout
	}
	priced, stale, err := cart.Price(ctx, c.catalog, lines)
	if err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		return nil, errors.Wrapf(product.ErrNotFound, "cart line %s", stale[0])
	}

	src := &source{
		items: make([]Item, 0, len(priced)),
		claim: Claim{SessionKey: sessionKey, LineIDs: make([]string, 0, len(priced))},
	}
	for _, l := range priced {
		src.items = append(src.items, Item{
			ID:        uuid.NewString(),
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			Price:     l.Price,
			Size:      l.Size,
		})
		src.claim.LineIDs = append(src.claim.LineIDs, l.ID)
	}
	return src, nil
}

func (r *CheckoutRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

func (r CheckoutRequest) validate() error {
	v := &ValidationError{}
	if err := formValidator.Struct(r.Form); err != nil {
		var fe validator.ValidationErrors
		if !errors.As(err, &fe) {
			return err
		}
		for _, f := range fe {
			v.add(f.Field(), f.Tag())
		}
	}
	r.PaymentInput.validate(v)
	return v.orNil()
}
