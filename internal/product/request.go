package product

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid product")

func parsePrice(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.Wrapf(ErrInvalid, "%s must be a decimal amount", field)
	}
	if d.IsNegative() {
		return decimal.Zero, errors.Wrapf(ErrInvalid, "%s must be non-negative", field)
	}
	return d.Round(2), nil
}

func (p *Product) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Wrap(ErrInvalid, "name is required")
	}
	if p.OfferPrice != nil && p.OfferPrice.GreaterThan(p.Price) {
		return errors.Wrap(ErrInvalid, "offer_price must not exceed price")
	}
	return nil
}

// ToProduct builds a new product with a fresh id. Available defaults to true.
func (r CreateProductRequest) ToProduct() (*Product, error) {
	if strings.TrimSpace(r.Price) == "" {
		return nil, errors.Wrap(ErrInvalid, "price is required")
	}
	price, err := parsePrice("price", r.Price)
	if err != nil {
		return nil, err
	}
	p := &Product{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(r.Name),
		Description: strings.TrimSpace(r.Description),
		Category:    strings.TrimSpace(r.Category),
		Price:       price,
		OnOffer:     r.OnOffer,
		Available:   true,
	}
	if r.Available != nil {
		p.Available = *r.Available
	}
	if r.OfferPrice != nil && strings.TrimSpace(*r.OfferPrice) != "" {
		o, err := parsePrice("offer_price", *r.OfferPrice)
		if err != nil {
			return nil, err
		}
		p.OfferPrice = &o
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyTo merges the non-empty fields into p. An empty offer_price string
// removes the offer price.
func (r UpdateProductRequest) ApplyTo(p *Product) error {
	if s := strings.TrimSpace(r.Name); s != "" {
		p.Name = s
	}
	if s := strings.TrimSpace(r.Description); s != "" {
		p.Description = s
	}
	if s := strings.TrimSpace(r.Category); s != "" {
		p.Category = s
	}
	if strings.TrimSpace(r.Price) != "" {
		d, err := parsePrice("price", r.Price)
		if err != nil {
			return err
		}
		p.Price = d
	}
	if r.OfferPrice != nil {
		if strings.TrimSpace(*r.OfferPrice) == "" {
			p.OfferPrice = nil
		} else {
			d, err := parsePrice("offer_price", *r.OfferPrice)
			if err != nil {
				return err
			}
			p.OfferPrice = &d
		}
	}
	if r.OnOffer != nil {
		p.OnOffer = *r.OnOffer
	}
	if r.Available != nil {
		p.Available = *r.Available
	}
	return p.validate()
}
