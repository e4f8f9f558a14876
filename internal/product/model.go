package product

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// NUMERIC(10,2) in Postgres, kept as decimal to avoid float rounding
	Price      decimal.Decimal  `json:"price"`
	OfferPrice *decimal.Decimal `json:"offer_price,omitempty"`
	OnOffer    bool             `json:"is_on_offer"`
	Available  bool             `json:"available"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// HasOffer reports whether the offer price applies.
func (p *Product) HasOffer() bool {
	return p.OnOffer && p.OfferPrice != nil
}

// EffectivePrice is the offer price when an offer applies, else the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.HasOffer() {
		return *p.OfferPrice
	}
	return p.Price
}

// DiscountPercent returns the truncated offer discount, or nil without an offer.
func (p *Product) DiscountPercent() *int {
	if !p.HasOffer() || p.Price.IsZero() {
		return nil
	}
	pct := int(p.Price.Sub(*p.OfferPrice).Div(p.Price).Mul(hundred).IntPart())
	return &pct
}

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: not found
	Error string `json:"error"`
}

// ListResponse represents the paginated response of products.
// swagger:model
type ListResponse struct {
	// search query applied
	Q string `json:"q,omitempty"`
	// limit applied
	Limit int `json:"limit"`
	// offset applied
	Offset int `json:"offset"`
	// items found
	Items []Product `json:"items"`
}

// CreateProductRequest payload of creation.
// swagger:model CreateProductRequest
type CreateProductRequest struct {
	Name        string  `json:"name"        example:"Running Shoe"`
	Description string  `json:"description" example:"Lightweight trainer"`
	Category    string  `json:"category"    example:"footwear"`
	Price       string  `json:"price"       example:"79.90"`
	OfferPrice  *string `json:"offer_price" example:"59.90"`
	OnOffer     bool    `json:"is_on_offer"`
	Available   *bool   `json:"available"`
}

// UpdateProductRequest payload of partial update. Omitted fields keep their value.
// swagger:model UpdateProductRequest
type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	OfferPrice  *string `json:"offer_price"`
	OnOffer     *bool   `json:"is_on_offer"`
	Available   *bool   `json:"available"`
}
