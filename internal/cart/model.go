package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MikeMC777/tienda-ecom/internal/product"
)

// Line is one (session, product, size) entry of a cart.
type Line struct {
	ID         string    `json:"id"`
	SessionKey string    `json:"-"`
	ProductID  string    `json:"product_id"`
	Size       *string   `json:"size,omitempty"`
	Quantity   int       `json:"quantity"`
	AddedAt    time.Time `json:"added_at"`
}

// PricedLine is a cart line joined with the catalog at read time.
type PricedLine struct {
	Line
	Product *product.Product `json:"product"`
	Price   decimal.Decimal  `json:"unit_price"`
	Total   decimal.Decimal  `json:"total"`
}

func (l PricedLine) UnitPrice() decimal.Decimal { return l.Price }
func (l PricedLine) Qty() int                   { return l.Quantity }

// View is what the cart page and the summary widget render.
type View struct {
	Lines []PricedLine    `json:"lines"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// AddItemRequest payload for adding a product to the cart.
// swagger:model AddItemRequest
type AddItemRequest struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
	Quantity  int    `json:"quantity"   example:"1"`
	Size      string `json:"size"       example:"9"`
}

// SetQuantityRequest payload for editing one line. Zero or less removes it.
// swagger:model SetQuantityRequest
type SetQuantityRequest struct {
	Quantity int `json:"quantity" example:"3"`
}

// UpdateQuantitiesRequest payload for editing several lines at once.
// swagger:model UpdateQuantitiesRequest
type UpdateQuantitiesRequest struct {
	Quantities map[string]int `json:"quantities"`
}
